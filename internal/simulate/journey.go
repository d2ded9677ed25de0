package simulate

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/rozgarlabs/portalkit/internal/analytics"
	"github.com/rozgarlabs/portalkit/internal/domain/platform"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	percentDivisor     = 100
)

// Sample data the journey generator draws from.
var (
	pages = []string{
		"/index.html",
		"/jobs.html",
		"/job-details.html",
		"/about.html",
		"/contact.html",
	}

	queries = []string{
		"software engineer",
		"data entry operator",
		"accountant lahore",
		"teacher",
		"electrician",
		"call center agent",
		"graphic designer",
		"nurse",
	}

	cities = []string{
		"Lahore",
		"Faisalabad",
		"Rawalpindi",
		"Multan",
		"Gujranwala",
		"Sialkot",
	}

	interactions = []string{"view", "save", "apply", "share"}

	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15",
		"Mozilla/5.0 (Linux; Android 13; SM-A135F) AppleWebKit/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15",
	}
)

// Journey is one synthetic visitor's planned path through the portal.
type Journey struct {
	VisitorID   string
	Page        analytics.PageContext
	Query       string
	City        string
	JobID       string
	Interaction string
	ScrollDepth int
	TryLogin    bool
	Email       string
	Password    string
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pick returns a random element of choices.
func pick(choices []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(choices))))
	return choices[n.Int64()]
}

// newJourney plans a single visitor journey.
func newJourney(index int, cfg *Config) Journey {
	roll, _ := rand.Int(rand.Reader, big.NewInt(percentDivisor))

	path := pick(pages)
	return Journey{
		VisitorID: "visitor_" + strconv.Itoa(index),
		Page: analytics.PageContext{
			Path:           path,
			Title:          "Punjab Rozgar Portal",
			Referrer:       "",
			Language:       "en-PK",
			ViewportWidth:  1366,
			ViewportHeight: 768,
			Platform:       platform.ClientInfo{UserAgent: pick(userAgents)},
		},
		Query:       pick(queries),
		City:        pick(cities),
		JobID:       fmt.Sprintf("job_%d", int(getRandomFloat()*float64(randomFloatDivisor))),
		Interaction: pick(interactions),
		ScrollDepth: int(getRandomFloat() * 100),
		TryLogin:    int(roll.Int64()) < cfg.LoginPct,
		Email:       fmt.Sprintf("visitor%d@example.com", index),
		Password:    "simulated-password",
	}
}
