package simulate

import "time"

// Config holds configuration for a simulation run
type Config struct {
	BaseURL  string        // Base URL of the portal backend
	Visitors int           // Number of visitor journeys to simulate
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	StateDir string        // Root directory for per-visitor durable state
	LoginPct int           // Percentage of visitors that attempt a login
	Verbose  bool          // Enable verbose logging
}

// Stats holds simulation statistics
type Stats struct {
	VisitorsPlanned   int
	VisitorsCompleted int
	VisitorsFailed    int
	EventsQueued      int
	LoginsAttempted   int
	SearchesRun       int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
