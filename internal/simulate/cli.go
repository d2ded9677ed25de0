package simulate

import "os"

// ShowHelp prints usage information for the simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Rozgar Portal Traffic Simulator
===============================

Drives synthetic visitor journeys through the portalkit client against a
running portal backend: page views, searches, job interactions, form
submissions, and the occasional login attempt.

Usage:
  go run cmd/rozgar-sim/main.go [options]

Options:
  -url string
        Base URL of the portal backend (default "http://localhost:8000/api/v1")
  -visitors int
        Number of visitor journeys to simulate (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -state string
        Root directory for per-visitor durable state (default: temp dir)
  -login-pct int
        Percentage of visitors that attempt a login (default 20)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/rozgar-sim/main.go

  # Heavier run against a staging backend
  go run cmd/rozgar-sim/main.go -visitors 5000 -workers 16 -url https://staging.example.com/api/v1

  # Mostly authenticated traffic
  go run cmd/rozgar-sim/main.go -visitors 500 -login-pct 80 -verbose
`)
}
