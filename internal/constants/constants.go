package constants

import "time"

// Application constants centralized in one location to improve type safety
// and eliminate magic strings throughout the codebase

// Default Configuration Values
const (
	// Server defaults
	DefaultPort         = 6660
	DefaultLogLevel     = "INFO"
	DefaultForwardSpeed = 1000
	DefaultSpinSpeed    = 3000
	DefaultMaxTrack     = 10000

	// WebSocket update interval
	StatusUpdateInterval = 1 * time.Second
)

// HTTP Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeTextPlain = "text/plain"
)

// HTTP Methods
const (
	MethodGET  = "GET"
	MethodPOST = "POST"
)

// Component Names for Logging
const (
	ComponentHTTPServer  = "http-server"
	ComponentHTTPHandler = "http_handler"
	ComponentDisk        = "disk"
	ComponentScheduler   = "scheduler"
	ComponentHarness     = "harness"
	ComponentGenerator   = "generator"
)

// Hardware Profile Validation Limits
const (
	MinAllowedTrack      = 1
	MaxAllowedTrack      = 1000000
	MinAllowedSpeedTicks = 1
	MaxAllowedSpeedTicks = 1000000000
)

// Metrics
const (
	MetricsNamespace = "diskscan"
)
