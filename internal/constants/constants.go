package constants

import (
	"time"
)

// Workflow settings
const (
	DefaultCurrency = "RWF"

	// A request parked in a *_required state longer than this gets
	// flagged for admin review by the daily sweep. It is never
	// auto-transitioned.
	StaleRequiredAfter = 72 * time.Hour
)

// Pagination for admin listings
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Candidate profile cache
const (
	CandidateCacheTTL     = 5 * time.Minute
	CandidateCacheCleanup = 10 * time.Minute
)
