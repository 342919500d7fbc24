package domain

import "time"

type RunKind string

const (
	RunKindCrawl  RunKind = "crawl"
	RunKindEnrich RunKind = "enrich"
)

type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunSummary describes one finished run.
type RunSummary struct {
	ID          string        `json:"id"`
	Kind        RunKind       `json:"kind"`
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"duration"`
	Status      RunStatus     `json:"status"`
	Processed   int           `json:"processed"`
	Success     int           `json:"success"`
	Errors      int           `json:"errors"`
	New         int           `json:"newListings"`
	Updated     int           `json:"updatedListings"`
	Descriptors int           `json:"descriptors,omitempty"`
	Pages       int           `json:"pages,omitempty"`
	RateLimited int           `json:"rateLimited,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// RunState is the durable state carried between runs.
type RunState struct {
	LastRun      *time.Time   `json:"lastRun"`
	LastFailure  *time.Time   `json:"lastFailure,omitempty"`
	TotalScraped int64        `json:"totalScraped"`
	TotalNew     int64        `json:"totalNew"`
	TotalUpdated int64        `json:"totalUpdated"`
	TotalSuccess int64        `json:"totalSuccess"`
	TotalErrors  int64        `json:"totalErrors"`
	Runs         []RunSummary `json:"runs"`
}

// CrawlResult is the output of one session crawl.
type CrawlResult struct {
	Listings    []Listing
	Descriptors int
	Pages       int
	PageErrors  int
	RateLimited int
	Duplicates  int
	Dropped     int
}

type BatchError struct {
	ExternalID string `json:"id"`
	Message    string `json:"message"`
}

// BatchResult reports the outcome of an upsert batch.
type BatchResult struct {
	Inserted int
	Updated  int
	Errors   []BatchError
	NewIDs   []string
}

type EnrichmentResult struct {
	Processed int
	Success   int
	Errors    int
	Failures  []BatchError
}

// CandidateQuery selects listings awaiting enrichment.
type CandidateQuery struct {
	Limit        int
	Source       string
	OnlyRecent   bool
	RecentWindow time.Duration
	Now          time.Time
}

type EventType string

const (
	EventCreated  EventType = "created"
	EventEnriched EventType = "enriched"
)
