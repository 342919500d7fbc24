package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"listing_crawler/internal/domain"
)

type DescriptorSource interface {
	Generate() []domain.SearchDescriptor
}

type Crawler interface {
	Run(ctx context.Context, descriptors []domain.SearchDescriptor) (*domain.CrawlResult, error)
}

type ListingStore interface {
	UpsertBatch(ctx context.Context, listings []domain.Listing) *domain.BatchResult
	Statistics(ctx context.Context, source string) (*domain.ListingStats, error)
	RecentNew(ctx context.Context, since time.Time, limit int) ([]domain.Listing, error)
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Listing, error)
}

type EnrichmentStore interface {
	SelectCandidates(ctx context.Context, q domain.CandidateQuery) ([]domain.Listing, error)
	ApplyDetails(ctx context.Context, externalID string, details *domain.ListingDetails, at time.Time) error
	MarkAttempted(ctx context.Context, externalID string, at time.Time) error
	EnrichmentStats(ctx context.Context, source string) (*domain.EnrichmentStats, error)
	TopAmenities(ctx context.Context, limit int) ([]domain.AmenityCount, error)
}

type DetailFetcher interface {
	FetchDetails(ctx context.Context, link string) (*domain.ListingDetails, error)
}

type RunTracker interface {
	Load(ctx context.Context) (*domain.RunState, error)
	Record(summary domain.RunSummary)
	Save(ctx context.Context) error
	Snapshot() domain.RunState
}

type Publisher interface {
	Publish(ctx context.Context, listing *domain.Listing, event domain.EventType) error
	Close() error
}
