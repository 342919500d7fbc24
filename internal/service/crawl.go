package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"listing_crawler/internal/descriptor"
	"listing_crawler/internal/domain"
)

type CrawlOptions struct {
	Source      string
	Shuffle     bool
	MaxSearches int
}

// CrawlService runs the daily discovery crawl and serves listing queries.
type CrawlService struct {
	descriptors DescriptorSource
	crawler     Crawler
	listings    ListingStore
	tracker     RunTracker
	publisher   Publisher
	logger      *slog.Logger
	opts        CrawlOptions

	rng   *rand.Rand
	now   func() time.Time
	newID func() string
}

func NewCrawlService(
	descriptors DescriptorSource,
	crawler Crawler,
	listings ListingStore,
	tracker RunTracker,
	publisher Publisher,
	logger *slog.Logger,
	opts CrawlOptions,
) *CrawlService {
	return &CrawlService{
		descriptors: descriptors,
		crawler:     crawler,
		listings:    listings,
		tracker:     tracker,
		publisher:   publisher,
		logger:      logger.With("component", "crawl_service", "source", opts.Source),
		opts:        opts,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// RunDailyUpdate crawls every descriptor, persists what it found and
// records the run. A cancelled crawl still persists the listings
// collected so far, then fails the run.
func (s *CrawlService) RunDailyUpdate(ctx context.Context) (*domain.RunSummary, error) {
	start := s.now()

	if _, err := s.tracker.Load(ctx); err != nil {
		return nil, err
	}

	summary := &domain.RunSummary{
		ID:        s.newID(),
		Kind:      domain.RunKindCrawl,
		StartedAt: start,
	}

	descriptors := s.descriptors.Generate()
	if s.opts.Shuffle {
		descriptors = descriptor.Shuffle(descriptors, s.rng)
	}
	descriptors = descriptor.Limit(descriptors, s.opts.MaxSearches)

	s.logger.Info("starting crawl",
		"run_id", summary.ID,
		"descriptors", len(descriptors),
		"shuffle", s.opts.Shuffle,
	)

	result, err := s.crawler.Run(ctx, descriptors)
	if result != nil {
		summary.Descriptors = result.Descriptors
		summary.Pages = result.Pages
		summary.RateLimited = result.RateLimited
		summary.Errors += result.PageErrors
	}
	if err != nil {
		if result != nil && len(result.Listings) > 0 {
			s.persist(context.WithoutCancel(ctx), result.Listings, summary)
		}
		return s.fail(ctx, summary, "crawl", err)
	}

	s.persist(ctx, result.Listings, summary)
	summary.Status = domain.RunStatusCompleted
	summary.Duration = s.now().Sub(start)

	s.tracker.Record(*summary)
	if err := s.tracker.Save(ctx); err != nil {
		return summary, err
	}

	s.logger.Info("crawl completed",
		"run_id", summary.ID,
		"processed", summary.Processed,
		"new", summary.New,
		"updated", summary.Updated,
		"errors", summary.Errors,
		"rate_limited", summary.RateLimited,
		"duplicates", result.Duplicates,
		"dropped", result.Dropped,
		"duration", summary.Duration,
	)

	return summary, nil
}

func (s *CrawlService) persist(ctx context.Context, listings []domain.Listing, summary *domain.RunSummary) {
	batch := s.listings.UpsertBatch(ctx, listings)

	summary.Processed += len(listings)
	summary.New += batch.Inserted
	summary.Updated += batch.Updated
	summary.Success += batch.Inserted + batch.Updated
	summary.Errors += len(batch.Errors)

	for _, e := range batch.Errors {
		s.logger.Error("failed to save listing", "external_id", e.ExternalID, "error", e.Message)
	}

	if s.publisher == nil || len(batch.NewIDs) == 0 {
		return
	}

	byID := make(map[string]*domain.Listing, len(listings))
	for i := range listings {
		byID[listings[i].ExternalID] = &listings[i]
	}

	for _, id := range batch.NewIDs {
		l, ok := byID[id]
		if !ok {
			continue
		}
		if err := s.publisher.Publish(ctx, l, domain.EventCreated); err != nil {
			summary.Errors++
			s.logger.Error("failed to publish listing", "external_id", id, "error", err)
		}
	}
}

func (s *CrawlService) fail(ctx context.Context, summary *domain.RunSummary, op string, err error) (*domain.RunSummary, error) {
	fatal := &domain.FatalError{Op: op, Err: err}

	summary.Status = domain.RunStatusFailed
	summary.Error = fatal.Error()
	summary.Duration = s.now().Sub(summary.StartedAt)

	s.tracker.Record(*summary)
	if saveErr := s.tracker.Save(context.WithoutCancel(ctx)); saveErr != nil {
		s.logger.Error("failed to save run state", "error", saveErr)
	}

	s.logger.Error("crawl failed", "run_id", summary.ID, "error", err)
	return summary, fatal
}

func (s *CrawlService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats, err := s.listings.Statistics(ctx, s.opts.Source)
	if err != nil {
		return nil, fmt.Errorf("listing statistics: %w", err)
	}
	return &domain.Statistics{Listings: stats, State: s.tracker.Snapshot()}, nil
}

// RecentNew lists listings discovered within the last window.
func (s *CrawlService) RecentNew(ctx context.Context, window time.Duration, limit int) ([]domain.Listing, error) {
	return s.listings.RecentNew(ctx, s.now().Add(-window), limit)
}

func (s *CrawlService) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Listing, error) {
	return s.listings.Search(ctx, filter)
}
