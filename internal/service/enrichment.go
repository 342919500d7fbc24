package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"listing_crawler/internal/domain"
)

type EnrichmentOptions struct {
	Source         string
	Limit          int
	BatchSize      int
	BatchDelay     time.Duration
	ItemDelay      time.Duration
	OnlyRecent     bool
	RecentWindow   time.Duration
	StuckThreshold time.Duration
}

// EnrichRequest narrows one enrichment pass.
type EnrichRequest struct {
	Limit      int
	Source     string
	OnlyRecent bool
}

// EnrichmentService fills in detail-page attributes for listings the
// crawl discovered.
type EnrichmentService struct {
	store     EnrichmentStore
	fetcher   DetailFetcher
	tracker   RunTracker
	publisher Publisher
	logger    *slog.Logger
	opts      EnrichmentOptions

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	newID func() string
}

func NewEnrichmentService(
	store EnrichmentStore,
	fetcher DetailFetcher,
	tracker RunTracker,
	publisher Publisher,
	logger *slog.Logger,
	opts EnrichmentOptions,
) *EnrichmentService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.RecentWindow == 0 {
		opts.RecentWindow = 7 * 24 * time.Hour
	}
	if opts.StuckThreshold == 0 {
		opts.StuckThreshold = 2 * time.Hour
	}
	return &EnrichmentService{
		store:     store,
		fetcher:   fetcher,
		tracker:   tracker,
		publisher: publisher,
		logger:    logger.With("component", "enrichment_service", "source", opts.Source),
		opts:      opts,
		now:       time.Now,
		sleep:     sleepCtx,
		newID:     uuid.NewString,
	}
}

func (s *EnrichmentService) DefaultRequest() EnrichRequest {
	return EnrichRequest{
		Limit:      s.opts.Limit,
		Source:     s.opts.Source,
		OnlyRecent: s.opts.OnlyRecent,
	}
}

func (s *EnrichmentService) SelectCandidates(ctx context.Context, limit int, source string, onlyRecent bool) ([]domain.Listing, error) {
	return s.store.SelectCandidates(ctx, domain.CandidateQuery{
		Limit:        limit,
		Source:       source,
		OnlyRecent:   onlyRecent,
		RecentWindow: s.opts.RecentWindow,
		Now:          s.now(),
	})
}

// ProcessBatch enriches candidates one at a time, pausing ItemDelay
// between items and BatchDelay between batches. Failed items are marked
// as attempted and counted; only cancellation stops the pass.
func (s *EnrichmentService) ProcessBatch(ctx context.Context, candidates []domain.Listing) (*domain.EnrichmentResult, error) {
	result := &domain.EnrichmentResult{}

	for i := range candidates {
		if i > 0 {
			delay := s.opts.ItemDelay
			if i%s.opts.BatchSize == 0 {
				delay = s.opts.BatchDelay
				s.logger.Info("batch finished",
					"batch", i/s.opts.BatchSize,
					"processed", result.Processed,
					"success", result.Success,
				)
			}
			if err := s.sleep(ctx, delay); err != nil {
				return result, err
			}
		}

		c := &candidates[i]
		result.Processed++

		if err := s.enrich(ctx, c); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			result.Errors++
			result.Failures = append(result.Failures, domain.BatchError{ExternalID: c.ExternalID, Message: err.Error()})
			s.logger.Warn("enrichment failed", "external_id", c.ExternalID, "error", err)
			continue
		}
		result.Success++
	}

	return result, nil
}

func (s *EnrichmentService) enrich(ctx context.Context, c *domain.Listing) error {
	at := s.now()

	details, err := s.fetcher.FetchDetails(ctx, c.Link)
	if err != nil {
		if markErr := s.store.MarkAttempted(ctx, c.ExternalID, at); markErr != nil {
			s.logger.Error("failed to mark attempt", "external_id", c.ExternalID, "error", markErr)
		}
		return err
	}

	if err := s.store.ApplyDetails(ctx, c.ExternalID, details, at); err != nil {
		return fmt.Errorf("apply details: %w", err)
	}

	if s.publisher != nil {
		enriched := *c
		enriched.ListingDetails = *details
		enriched.DetailScraped = true
		enriched.LastScrapedAt = &at
		if err := s.publisher.Publish(ctx, &enriched, domain.EventEnriched); err != nil {
			s.logger.Error("failed to publish listing", "external_id", c.ExternalID, "error", err)
		}
	}

	return nil
}

// Run selects candidates once, processes them and records the pass.
func (s *EnrichmentService) Run(ctx context.Context, req EnrichRequest) (*domain.RunSummary, error) {
	start := s.now()

	if _, err := s.tracker.Load(ctx); err != nil {
		return nil, err
	}

	summary := &domain.RunSummary{
		ID:        s.newID(),
		Kind:      domain.RunKindEnrich,
		StartedAt: start,
	}

	candidates, err := s.SelectCandidates(ctx, req.Limit, req.Source, req.OnlyRecent)
	if err != nil {
		return s.fail(ctx, summary, "select candidates", err)
	}

	s.logger.Info("starting enrichment",
		"run_id", summary.ID,
		"candidates", len(candidates),
		"only_recent", req.OnlyRecent,
	)

	result, err := s.ProcessBatch(ctx, candidates)
	summary.Processed = result.Processed
	summary.Success = result.Success
	summary.Errors = result.Errors
	summary.Updated = result.Success
	if err != nil {
		return s.fail(ctx, summary, "process candidates", err)
	}

	summary.Status = domain.RunStatusCompleted
	summary.Duration = s.now().Sub(start)

	s.tracker.Record(*summary)
	if err := s.tracker.Save(ctx); err != nil {
		return summary, err
	}

	s.logger.Info("enrichment completed",
		"run_id", summary.ID,
		"processed", summary.Processed,
		"success", summary.Success,
		"errors", summary.Errors,
		"duration", summary.Duration,
	)

	return summary, nil
}

func (s *EnrichmentService) fail(ctx context.Context, summary *domain.RunSummary, op string, err error) (*domain.RunSummary, error) {
	fatal := &domain.FatalError{Op: op, Err: err}

	summary.Status = domain.RunStatusFailed
	summary.Error = fatal.Error()
	summary.Duration = s.now().Sub(summary.StartedAt)

	s.tracker.Record(*summary)
	if saveErr := s.tracker.Save(context.WithoutCancel(ctx)); saveErr != nil {
		s.logger.Error("failed to save run state", "error", saveErr)
	}

	s.logger.Error("enrichment failed", "run_id", summary.ID, "error", err)
	return summary, fatal
}

func (s *EnrichmentService) Statistics(ctx context.Context) (*domain.EnrichmentStats, error) {
	return s.store.EnrichmentStats(ctx, s.opts.Source)
}

func (s *EnrichmentService) TopAmenities(ctx context.Context, limit int) ([]domain.AmenityCount, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.TopAmenities(ctx, limit)
}

// Health reports stuck when listings await details and enrichment has
// not completed within the stuck threshold.
func (s *EnrichmentService) Health(ctx context.Context) (*domain.Health, error) {
	stats, err := s.store.EnrichmentStats(ctx, s.opts.Source)
	if err != nil {
		return nil, fmt.Errorf("enrichment statistics: %w", err)
	}

	lastRun := s.tracker.Snapshot().LastRun
	stale := lastRun == nil || s.now().Sub(*lastRun) > s.opts.StuckThreshold
	stuck := stats.WithoutDetails > 0 && stale

	health := &domain.Health{
		Status:         "ok",
		NeedsDetails:   stats.WithoutDetails,
		LastRun:        lastRun,
		Stuck:          stuck,
		StuckThreshold: s.opts.StuckThreshold.String(),
	}
	if stuck {
		health.Status = "stuck"
	}
	return health, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
