package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"listing_crawler/internal/domain"
	"listing_crawler/internal/service/mocks"
	"listing_crawler/internal/testutil"
)

type EnrichmentServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	store     *mocks.MockEnrichmentStore
	fetcher   *mocks.MockDetailFetcher
	tracker   *mocks.MockRunTracker
	publisher *mocks.MockPublisher

	opts   EnrichmentOptions
	logger *slog.Logger
	now    time.Time
	sleeps []time.Duration
}

func (s *EnrichmentServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.store = mocks.NewMockEnrichmentStore(s.ctrl)
	s.fetcher = mocks.NewMockDetailFetcher(s.ctrl)
	s.tracker = mocks.NewMockRunTracker(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.opts = EnrichmentOptions{
		Source:         "mercadolibre",
		Limit:          100,
		BatchSize:      2,
		BatchDelay:     5 * time.Second,
		ItemDelay:      2 * time.Second,
		OnlyRecent:     true,
		RecentWindow:   7 * 24 * time.Hour,
		StuckThreshold: 2 * time.Hour,
	}
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.now = time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC)
	s.sleeps = nil
}

func (s *EnrichmentServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestEnrichmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EnrichmentServiceTestSuite))
}

func (s *EnrichmentServiceTestSuite) newService(publisher Publisher) *EnrichmentService {
	svc := NewEnrichmentService(s.store, s.fetcher, s.tracker, publisher, s.logger, s.opts)
	svc.now = func() time.Time { return s.now }
	svc.newID = func() string { return "enrich-1" }
	svc.sleep = func(_ context.Context, d time.Duration) error {
		s.sleeps = append(s.sleeps, d)
		return nil
	}
	return svc
}

func details(description string) *domain.ListingDetails {
	return &domain.ListingDetails{
		Description: testutil.Ptr(description),
		Amenities:   domain.StringList{"Alberca"},
	}
}

func (s *EnrichmentServiceTestSuite) TestProcessBatch_ThreeCandidates() {
	ctx := context.Background()
	candidates := testListings("A", "B", "C")

	s.fetcher.EXPECT().FetchDetails(ctx, candidates[0].Link).Return(details("casa A"), nil)
	s.store.EXPECT().ApplyDetails(ctx, "A", details("casa A"), s.now).Return(nil)

	s.fetcher.EXPECT().FetchDetails(ctx, candidates[1].Link).Return(nil, &domain.FetchError{Kind: domain.FetchOther, Status: 500})
	s.store.EXPECT().MarkAttempted(ctx, "B", s.now).Return(nil)

	s.fetcher.EXPECT().FetchDetails(ctx, candidates[2].Link).Return(details("casa C"), nil)
	s.store.EXPECT().ApplyDetails(ctx, "C", details("casa C"), s.now).Return(nil)

	result, err := s.newService(nil).ProcessBatch(ctx, candidates)

	s.NoError(err)
	s.Equal(3, result.Processed)
	s.Equal(2, result.Success)
	s.Equal(1, result.Errors)
	s.Require().Len(result.Failures, 1)
	s.Equal("B", result.Failures[0].ExternalID)
	s.Equal([]time.Duration{2 * time.Second, 5 * time.Second}, s.sleeps)
}

func (s *EnrichmentServiceTestSuite) TestProcessBatch_PublishesEnriched() {
	ctx := context.Background()
	candidates := testListings("A")

	s.fetcher.EXPECT().FetchDetails(ctx, candidates[0].Link).Return(details("casa A"), nil)
	s.store.EXPECT().ApplyDetails(ctx, "A", gomock.Any(), s.now).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any(), domain.EventEnriched).DoAndReturn(
		func(_ context.Context, l *domain.Listing, _ domain.EventType) error {
			s.Equal("A", l.ExternalID)
			s.True(l.DetailScraped)
			s.Require().NotNil(l.Description)
			s.Equal("casa A", *l.Description)
			return errors.New("broker down")
		},
	)

	result, err := s.newService(s.publisher).ProcessBatch(ctx, candidates)

	s.NoError(err)
	s.Equal(1, result.Success, "publish failures do not fail enrichment")
	s.Empty(s.sleeps)
}

func (s *EnrichmentServiceTestSuite) TestProcessBatch_ApplyFailureIsCounted() {
	ctx := context.Background()
	candidates := testListings("A")

	s.fetcher.EXPECT().FetchDetails(ctx, candidates[0].Link).Return(details("casa A"), nil)
	s.store.EXPECT().ApplyDetails(ctx, "A", gomock.Any(), s.now).Return(errors.New("connection reset"))

	result, err := s.newService(nil).ProcessBatch(ctx, candidates)

	s.NoError(err)
	s.Equal(1, result.Errors)
	s.Contains(result.Failures[0].Message, "apply details")
}

func (s *EnrichmentServiceTestSuite) TestProcessBatch_StopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	candidates := testListings("A", "B")

	s.fetcher.EXPECT().FetchDetails(ctx, candidates[0].Link).Return(details("casa A"), nil)
	s.store.EXPECT().ApplyDetails(ctx, "A", gomock.Any(), s.now).Return(nil)

	svc := s.newService(nil)
	svc.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	result, err := svc.ProcessBatch(ctx, candidates)

	s.ErrorIs(err, context.Canceled)
	s.Equal(1, result.Processed)
}

func (s *EnrichmentServiceTestSuite) TestSelectCandidates_BuildsQuery() {
	ctx := context.Background()
	s.store.EXPECT().SelectCandidates(ctx, domain.CandidateQuery{
		Limit:        25,
		Source:       "lamudi",
		OnlyRecent:   false,
		RecentWindow: 7 * 24 * time.Hour,
		Now:          s.now,
	}).Return(testListings("LAMUDI-x"), nil)

	got, err := s.newService(nil).SelectCandidates(ctx, 25, "lamudi", false)

	s.NoError(err)
	s.Len(got, 1)
}

func (s *EnrichmentServiceTestSuite) TestRun_RecordsSummary() {
	ctx := context.Background()
	candidates := testListings("A")

	var recorded domain.RunSummary
	s.tracker.EXPECT().Load(ctx).Return(&domain.RunState{}, nil)
	s.store.EXPECT().SelectCandidates(ctx, domain.CandidateQuery{
		Limit: 100, Source: "mercadolibre", OnlyRecent: true, RecentWindow: 7 * 24 * time.Hour, Now: s.now,
	}).Return(candidates, nil)
	s.fetcher.EXPECT().FetchDetails(ctx, candidates[0].Link).Return(details("casa A"), nil)
	s.store.EXPECT().ApplyDetails(ctx, "A", gomock.Any(), s.now).Return(nil)
	s.tracker.EXPECT().Record(gomock.Any()).Do(func(sum domain.RunSummary) { recorded = sum })
	s.tracker.EXPECT().Save(ctx).Return(nil)

	svc := s.newService(nil)
	summary, err := svc.Run(ctx, svc.DefaultRequest())

	s.NoError(err)
	s.Equal(domain.RunStatusCompleted, summary.Status)
	s.Equal(domain.RunKindEnrich, recorded.Kind)
	s.Equal(1, recorded.Processed)
	s.Equal(1, recorded.Success)
	s.Equal("enrich-1", recorded.ID)
}

func (s *EnrichmentServiceTestSuite) TestRun_SelectFailureFailsRun() {
	ctx := context.Background()

	var recorded domain.RunSummary
	s.tracker.EXPECT().Load(ctx).Return(&domain.RunState{}, nil)
	s.store.EXPECT().SelectCandidates(ctx, gomock.Any()).Return(nil, errors.New("db down"))
	s.tracker.EXPECT().Record(gomock.Any()).Do(func(sum domain.RunSummary) { recorded = sum })
	s.tracker.EXPECT().Save(gomock.Any()).Return(nil)

	_, err := s.newService(nil).Run(ctx, EnrichRequest{Limit: 10})

	var fatal *domain.FatalError
	s.Require().ErrorAs(err, &fatal)
	s.Equal("select candidates", fatal.Op)
	s.Equal(domain.RunStatusFailed, recorded.Status)
}

func (s *EnrichmentServiceTestSuite) TestHealth() {
	ctx := context.Background()

	tests := []struct {
		name       string
		without    int64
		lastRunAgo *time.Duration
		wantStuck  bool
	}{
		{name: "pending and stale", without: 5, lastRunAgo: testutil.Ptr(3 * time.Hour), wantStuck: true},
		{name: "pending and never run", without: 5, wantStuck: true},
		{name: "pending and fresh", without: 5, lastRunAgo: testutil.Ptr(30 * time.Minute)},
		{name: "nothing pending", without: 0},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			var lastRun *time.Time
			if tt.lastRunAgo != nil {
				lastRun = testutil.Ptr(s.now.Add(-*tt.lastRunAgo))
			}
			s.store.EXPECT().EnrichmentStats(ctx, "mercadolibre").Return(&domain.EnrichmentStats{WithoutDetails: tt.without}, nil)
			s.tracker.EXPECT().Snapshot().Return(domain.RunState{LastRun: lastRun})

			health, err := s.newService(nil).Health(ctx)

			s.Require().NoError(err)
			s.Equal(tt.wantStuck, health.Stuck)
			s.Equal(tt.without, health.NeedsDetails)
			if tt.wantStuck {
				s.Equal("stuck", health.Status)
			} else {
				s.Equal("ok", health.Status)
			}
		})
	}
}

func (s *EnrichmentServiceTestSuite) TestTopAmenities_DefaultLimit() {
	ctx := context.Background()
	s.store.EXPECT().TopAmenities(ctx, 20).Return([]domain.AmenityCount{{Amenity: "Alberca", Count: 3}}, nil)

	got, err := s.newService(nil).TopAmenities(ctx, 0)

	s.NoError(err)
	s.Len(got, 1)
}
