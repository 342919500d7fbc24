package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"listing_crawler/internal/domain"
)

type fakeJobs struct {
	running   map[string]bool
	triggered []string
	err       error
}

func (f *fakeJobs) Trigger(name string) error {
	if f.err != nil {
		return f.err
	}
	if f.running[name] {
		return domain.ErrRunInProgress
	}
	f.triggered = append(f.triggered, name)
	return nil
}

func (f *fakeJobs) Running(name string) bool { return f.running[name] }

type fakeListings struct {
	stats      *domain.Statistics
	recent     []domain.Listing
	window     time.Duration
	limit      int
	filter     domain.SearchFilter
	searchErr  error
	searchHits []domain.Listing
}

func (f *fakeListings) Statistics(context.Context) (*domain.Statistics, error) {
	return f.stats, nil
}

func (f *fakeListings) RecentNew(_ context.Context, window time.Duration, limit int) ([]domain.Listing, error) {
	f.window, f.limit = window, limit
	return f.recent, nil
}

func (f *fakeListings) Search(_ context.Context, filter domain.SearchFilter) ([]domain.Listing, error) {
	f.filter = filter
	return f.searchHits, f.searchErr
}

type fakeEnrichment struct {
	stats    *domain.EnrichmentStats
	top      []domain.AmenityCount
	topLimit int
	health   *domain.Health
}

func (f *fakeEnrichment) Statistics(context.Context) (*domain.EnrichmentStats, error) {
	return f.stats, nil
}

func (f *fakeEnrichment) TopAmenities(_ context.Context, limit int) ([]domain.AmenityCount, error) {
	f.topLimit = limit
	return f.top, nil
}

func (f *fakeEnrichment) Health(context.Context) (*domain.Health, error) {
	return f.health, nil
}

type APITestSuite struct {
	suite.Suite
	jobs       *fakeJobs
	listings   *fakeListings
	enrichment *fakeEnrichment
	router     http.Handler
}

func (s *APITestSuite) SetupTest() {
	s.jobs = &fakeJobs{running: map[string]bool{}}
	s.listings = &fakeListings{}
	s.enrichment = &fakeEnrichment{}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.router = NewHandler(s.jobs, s.listings, s.enrichment, logger).Router()
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) do(method, target string) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]any
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func (s *APITestSuite) TestScrape_Accepted() {
	rec, body := s.do(http.MethodPost, "/api/scrape")

	s.Equal(http.StatusAccepted, rec.Code)
	s.Equal("crawl", body["job"])
	s.Equal([]string{"crawl"}, s.jobs.triggered)
}

func (s *APITestSuite) TestScrape_ConflictWhenRunning() {
	s.jobs.running["crawl"] = true

	rec, body := s.do(http.MethodPost, "/api/scrape")

	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(domain.ErrRunInProgress.Error(), body["error"])
	s.Empty(s.jobs.triggered)
}

func (s *APITestSuite) TestEnrich_Accepted() {
	rec, _ := s.do(http.MethodPost, "/api/enrich")

	s.Equal(http.StatusAccepted, rec.Code)
	s.Equal([]string{"enrich"}, s.jobs.triggered)
}

func (s *APITestSuite) TestTrigger_InternalError() {
	s.jobs.err = errors.New("scheduler stopped")

	rec, body := s.do(http.MethodPost, "/api/enrich")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("internal error", body["error"])
}

func (s *APITestSuite) TestScrape_WrongMethod() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape", nil))

	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func (s *APITestSuite) TestStats() {
	s.listings.stats = &domain.Statistics{
		Listings: &domain.ListingStats{Total: 12, Houses: 7},
		State:    domain.RunState{TotalNew: 12},
	}

	rec, body := s.do(http.MethodGet, "/api/stats")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(12), body["listings"].(map[string]any)["total"])
	s.Equal(float64(12), body["state"].(map[string]any)["totalNew"])
	s.Equal(false, body["running"])
}

func (s *APITestSuite) TestEnrichmentStats() {
	s.enrichment.stats = &domain.EnrichmentStats{TotalProperties: 10, WithDetails: 4}
	s.enrichment.top = []domain.AmenityCount{{Amenity: "Alberca", Count: 3}}

	rec, body := s.do(http.MethodGet, "/api/enrichment/stats?limit=5")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(5, s.enrichment.topLimit)
	s.Equal(float64(4), body["stats"].(map[string]any)["with_details"])
	s.Len(body["top_amenities"], 1)
}

func (s *APITestSuite) TestNewListings_Defaults() {
	rec, body := s.do(http.MethodGet, "/api/new-listings")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(24*time.Hour, s.listings.window)
	s.Equal(100, s.listings.limit)
	s.Equal(float64(0), body["count"])
	s.Equal([]any{}, body["listings"])
}

func (s *APITestSuite) TestNewListings_Params() {
	s.listings.recent = []domain.Listing{{ExternalID: "MLM-1"}}

	rec, body := s.do(http.MethodGet, "/api/new-listings?hours=48&limit=10")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(48*time.Hour, s.listings.window)
	s.Equal(10, s.listings.limit)
	s.Equal(float64(1), body["count"])
}

func (s *APITestSuite) TestNewListings_HoursClampedToOneYear() {
	rec, body := s.do(http.MethodGet, "/api/new-listings?hours=9223372036854775807")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(365*24*time.Hour, s.listings.window)
	s.Equal(float64(24*365), body["hours"])
}

func (s *APITestSuite) TestNewListings_BadHours() {
	rec, _ := s.do(http.MethodGet, "/api/new-listings?hours=soon")

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APITestSuite) TestSearch_ParsesFilter() {
	s.listings.searchHits = []domain.Listing{{ExternalID: "MLM-1"}, {ExternalID: "MLM-2"}}

	rec, body := s.do(http.MethodGet,
		"/api/search?city=Zapopan&state=Jalisco&type=Casa&operation=venta&minPrice=1000000&maxPrice=3000000&bedrooms=3&limit=20&offset=40")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(2), body["count"])

	f := s.listings.filter
	s.Equal("Zapopan", f.City)
	s.Equal("Jalisco", f.State)
	s.Equal("Casa", f.PropertyType)
	s.Equal("venta", f.Operation)
	s.Require().NotNil(f.MinPrice)
	s.Equal(1000000.0, *f.MinPrice)
	s.Require().NotNil(f.MaxPrice)
	s.Equal(3000000.0, *f.MaxPrice)
	s.Require().NotNil(f.MinBedrooms)
	s.Equal(3, *f.MinBedrooms)
	s.Equal(20, f.Limit)
	s.Equal(40, f.Offset)
}

func (s *APITestSuite) TestSearch_BadPrice() {
	rec, body := s.do(http.MethodGet, "/api/search?minPrice=cheap")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("minPrice must be a number", body["error"])
}

func (s *APITestSuite) TestSearch_StoreError() {
	s.listings.searchErr = errors.New("db down")

	rec, _ := s.do(http.MethodGet, "/api/search")

	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *APITestSuite) TestHealth_OK() {
	s.enrichment.health = &domain.Health{Status: "ok", StuckThreshold: "2h0m0s"}

	rec, body := s.do(http.MethodGet, "/api/health")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ok", body["status"])
}

func (s *APITestSuite) TestHealth_Stuck() {
	s.enrichment.health = &domain.Health{Status: "stuck", Stuck: true, NeedsDetails: 40}

	rec, body := s.do(http.MethodGet, "/api/health")

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("stuck", body["status"])
	s.Equal(float64(40), body["needs_details"])
}
