package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"listing_crawler/internal/domain"
)

type Jobs interface {
	Trigger(name string) error
	Running(name string) bool
}

type ListingQueries interface {
	Statistics(ctx context.Context) (*domain.Statistics, error)
	RecentNew(ctx context.Context, window time.Duration, limit int) ([]domain.Listing, error)
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Listing, error)
}

type EnrichmentQueries interface {
	Statistics(ctx context.Context) (*domain.EnrichmentStats, error)
	TopAmenities(ctx context.Context, limit int) ([]domain.AmenityCount, error)
	Health(ctx context.Context) (*domain.Health, error)
}

type Handler struct {
	jobs       Jobs
	listings   ListingQueries
	enrichment EnrichmentQueries
	logger     *slog.Logger
}

func NewHandler(jobs Jobs, listings ListingQueries, enrichment EnrichmentQueries, logger *slog.Logger) *Handler {
	return &Handler{
		jobs:       jobs,
		listings:   listings,
		enrichment: enrichment,
		logger:     logger.With("component", "api"),
	}
}

func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scrape", h.trigger(string(domain.RunKindCrawl))).Methods(http.MethodPost)
	api.HandleFunc("/enrich", h.trigger(string(domain.RunKindEnrich))).Methods(http.MethodPost)
	api.HandleFunc("/stats", h.stats).Methods(http.MethodGet)
	api.HandleFunc("/enrichment/stats", h.enrichmentStats).Methods(http.MethodGet)
	api.HandleFunc("/new-listings", h.newListings).Methods(http.MethodGet)
	api.HandleFunc("/search", h.search).Methods(http.MethodGet)
	api.HandleFunc("/health", h.health).Methods(http.MethodGet)

	return r
}

// NewServer wraps the router in an http.Server with sane timeouts.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (h *Handler) trigger(job string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.jobs.Trigger(job)
		switch {
		case errors.Is(err, domain.ErrRunInProgress):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error(), "job": job})
		case err != nil:
			h.serverError(w, r, err)
		default:
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "started", "job": job})
		}
	}
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.listings.Statistics(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"listings": stats.Listings,
		"state":    stats.State,
		"running":  h.jobs.Running(string(domain.RunKindCrawl)),
	})
}

func (h *Handler) enrichmentStats(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		badRequest(w, err)
		return
	}

	stats, err := h.enrichment.Statistics(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	top, err := h.enrichment.TopAmenities(r.Context(), limit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":         stats,
		"top_amenities": top,
		"running":       h.jobs.Running(string(domain.RunKindEnrich)),
	})
}

// maxWindowHours bounds the new-listings lookback to one year.
const maxWindowHours = 24 * 365

func (h *Handler) newListings(w http.ResponseWriter, r *http.Request) {
	hours, err := intParam(r, "hours", 24)
	if err != nil {
		badRequest(w, err)
		return
	}
	hours = min(hours, maxWindowHours)
	limit, err := intParam(r, "limit", 100)
	if err != nil {
		badRequest(w, err)
		return
	}

	listings, err := h.listings.RecentNew(r.Context(), time.Duration(hours)*time.Hour, limit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(listings),
		"hours":    hours,
		"listings": nonNil(listings),
	})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	listings, err := h.listings.Search(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(listings),
		"listings": nonNil(listings),
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	health, err := h.enrichment.Health(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	status := http.StatusOK
	if health.Stuck {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func parseFilter(r *http.Request) (domain.SearchFilter, error) {
	q := r.URL.Query()
	f := domain.SearchFilter{
		City:         q.Get("city"),
		State:        q.Get("state"),
		PropertyType: q.Get("type"),
		Operation:    q.Get("operation"),
	}

	var err error
	if f.MinPrice, err = floatParam(r, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatParam(r, "maxPrice"); err != nil {
		return f, err
	}
	if v := q.Get("bedrooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("bedrooms must be an integer")
		}
		f.MinBedrooms = &n
	}
	if f.Limit, err = intParam(r, "limit", 50); err != nil {
		return f, err
	}
	if f.Offset, err = intParam(r, "offset", 0); err != nil {
		return f, err
	}
	return f, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return n, nil
}

func floatParam(r *http.Request, name string) (*float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &f, nil
}

func nonNil(ls []domain.Listing) []domain.Listing {
	if ls == nil {
		return []domain.Listing{}
	}
	return ls
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
