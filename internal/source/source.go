package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"listing_crawler/internal/domain"
	"listing_crawler/internal/fetch"
	"listing_crawler/internal/source/lamudi"
	"listing_crawler/internal/source/mercadolibre"
)

// Site is the per-marketplace extraction strategy.
type Site interface {
	Name() string
	BaseURL() string
	PageCeiling() int
	SearchURL(d domain.SearchDescriptor, page int) string
	ExtractListings(body []byte) (*domain.SearchPage, error)
	ExtractDetails(body []byte, now time.Time) (*domain.ListingDetails, error)
}

// New returns the Site registered under name.
func New(name, baseURL string) (Site, error) {
	switch name {
	case mercadolibre.Name:
		return mercadolibre.New(baseURL), nil
	case lamudi.Name:
		return lamudi.New(baseURL), nil
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}

type DetailConfig struct {
	Timeout        time.Duration
	Headers        map[string]string
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DetailFetcher loads and extracts a single listing detail page.
type DetailFetcher struct {
	getter         fetch.Getter
	site           Site
	timeout        time.Duration
	headers        map[string]string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

func NewDetailFetcher(getter fetch.Getter, site Site, cfg DetailConfig, logger *slog.Logger) *DetailFetcher {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 2
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = 2 * time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	return &DetailFetcher{
		getter:         getter,
		site:           site,
		timeout:        cfg.Timeout,
		headers:        cfg.Headers,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		now:            time.Now,
		logger:         logger.With("source", site.Name()),
	}
}

// FetchDetails retries timeouts with exponential backoff. Throttling,
// missing pages and extraction failures are returned immediately.
func (f *DetailFetcher) FetchDetails(ctx context.Context, link string) (*domain.ListingDetails, error) {
	url := link
	if !strings.HasPrefix(link, "http") {
		url = f.site.BaseURL() + link
	}

	var body []byte
	var err error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		body, err = f.doRequest(ctx, url)
		if err == nil {
			break
		}

		kind, _ := domain.FetchErrorKindOf(err)
		if kind != domain.FetchTimeout || attempt == f.maxAttempts {
			return nil, err
		}

		backoff := f.calculateBackoff(attempt)
		f.logger.Warn("detail request timed out, retrying",
			"url", url,
			"attempt", attempt,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	details, err := f.site.ExtractDetails(body, f.now())
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", url, err)
	}
	return details, nil
}

func (f *DetailFetcher) doRequest(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.getter.Get(ctx, fetch.Request{URL: url, Headers: f.headers, Timeout: f.timeout})
	if err := fetch.Classify(url, resp, err); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (f *DetailFetcher) calculateBackoff(attempt int) time.Duration {
	backoff := f.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > f.maxBackoff {
		backoff = f.maxBackoff
	}
	return backoff
}
