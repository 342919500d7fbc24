package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
}

// StaticFetcher fetches server-rendered pages with a colly collector.
type StaticFetcher struct {
	config  StaticConfig
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewStatic(cfg StaticConfig, limiter *rate.Limiter, logger *slog.Logger) *StaticFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 45 * time.Second
	}
	if limiter == nil {
		limiter = NewLimiter(0)
	}
	return &StaticFetcher{
		config:  cfg,
		limiter: limiter,
		logger:  logger.With("component", "static_fetcher"),
	}
}

func (f *StaticFetcher) Get(ctx context.Context, req Request) (*Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	// A new collector per request keeps colly's visited set empty.
	var opts []colly.CollectorOption
	if f.config.UserAgent != "" {
		opts = append(opts, colly.UserAgent(f.config.UserAgent))
	}
	c := colly.NewCollector(opts...)
	c.ParseHTTPErrorResponse = true
	c.AllowURLRevisit = true

	timeout := req.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)

	headers := mergeHeaders(f.config.Headers, req.Headers)
	c.OnRequest(func(r *colly.Request) {
		for k, v := range headers {
			r.Headers.Set(k, v)
		}
	})

	resp := &Response{URL: req.URL}
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		resp.Status = r.StatusCode
		resp.Body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			resp.Status = r.StatusCode
			resp.Body = r.Body
		}
		fetchErr = err
	})

	start := time.Now()
	err := c.Visit(req.URL)
	if err == nil {
		err = fetchErr
	}
	if err != nil && resp.Status == 0 {
		f.logger.Debug("request failed", "url", req.URL, "error", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("get %s: %w", req.URL, err)
	}

	f.logger.Debug("response received",
		"url", req.URL,
		"status", resp.Status,
		"bytes", len(resp.Body),
		"elapsed", time.Since(start),
	)

	return resp, nil
}
