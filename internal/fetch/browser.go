package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

type BrowserConfig struct {
	UserAgent string
	Timeout   time.Duration
	// WaitSelector is awaited before the DOM is captured.
	WaitSelector string
}

// BrowserFetcher renders pages in headless Chrome for sources whose
// results are built client-side.
type BrowserFetcher struct {
	config      BrowserConfig
	limiter     *rate.Limiter
	logger      *slog.Logger
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
}

func NewBrowser(cfg BrowserConfig, limiter *rate.Limiter, logger *slog.Logger) *BrowserFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.WaitSelector == "" {
		cfg.WaitSelector = "body"
	}
	if limiter == nil {
		limiter = NewLimiter(0)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserFetcher{
		config:      cfg,
		limiter:     limiter,
		logger:      logger.With("component", "browser_fetcher"),
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
	}
}

func (f *BrowserFetcher) Get(ctx context.Context, req Request) (*Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(f.allocCtx)
	defer cancelTab()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	nav, err := chromedp.RunResponse(runCtx, chromedp.Navigate(req.URL))
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", req.URL, err)
	}

	resp := &Response{URL: req.URL}
	if nav != nil {
		resp.Status = int(nav.Status)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return resp, nil
	}

	var html string
	if err := chromedp.Run(runCtx,
		chromedp.WaitReady(f.config.WaitSelector),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		return nil, fmt.Errorf("capture %s: %w", req.URL, err)
	}
	resp.Body = []byte(html)

	f.logger.Debug("page rendered", "url", req.URL, "status", resp.Status, "bytes", len(html))

	return resp, nil
}

func (f *BrowserFetcher) Close() error {
	if f.cancelAlloc != nil {
		f.cancelAlloc()
	}
	return nil
}
