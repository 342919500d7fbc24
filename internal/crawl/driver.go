package crawl

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"listing_crawler/internal/descriptor"
	"listing_crawler/internal/domain"
)

// RateLimitPolicy decides what happens to a page the site throttled.
type RateLimitPolicy string

const (
	// PolicySkip cools down and moves on to the next page.
	PolicySkip RateLimitPolicy = "skip"
	// PolicyRetry cools down and asks for the same page again, up to
	// Config.RateLimitRetries times, before moving on.
	PolicyRetry RateLimitPolicy = "retry"
)

type State int32

const (
	StateIdle State = iota
	StatePerDescriptor
	StateBetweenPages
	StateBetweenDescriptors
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePerDescriptor:
		return "per_descriptor"
	case StateBetweenPages:
		return "between_pages"
	case StateBetweenDescriptors:
		return "between_descriptors"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// Fetcher fetches one page of a descriptor.
type Fetcher interface {
	Fetch(ctx context.Context, d domain.SearchDescriptor, page int) (*domain.Page, error)
}

type Config struct {
	MaxPagesPerDescriptor int
	MaxSearches           int
	PageDelay             time.Duration
	DescriptorDelay       time.Duration
	RateLimitCooldown     time.Duration
	RateLimitPolicy       RateLimitPolicy
	RateLimitRetries      int
}

// Driver walks descriptors page by page and collects unique listings.
// It is a single sequential worker.
type Driver struct {
	fetcher Fetcher
	cfg     Config
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
	state   atomic.Int32
}

func NewDriver(fetcher Fetcher, cfg Config, logger *slog.Logger) *Driver {
	if cfg.MaxPagesPerDescriptor == 0 {
		cfg.MaxPagesPerDescriptor = 1
	}
	if cfg.RateLimitPolicy == "" {
		cfg.RateLimitPolicy = PolicySkip
	}
	return &Driver{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger.With("component", "crawl_driver"),
		sleep:   sleep,
	}
}

func (d *Driver) State() State {
	return State(d.state.Load())
}

func (d *Driver) setState(s State) {
	d.state.Store(int32(s))
}

// Run crawls descriptors in order until they or the search budget run
// out. Fetch failures are counted, never returned; the only error is
// context cancellation, which comes with the partial result.
func (d *Driver) Run(ctx context.Context, descriptors []domain.SearchDescriptor) (*domain.CrawlResult, error) {
	d.setState(StateIdle)
	defer d.setState(StateDone)

	descriptors = descriptor.Limit(descriptors, d.cfg.MaxSearches)
	result := &domain.CrawlResult{}
	seen := NewDeduplicator()

	d.logger.Info("crawl started",
		"descriptors", len(descriptors),
		"max_pages", d.cfg.MaxPagesPerDescriptor,
		"rate_limit_policy", d.cfg.RateLimitPolicy,
	)

	for i, desc := range descriptors {
		if i > 0 {
			d.setState(StateBetweenDescriptors)
			if err := d.sleep(ctx, d.cfg.DescriptorDelay); err != nil {
				return result, err
			}
		}

		result.Descriptors++
		if err := d.crawlDescriptor(ctx, desc, seen, result); err != nil {
			return result, err
		}

		d.logger.Info("search finished",
			"search", i+1,
			"of", len(descriptors),
			"description", desc.Description(),
			"unique_total", seen.Len(),
		)
	}

	d.logger.Info("crawl finished",
		"descriptors", result.Descriptors,
		"pages", result.Pages,
		"listings", len(result.Listings),
		"duplicates", result.Duplicates,
		"rate_limited", result.RateLimited,
		"page_errors", result.PageErrors,
	)

	return result, nil
}

func (d *Driver) crawlDescriptor(ctx context.Context, desc domain.SearchDescriptor, seen *Deduplicator, result *domain.CrawlResult) error {
	logger := d.logger.With("query", desc.QueryTemplate())
	retries := 0

	for page := 1; page <= d.cfg.MaxPagesPerDescriptor; {
		d.setState(StatePerDescriptor)
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := d.fetcher.Fetch(ctx, desc, page)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			switch {
			case domain.IsRateLimited(err):
				result.RateLimited++
				logger.Warn("rate limited, cooling down",
					"page", page,
					"cooldown", d.cfg.RateLimitCooldown,
					"policy", d.cfg.RateLimitPolicy,
					"retry", retries,
				)
				if err := d.sleep(ctx, d.cfg.RateLimitCooldown); err != nil {
					return err
				}
				if d.cfg.RateLimitPolicy == PolicyRetry && retries < d.cfg.RateLimitRetries {
					retries++
					continue
				}
			case domain.IsNotFound(err):
				logger.Info("search has no results page", "page", page)
				return nil
			default:
				result.PageErrors++
				logger.Error("page fetch failed", "page", page, "error", err)
				if page < d.cfg.MaxPagesPerDescriptor {
					d.setState(StateBetweenPages)
					if err := d.sleep(ctx, d.cfg.PageDelay); err != nil {
						return err
					}
				}
			}
			retries = 0
			page++
			continue
		}

		retries = 0
		result.Pages++
		result.Dropped += p.Dropped

		added := 0
		for _, l := range p.Listings {
			if seen.Add(l.ExternalID) {
				result.Listings = append(result.Listings, l)
				added++
			} else {
				result.Duplicates++
			}
		}

		logger.Debug("page fetched",
			"page", page,
			"listings", len(p.Listings),
			"new_in_session", added,
			"dropped", p.Dropped,
		)

		if !p.HasNextPage {
			return nil
		}

		page++
		if page > d.cfg.MaxPagesPerDescriptor {
			return nil
		}

		d.setState(StateBetweenPages)
		if err := d.sleep(ctx, d.cfg.PageDelay); err != nil {
			return err
		}
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
