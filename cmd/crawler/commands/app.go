package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"listing_crawler/internal/config"
	"listing_crawler/internal/crawl"
	"listing_crawler/internal/descriptor"
	"listing_crawler/internal/fetch"
	"listing_crawler/internal/publisher"
	"listing_crawler/internal/service"
	"listing_crawler/internal/source"
	"listing_crawler/internal/state"
	"listing_crawler/internal/storage/postgres"
)

// app holds the wired components shared by every command.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlx.DB

	listings      *postgres.ListingStore
	crawlTracker  *state.Tracker
	enrichTracker *state.Tracker
	crawl         *service.CrawlService
	enrich        *service.EnrichmentService

	closers []func() error
}

func newApp(ctx context.Context, path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: setupLogger(cfg.LogLevel)}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, db.Close)
	a.logger.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, a.logger)
		if err != nil {
			return err
		}
		pub = rabbitMQ
		a.closers = append(a.closers, rabbitMQ.Close)
	}

	site, err := source.New(cfg.Source.Name, cfg.Source.BaseURL)
	if err != nil {
		return err
	}

	getter := a.getter()
	headers := fetch.DefaultHeaders()

	tm := postgres.NewTransactionManager(db)
	crawlStore, enrichStore, err := a.stateStores(tm)
	if err != nil {
		return err
	}
	a.crawlTracker = state.NewTracker(crawlStore, cfg.State.HistorySize)
	a.enrichTracker = state.NewTracker(enrichStore, cfg.State.HistorySize)

	a.listings = postgres.NewListingStore(db)

	driver := crawl.NewDriver(
		crawl.NewPageFetcher(getter, site, cfg.Source.Timeout, headers),
		crawl.Config{
			MaxPagesPerDescriptor: cfg.Crawl.MaxPagesPerDescriptor,
			MaxSearches:           cfg.Crawl.MaxSearches,
			PageDelay:             cfg.Crawl.PageDelay,
			DescriptorDelay:       cfg.Crawl.DescriptorDelay,
			RateLimitCooldown:     cfg.Crawl.RateLimitCooldown,
			RateLimitPolicy:       crawl.RateLimitPolicy(cfg.Crawl.RateLimitPolicy),
			RateLimitRetries:      cfg.Crawl.RateLimitRetries,
		},
		a.logger,
	)

	a.crawl = service.NewCrawlService(
		descriptor.NewGenerator(descriptor.DefaultTables()),
		driver,
		a.listings,
		a.crawlTracker,
		pub,
		a.logger,
		service.CrawlOptions{
			Source:      site.Name(),
			Shuffle:     cfg.Crawl.Shuffle,
			MaxSearches: cfg.Crawl.MaxSearches,
		},
	)

	a.enrich = service.NewEnrichmentService(
		a.listings,
		source.NewDetailFetcher(getter, site, source.DetailConfig{
			Timeout: cfg.Source.Timeout,
			Headers: headers,
		}, a.logger),
		a.enrichTracker,
		pub,
		a.logger,
		service.EnrichmentOptions{
			Source:         site.Name(),
			Limit:          cfg.Enrichment.Limit,
			BatchSize:      cfg.Enrichment.BatchSize,
			BatchDelay:     cfg.Enrichment.BatchDelay,
			ItemDelay:      cfg.Enrichment.ItemDelay,
			OnlyRecent:     cfg.Enrichment.OnlyRecent,
			RecentWindow:   cfg.Enrichment.RecentWindow,
			StuckThreshold: cfg.Enrichment.StuckThreshold,
		},
	)

	return nil
}

func (a *app) getter() fetch.Getter {
	limiter := fetch.NewLimiter(a.cfg.Source.RequestsPerMinute)

	if a.cfg.Source.FetchMode == "browser" {
		browser := fetch.NewBrowser(fetch.BrowserConfig{
			UserAgent: a.cfg.Source.UserAgent,
			Timeout:   a.cfg.Source.Timeout,
		}, limiter, a.logger)
		a.closers = append(a.closers, browser.Close)
		return browser
	}

	return fetch.NewStatic(fetch.StaticConfig{
		UserAgent: a.cfg.Source.UserAgent,
		Timeout:   a.cfg.Source.Timeout,
	}, limiter, a.logger)
}

func (a *app) stateStores(tm *postgres.TransactionManager) (crawlStore, enrichStore state.Store, err error) {
	switch a.cfg.State.Backend {
	case "bolt":
		boltDB, err := state.OpenBolt(a.cfg.State.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, boltDB.Close)
		return boltDB.Store("crawl"), boltDB.Store("enrich"), nil
	case "postgres":
		return postgres.NewRunStateStore(a.db, tm, "crawl"), postgres.NewRunStateStore(a.db, tm, "enrich"), nil
	default:
		return state.NewFileStore(filepath.Join(a.cfg.State.Dir, "scraper-state.json")),
			state.NewFileStore(filepath.Join(a.cfg.State.Dir, "enrichment-state.json")), nil
	}
}

// loadState reads both trackers so stats and health see stored runs.
func (a *app) loadState(ctx context.Context) error {
	if _, err := a.crawlTracker.Load(ctx); err != nil {
		return err
	}
	if _, err := a.enrichTracker.Load(ctx); err != nil {
		return err
	}
	return nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}
