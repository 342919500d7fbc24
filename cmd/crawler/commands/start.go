package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"listing_crawler/internal/api"
	"listing_crawler/internal/domain"
	"listing_crawler/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run scheduled crawls and enrichment, and serve the HTTP API",
	RunE:  runStart,
}

func runStart(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.loadState(ctx); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(a.logger)

	err = sched.Register(string(domain.RunKindCrawl), a.cfg.Crawl.Schedule, a.cfg.Crawl.RunOnStart,
		func(ctx context.Context) error {
			_, err := a.crawl.RunDailyUpdate(ctx)
			return err
		})
	if err != nil {
		return err
	}

	err = sched.Register(string(domain.RunKindEnrich), a.cfg.Enrichment.Schedule, a.cfg.Enrichment.RunOnStart,
		func(ctx context.Context) error {
			_, err := a.enrich.Run(ctx, a.enrich.DefaultRequest())
			return err
		})
	if err != nil {
		return err
	}

	if a.cfg.API.Enabled {
		srv := api.NewServer(a.cfg.API.Addr, api.NewHandler(sched, a.crawl, a.enrich, a.logger))

		go func() {
			a.logger.Info("api listening", "addr", a.cfg.API.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("api server failed", "error", err)
				stop()
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("api shutdown failed", "error", err)
			}
		}()
	}

	a.logger.Info("crawler started",
		"source", a.cfg.Source.Name,
		"crawl_schedule", a.cfg.Crawl.Schedule,
		"enrich_schedule", a.cfg.Enrichment.Schedule,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("crawler stopped")
	return nil
}
