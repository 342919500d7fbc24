package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"listing_crawler/internal/service"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich stored listings from their detail pages and exit",
	RunE:  runEnrich,
}

func init() {
	addEnrichFlags(enrichCmd)
}

func addEnrichFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 0, "maximum listings to enrich (default from config)")
	cmd.Flags().String("source", "", "only enrich listings from this source (must be the configured source)")
	cmd.Flags().Bool("all", false, "include listings outside the recent window")
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := enrichRequest(cmd, a.enrich.DefaultRequest(), a.cfg.Source.Name)
	if err != nil {
		return err
	}

	summary, err := a.enrich.Run(ctx, req)
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary)
	}
	return err
}

// enrichRequest applies the command flags to req. Detail pages are parsed
// with the configured site's extractor, so other sources are rejected.
func enrichRequest(cmd *cobra.Command, req service.EnrichRequest, configured string) (service.EnrichRequest, error) {
	flags := cmd.Flags()
	if flags.Changed("limit") {
		limit, _ := flags.GetInt("limit")
		if limit <= 0 {
			return req, fmt.Errorf("--limit must be positive, got %d", limit)
		}
		req.Limit = limit
	}
	if flags.Changed("source") {
		src, _ := flags.GetString("source")
		if src != configured {
			return req, fmt.Errorf("--source %q does not match configured source %q", src, configured)
		}
		req.Source = src
	}
	if all, _ := flags.GetBool("all"); all {
		req.OnlyRecent = false
	}
	return req, nil
}
