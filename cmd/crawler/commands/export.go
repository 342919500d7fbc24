package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"listing_crawler/internal/domain"
	"listing_crawler/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored listings as CSV",
	Long: `Export writes listings as CSV. Without filters it exports enriched
listings of the configured source; with --city, --state, --type or
--operation it exports the matching search results instead.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("out", "", "output file (default stdout)")
	exportCmd.Flags().Int("limit", 500, "maximum listings to export")
	exportCmd.Flags().String("city", "", "filter by city")
	exportCmd.Flags().String("state", "", "filter by state")
	exportCmd.Flags().String("type", "", "filter by property type")
	exportCmd.Flags().String("operation", "", "filter by operation")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, configPath(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	flags := cmd.Flags()
	limit, _ := flags.GetInt("limit")
	filter := domain.SearchFilter{Limit: limit}
	filter.City, _ = flags.GetString("city")
	filter.State, _ = flags.GetString("state")
	filter.PropertyType, _ = flags.GetString("type")
	filter.Operation, _ = flags.GetString("operation")

	var listings []domain.Listing
	if filter.City != "" || filter.State != "" || filter.PropertyType != "" || filter.Operation != "" {
		listings, err = a.crawl.Search(ctx, filter)
	} else {
		listings, err = a.listings.Enriched(ctx, a.cfg.Source.Name, limit)
	}
	if err != nil {
		return err
	}

	out, _ := flags.GetString("out")
	if out == "" {
		return export.WriteListings(cmd.OutOrStdout(), listings)
	}

	if err := writeFile(out, listings); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "exported %s listings to %s\n", humanize.Comma(int64(len(listings))), out)
	return nil
}

func writeFile(path string, listings []domain.Listing) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := export.WriteListings(f, listings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
