package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"listing_crawler/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print listing, enrichment and run statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, configPath(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.loadState(ctx); err != nil {
		return err
	}

	stats, err := a.crawl.Statistics(ctx)
	if err != nil {
		return err
	}
	enrichment, err := a.enrich.Statistics(ctx)
	if err != nil {
		return err
	}
	amenities, err := a.enrich.TopAmenities(ctx, 10)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	l := stats.Listings
	fmt.Fprintln(w, "Listings")
	fmt.Fprintf(w, "  total: %s  unique: %s  new in last day: %s\n",
		humanize.Comma(l.Total), humanize.Comma(l.Unique), humanize.Comma(l.RecentNew))
	fmt.Fprintf(w, "  states: %d  cities: %d  houses: %s  apartments: %s\n",
		l.StatesCovered, l.CitiesCovered, humanize.Comma(l.Houses), humanize.Comma(l.Apartments))
	if l.AvgPrice != nil {
		fmt.Fprintf(w, "  average price: %s\n", humanize.CommafWithDigits(*l.AvgPrice, 2))
	}
	fmt.Fprintf(w, "  newest: %s  oldest: %s\n", ago(l.NewestListing), ago(l.OldestListing))

	fmt.Fprintln(w, "Crawl runs")
	printState(w, &stats.State)

	fmt.Fprintln(w, "Enrichment")
	fmt.Fprintf(w, "  with details: %s of %s  pending: %s\n",
		humanize.Comma(enrichment.WithDetails), humanize.Comma(enrichment.TotalProperties), humanize.Comma(enrichment.WithoutDetails))
	fmt.Fprintf(w, "  with images: %s  with amenities: %s\n",
		humanize.Comma(enrichment.WithImages), humanize.Comma(enrichment.WithAmenities))
	for _, am := range amenities {
		fmt.Fprintf(w, "    %-30s %s\n", am.Amenity, humanize.Comma(am.Count))
	}

	fmt.Fprintln(w, "Enrichment runs")
	enrichState := a.enrichTracker.Snapshot()
	printState(w, &enrichState)

	return nil
}

func printState(w io.Writer, s *domain.RunState) {
	fmt.Fprintf(w, "  last run: %s  last failure: %s  runs kept: %d\n", ago(s.LastRun), ago(s.LastFailure), len(s.Runs))
	fmt.Fprintf(w, "  totals: scraped %s  new %s  updated %s  success %s  errors %s\n",
		humanize.Comma(s.TotalScraped), humanize.Comma(s.TotalNew), humanize.Comma(s.TotalUpdated),
		humanize.Comma(s.TotalSuccess), humanize.Comma(s.TotalErrors))
}

func ago(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return humanize.Time(*t)
}
