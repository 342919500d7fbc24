package commands

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"listing_crawler/internal/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one discovery crawl and exit",
	RunE:  runCrawl,
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.crawl.RunDailyUpdate(ctx)
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary)
	}
	return err
}

func printSummary(w io.Writer, s *domain.RunSummary) {
	fmt.Fprintf(w, "%s run %s: %s in %s\n", s.Kind, s.ID, s.Status, s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  processed: %s  success: %s  errors: %s\n",
		humanize.Comma(int64(s.Processed)), humanize.Comma(int64(s.Success)), humanize.Comma(int64(s.Errors)))
	if s.Kind == domain.RunKindCrawl {
		fmt.Fprintf(w, "  new: %s  updated: %s  descriptors: %d  pages: %d  rate limited: %d\n",
			humanize.Comma(int64(s.New)), humanize.Comma(int64(s.Updated)), s.Descriptors, s.Pages, s.RateLimited)
	}
	if s.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", s.Error)
	}
}
