package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_crawler/internal/service"
)

func parseEnrichFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "enrich"}
	addEnrichFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestEnrichRequest(t *testing.T) {
	def := service.EnrichRequest{Limit: 100, Source: "mercadolibre", OnlyRecent: true}

	tests := []struct {
		name    string
		args    []string
		want    service.EnrichRequest
		wantErr string
	}{
		{
			name: "defaults",
			want: def,
		},
		{
			name: "limit and all",
			args: []string{"--limit", "5", "--all"},
			want: service.EnrichRequest{Limit: 5, Source: "mercadolibre"},
		},
		{
			name: "configured source",
			args: []string{"--source", "mercadolibre"},
			want: def,
		},
		{
			name:    "other source is rejected",
			args:    []string{"--source", "lamudi"},
			wantErr: `--source "lamudi" does not match configured source "mercadolibre"`,
		},
		{
			name:    "zero limit is rejected",
			args:    []string{"--limit", "0"},
			wantErr: "--limit must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enrichRequest(parseEnrichFlags(t, tt.args...), def, "mercadolibre")

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
