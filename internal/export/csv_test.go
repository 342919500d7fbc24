package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_crawler/internal/domain"
	"listing_crawler/internal/testutil"
)

func TestWriteListings(t *testing.T) {
	seen := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	listings := []domain.Listing{
		{
			ExternalID:    "MLM-1",
			Title:         "Casa, con jardín",
			Price:         decimal.NewNullDecimal(decimal.RequireFromString("2500000.50")),
			Currency:      "MXN",
			Operation:     "venta",
			PropertyType:  domain.PropertyHouse,
			City:          "Zapopan",
			State:         "Jalisco",
			Bedrooms:      3,
			Bathrooms:     2,
			FirstSeenAt:   seen,
			LastSeenAt:    seen,
			DetailScraped: true,
			ListingDetails: domain.ListingDetails{
				Description:   testutil.Ptr("Linea 1\nLinea 2"),
				ParkingSpaces: testutil.Ptr(2),
				Amenities:     domain.StringList{"Alberca", "Gimnasio"},
				Images:        domain.ImageList{{URL: "a"}, {URL: "b"}},
			},
		},
		{ExternalID: "LAMUDI-casa-x", Title: "Sin precio"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteListings(&buf, listings))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	col := func(name string) int {
		for i, h := range records[0] {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %s", name)
		return -1
	}

	first := records[1]
	assert.Equal(t, "MLM-1", first[col("external_id")])
	assert.Equal(t, "Casa, con jardín", first[col("title")])
	assert.Equal(t, "2500000.5", first[col("price")])
	assert.Equal(t, "2026-03-01T02:00:00Z", first[col("first_seen_at")])
	assert.Equal(t, "true", first[col("detail_scraped")])
	assert.Equal(t, "Linea 1\nLinea 2", first[col("description")])
	assert.Equal(t, "2", first[col("parking_spaces")])
	assert.Equal(t, "Alberca; Gimnasio", first[col("amenities")])
	assert.Equal(t, "2", first[col("image_count")])

	second := records[2]
	assert.Equal(t, "", second[col("price")])
	assert.Equal(t, "", second[col("first_seen_at")])
	assert.Equal(t, "", second[col("views")])
	assert.Equal(t, "false", second[col("detail_scraped")])
}

func TestWriteListings_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListings(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
