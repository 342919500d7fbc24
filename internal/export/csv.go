package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"listing_crawler/internal/domain"
)

var header = []string{
	"external_id", "title", "price", "currency", "operation", "property_type",
	"city", "state", "location", "bedrooms", "bathrooms", "area_sqm", "link", "source",
	"first_seen_at", "last_seen_at",
	"detail_scraped", "description", "full_address", "neighborhood",
	"total_area_sqm", "built_area_sqm", "parking_spaces", "property_age",
	"amenities", "image_count", "seller_type", "publish_date", "views",
}

// WriteListings writes one row per listing, core columns first.
func WriteListings(w io.Writer, listings []domain.Listing) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range listings {
		if err := cw.Write(row(&listings[i])); err != nil {
			return fmt.Errorf("write %s: %w", listings[i].ExternalID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func row(l *domain.Listing) []string {
	return []string{
		l.ExternalID,
		l.Title,
		nullDecimal(l.Price),
		l.Currency,
		l.Operation,
		l.PropertyType,
		l.City,
		l.State,
		l.Location,
		strconv.Itoa(l.Bedrooms),
		strconv.Itoa(l.Bathrooms),
		nullDecimal(l.AreaSqm),
		l.Link,
		l.Source,
		timestamp(&l.FirstSeenAt),
		timestamp(&l.LastSeenAt),
		strconv.FormatBool(l.DetailScraped),
		str(l.Description),
		str(l.FullAddress),
		str(l.Neighborhood),
		nullDecimal(l.TotalAreaSqm),
		nullDecimal(l.BuiltAreaSqm),
		integer(l.ParkingSpaces),
		integer(l.PropertyAge),
		strings.Join(l.Amenities, "; "),
		strconv.Itoa(len(l.Images)),
		str(l.SellerType),
		timestamp(l.PublishDate),
		integer(l.Views),
	}
}

func nullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func integer(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
