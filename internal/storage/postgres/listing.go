package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"listing_crawler/internal/domain"
)

const listingColumns = `
	id, external_id, title, price, currency, location, city, state, country,
	bedrooms, bathrooms, area_sqm, property_type, operation, link, image_url, source,
	first_seen_at, last_seen_at, updated_at,
	description, full_address, neighborhood, total_area_sqm, built_area_sqm,
	parking_spaces, property_age, amenities, features, images, technical_specs,
	floor_plan_url, seller_type, publish_date, views,
	detail_scraped, last_scraped_at`

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 500
)

type ListingStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewListingStore(db *sqlx.DB) *ListingStore {
	return &ListingStore{db: db, now: time.Now}
}

// Upsert inserts a listing or refreshes its core fields. Enrichment
// columns are never written here. updated_at moves only when a core
// field changed; last_seen_at moves on every sighting.
func (s *ListingStore) Upsert(ctx context.Context, l *domain.Listing) (bool, error) {
	query := `
		INSERT INTO listings (
			external_id, title, price, currency, location, city, state, country,
			bedrooms, bathrooms, area_sqm, property_type, operation, link, image_url, source,
			first_seen_at, last_seen_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17, $17
		)
		ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			location = EXCLUDED.location,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			country = EXCLUDED.country,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			area_sqm = EXCLUDED.area_sqm,
			property_type = EXCLUDED.property_type,
			operation = EXCLUDED.operation,
			link = EXCLUDED.link,
			image_url = EXCLUDED.image_url,
			source = EXCLUDED.source,
			last_seen_at = EXCLUDED.last_seen_at,
			updated_at = CASE
				WHEN (
					listings.title, listings.price, listings.currency, listings.location,
					listings.city, listings.state, listings.country, listings.bedrooms,
					listings.bathrooms, listings.area_sqm, listings.property_type,
					listings.operation, listings.link, listings.image_url
				) IS DISTINCT FROM (
					EXCLUDED.title, EXCLUDED.price, EXCLUDED.currency, EXCLUDED.location,
					EXCLUDED.city, EXCLUDED.state, EXCLUDED.country, EXCLUDED.bedrooms,
					EXCLUDED.bathrooms, EXCLUDED.area_sqm, EXCLUDED.property_type,
					EXCLUDED.operation, EXCLUDED.link, EXCLUDED.image_url
				)
				THEN EXCLUDED.updated_at
				ELSE listings.updated_at
			END
		RETURNING (xmax = 0) AS is_new`

	var isNew bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		l.ExternalID,
		l.Title,
		l.Price,
		l.Currency,
		l.Location,
		l.City,
		l.State,
		l.Country,
		l.Bedrooms,
		l.Bathrooms,
		l.AreaSqm,
		l.PropertyType,
		l.Operation,
		l.Link,
		l.ImageURL,
		l.Source,
		s.now(),
	).Scan(&isNew)
	if err != nil {
		return false, err
	}

	return isNew, nil
}

// UpsertBatch attempts every listing once. A failing record is reported
// in Errors and does not stop the batch.
func (s *ListingStore) UpsertBatch(ctx context.Context, listings []domain.Listing) *domain.BatchResult {
	result := &domain.BatchResult{}

	for i := range listings {
		l := &listings[i]
		isNew, err := s.Upsert(ctx, l)
		if err != nil {
			perr := &domain.PersistenceError{ExternalID: l.ExternalID, Err: err}
			result.Errors = append(result.Errors, domain.BatchError{
				ExternalID: l.ExternalID,
				Message:    perr.Error(),
			})
			continue
		}

		if isNew {
			result.Inserted++
			result.NewIDs = append(result.NewIDs, l.ExternalID)
		} else {
			result.Updated++
		}
	}

	return result
}

func (s *ListingStore) GetByExternalID(ctx context.Context, externalID string) (*domain.Listing, error) {
	var l domain.Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE external_id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &l, query, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SelectCandidates returns listings that still lack details, newest first.
func (s *ListingStore) SelectCandidates(ctx context.Context, q domain.CandidateQuery) ([]domain.Listing, error) {
	where := []string{"detail_scraped = FALSE", "link IS NOT NULL", "link <> ''"}
	var args []any

	if q.Source != "" {
		args = append(args, q.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if q.OnlyRecent {
		now := q.Now
		if now.IsZero() {
			now = s.now()
		}
		args = append(args, now.Add(-q.RecentWindow))
		where = append(where, fmt.Sprintf("first_seen_at > $%d", len(args)))
	}

	query := `SELECT ` + listingColumns + ` FROM listings WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY first_seen_at DESC, id DESC`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var listings []domain.Listing
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &listings, query, args...); err != nil {
		return nil, err
	}
	return listings, nil
}

// ApplyDetails writes the enrichment columns and marks the listing as
// scraped. It never clears detail_scraped.
func (s *ListingStore) ApplyDetails(ctx context.Context, externalID string, d *domain.ListingDetails, at time.Time) error {
	query := `
		UPDATE listings SET
			description = $2,
			full_address = $3,
			neighborhood = $4,
			total_area_sqm = $5,
			built_area_sqm = $6,
			parking_spaces = $7,
			property_age = $8,
			amenities = $9,
			features = $10,
			images = $11,
			technical_specs = $12,
			floor_plan_url = $13,
			seller_type = $14,
			publish_date = $15,
			views = $16,
			detail_scraped = TRUE,
			last_scraped_at = $17
		WHERE external_id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		externalID,
		d.Description,
		d.FullAddress,
		d.Neighborhood,
		d.TotalAreaSqm,
		d.BuiltAreaSqm,
		d.ParkingSpaces,
		d.PropertyAge,
		d.Amenities,
		d.Features,
		d.Images,
		d.TechnicalSpecs,
		d.FloorPlanURL,
		d.SellerType,
		d.PublishDate,
		d.Views,
		at,
	)
	if err != nil {
		return err
	}
	return requireRow(res, externalID)
}

// MarkAttempted records a failed enrichment attempt.
func (s *ListingStore) MarkAttempted(ctx context.Context, externalID string, at time.Time) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE listings SET last_scraped_at = $2 WHERE external_id = $1`,
		externalID, at,
	)
	if err != nil {
		return err
	}
	return requireRow(res, externalID)
}

func requireRow(res sql.Result, externalID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", externalID, domain.ErrListingNotFound)
	}
	return nil
}

func (s *ListingStore) Statistics(ctx context.Context, source string) (*domain.ListingStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(DISTINCT external_id) AS unique_ids,
			COUNT(DISTINCT NULLIF(state, '')) AS states_covered,
			COUNT(DISTINCT NULLIF(city, '')) AS cities_covered,
			COUNT(*) FILTER (WHERE property_type = $2) AS houses,
			COUNT(*) FILTER (WHERE property_type = $3) AS apartments,
			AVG(price)::float8 AS avg_price,
			MIN(first_seen_at) AS oldest_listing,
			MAX(first_seen_at) AS newest_listing,
			COUNT(*) FILTER (WHERE first_seen_at > $4) AS recent_new
		FROM listings
		WHERE ($1::text = '' OR source = $1::text)`

	var stats domain.ListingStats
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &stats, query,
		source,
		domain.PropertyHouse,
		domain.PropertyApartment,
		s.now().Add(-24*time.Hour),
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *ListingStore) EnrichmentStats(ctx context.Context, source string) (*domain.EnrichmentStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_properties,
			COUNT(*) FILTER (WHERE detail_scraped) AS with_details,
			COUNT(*) FILTER (WHERE NOT detail_scraped) AS without_details,
			COUNT(*) FILTER (WHERE jsonb_typeof(images) = 'array' AND jsonb_array_length(images) > 0) AS with_images,
			COUNT(*) FILTER (WHERE jsonb_typeof(amenities) = 'array' AND jsonb_array_length(amenities) > 0) AS with_amenities,
			AVG(views)::float8 AS avg_views,
			AVG(parking_spaces)::float8 AS avg_parking
		FROM listings
		WHERE ($1::text = '' OR source = $1::text)`

	var stats domain.EnrichmentStats
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &stats, query, source); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *ListingStore) TopAmenities(ctx context.Context, limit int) ([]domain.AmenityCount, error) {
	query := `
		SELECT amenity, COUNT(*) AS count
		FROM listings, jsonb_array_elements_text(listings.amenities) AS amenity
		WHERE jsonb_typeof(listings.amenities) = 'array'
		GROUP BY amenity
		ORDER BY count DESC, amenity
		LIMIT $1`

	var counts []domain.AmenityCount
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &counts, query, limit); err != nil {
		return nil, err
	}
	return counts, nil
}

// RecentNew lists listings first seen at or after since.
func (s *ListingStore) RecentNew(ctx context.Context, since time.Time, limit int) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
		WHERE first_seen_at >= $1
		ORDER BY first_seen_at DESC, id DESC
		LIMIT $2`

	var listings []domain.Listing
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &listings, query, since, clampLimit(limit)); err != nil {
		return nil, err
	}
	return listings, nil
}

// Enriched lists listings that already carry details, for export.
func (s *ListingStore) Enriched(ctx context.Context, source string, limit int) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
		WHERE detail_scraped AND ($1::text = '' OR source = $1::text)
		ORDER BY last_scraped_at DESC NULLS LAST, id DESC`
	args := []any{source}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var listings []domain.Listing
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &listings, query, args...); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *ListingStore) Search(ctx context.Context, f domain.SearchFilter) ([]domain.Listing, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.City != "" {
		add("city ILIKE $%d", "%"+f.City+"%")
	}
	if f.State != "" {
		add("state ILIKE $%d", "%"+f.State+"%")
	}
	if f.PropertyType != "" {
		add("property_type = $%d", f.PropertyType)
	}
	if f.Operation != "" {
		add("operation = $%d", f.Operation)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		add("bedrooms >= $%d", *f.MinBedrooms)
	}

	query := `SELECT ` + listingColumns + ` FROM listings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, clampLimit(f.Limit), max(f.Offset, 0))
	query += fmt.Sprintf(" ORDER BY price ASC NULLS LAST, id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var listings []domain.Listing
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &listings, query, args...); err != nil {
		return nil, err
	}
	return listings, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	return min(limit, maxSearchLimit)
}
