package domain

import "time"

type ListingStats struct {
	Total         int64      `db:"total" json:"total"`
	Unique        int64      `db:"unique_ids" json:"unique"`
	StatesCovered int64      `db:"states_covered" json:"states_covered"`
	CitiesCovered int64      `db:"cities_covered" json:"cities_covered"`
	Houses        int64      `db:"houses" json:"houses"`
	Apartments    int64      `db:"apartments" json:"apartments"`
	AvgPrice      *float64   `db:"avg_price" json:"avg_price,omitempty"`
	OldestListing *time.Time `db:"oldest_listing" json:"oldest_listing,omitempty"`
	NewestListing *time.Time `db:"newest_listing" json:"newest_listing,omitempty"`
	RecentNew     int64      `db:"recent_new" json:"recent_new"`
}

type EnrichmentStats struct {
	TotalProperties int64    `db:"total_properties" json:"total_properties"`
	WithDetails     int64    `db:"with_details" json:"with_details"`
	WithoutDetails  int64    `db:"without_details" json:"without_details"`
	WithImages      int64    `db:"with_images" json:"with_images"`
	WithAmenities   int64    `db:"with_amenities" json:"with_amenities"`
	AvgViews        *float64 `db:"avg_views" json:"avg_views,omitempty"`
	AvgParking      *float64 `db:"avg_parking" json:"avg_parking,omitempty"`
}

type AmenityCount struct {
	Amenity string `db:"amenity" json:"amenity"`
	Count   int64  `db:"count" json:"count"`
}

// Statistics combines stored listing figures with run history.
type Statistics struct {
	Listings *ListingStats `json:"listings"`
	State    RunState      `json:"state"`
}

type Health struct {
	Status         string     `json:"status"`
	NeedsDetails   int64      `json:"needs_details"`
	LastRun        *time.Time `json:"last_run,omitempty"`
	Stuck          bool       `json:"stuck"`
	StuckThreshold string     `json:"stuck_threshold"`
}

// SearchFilter narrows stored listings for the search endpoint.
type SearchFilter struct {
	City         string
	State        string
	PropertyType string
	Operation    string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	Limit        int
	Offset       int
}
