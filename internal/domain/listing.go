package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is a marketplace listing keyed by ExternalID.
type Listing struct {
	ID           int64               `db:"id" json:"id"`
	ExternalID   string              `db:"external_id" json:"external_id"`
	Title        string              `db:"title" json:"title"`
	Price        decimal.NullDecimal `db:"price" json:"price"`
	Currency     string              `db:"currency" json:"currency"`
	Location     string              `db:"location" json:"location"`
	City         string              `db:"city" json:"city"`
	State        string              `db:"state" json:"state"`
	Country      string              `db:"country" json:"country"`
	Bedrooms     int                 `db:"bedrooms" json:"bedrooms"`
	Bathrooms    int                 `db:"bathrooms" json:"bathrooms"`
	AreaSqm      decimal.NullDecimal `db:"area_sqm" json:"area_sqm"`
	PropertyType string              `db:"property_type" json:"property_type"`
	Operation    string              `db:"operation" json:"operation"`
	Link         string              `db:"link" json:"link"`
	ImageURL     string              `db:"image_url" json:"image_url"`
	Source       string              `db:"source" json:"source"`

	FirstSeenAt time.Time `db:"first_seen_at" json:"first_seen_at"`
	LastSeenAt  time.Time `db:"last_seen_at" json:"last_seen_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	ListingDetails

	DetailScraped bool       `db:"detail_scraped" json:"detail_scraped"`
	LastScrapedAt *time.Time `db:"last_scraped_at" json:"last_scraped_at,omitempty"`
}

// ListingDetails holds the attributes only the detail page carries.
// All fields are optional.
type ListingDetails struct {
	Description    *string             `db:"description" json:"description,omitempty"`
	FullAddress    *string             `db:"full_address" json:"full_address,omitempty"`
	Neighborhood   *string             `db:"neighborhood" json:"neighborhood,omitempty"`
	TotalAreaSqm   decimal.NullDecimal `db:"total_area_sqm" json:"total_area_sqm"`
	BuiltAreaSqm   decimal.NullDecimal `db:"built_area_sqm" json:"built_area_sqm"`
	ParkingSpaces  *int                `db:"parking_spaces" json:"parking_spaces,omitempty"`
	PropertyAge    *int                `db:"property_age" json:"property_age,omitempty"`
	Amenities      StringList          `db:"amenities" json:"amenities,omitempty"`
	Features       StringMap           `db:"features" json:"features,omitempty"`
	Images         ImageList           `db:"images" json:"images,omitempty"`
	TechnicalSpecs StringMap           `db:"technical_specs" json:"technical_specs,omitempty"`
	FloorPlanURL   *string             `db:"floor_plan_url" json:"floor_plan_url,omitempty"`
	SellerType     *string             `db:"seller_type" json:"seller_type,omitempty"`
	PublishDate    *time.Time          `db:"publish_date" json:"publish_date,omitempty"`
	Views          *int                `db:"views" json:"views,omitempty"`
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Property types shared by all sources.
const (
	PropertyHouse      = "Casa"
	PropertyApartment  = "Departamento"
	PropertyLand       = "Terreno"
	PropertyCommercial = "Local"
	PropertyOffice     = "Oficina"
	PropertyWarehouse  = "Bodega"
	PropertyOther      = "Otro"
)

// SearchPage is what an extractor returns for one search result document.
type SearchPage struct {
	Listings []Listing
	Dropped  int
	// HasNext is nil when the document carries no pagination marker.
	HasNext *bool
}

// Page is the outcome of fetching one page of a descriptor.
type Page struct {
	Listings    []Listing
	Dropped     int
	HasNextPage bool
}
