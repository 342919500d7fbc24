package domain

import "sort"

type Facet string

const (
	FacetLocation     Facet = "location"
	FacetPropertyType Facet = "property_type"
	FacetOperation    Facet = "operation"
	FacetPriceBand    Facet = "price_band"
	FacetBedrooms     Facet = "bedrooms"
	FacetAreaBand     Facet = "area_band"
	FacetAmenity      Facet = "amenity"
)

// SearchDescriptor identifies one search query. It is immutable once built.
type SearchDescriptor struct {
	facets        map[Facet]string
	queryTemplate string
	description   string
}

func NewSearchDescriptor(queryTemplate, description string, facets map[Facet]string) SearchDescriptor {
	copied := make(map[Facet]string, len(facets))
	for k, v := range facets {
		copied[k] = v
	}
	return SearchDescriptor{
		facets:        copied,
		queryTemplate: queryTemplate,
		description:   description,
	}
}

func (d SearchDescriptor) QueryTemplate() string { return d.queryTemplate }
func (d SearchDescriptor) Description() string   { return d.description }

func (d SearchDescriptor) Facet(name Facet) (string, bool) {
	v, ok := d.facets[name]
	return v, ok
}

// FacetNames returns the facets set on the descriptor in sorted order.
func (d SearchDescriptor) FacetNames() []Facet {
	names := make([]Facet, 0, len(d.facets))
	for k := range d.facets {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
