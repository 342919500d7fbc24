package descriptor

import (
	"fmt"
	"math/rand"
	"strconv"

	"listing_crawler/internal/domain"
)

// Combined location+price searches for the top locations.
var (
	topHouseBand = Range{Min: 0, Max: 2000000, Label: "0-2M"}
	topRentBand  = Range{Min: 5000, Max: 20000, Label: "5k-20k"}
)

// Generator expands static facet tables into search descriptors.
type Generator struct {
	tables Tables
}

func NewGenerator(tables Tables) *Generator {
	return &Generator{tables: tables}
}

// Generate returns every descriptor in a fixed order. It has no side effects
// and returns an identical sequence on every call.
func (g *Generator) Generate() []domain.SearchDescriptor {
	t := g.tables
	var out []domain.SearchDescriptor

	// Nationwide.
	for _, pt := range t.PropertyTypes {
		for _, op := range t.Operations {
			out = append(out, domain.NewSearchDescriptor(
				fmt.Sprintf("/%s/%s/", pt.ID, op.ID),
				fmt.Sprintf("%s en %s - Nacional", pt.Name, op.Name),
				map[domain.Facet]string{
					domain.FacetPropertyType: pt.ID,
					domain.FacetOperation:    op.ID,
				},
			))
		}
	}

	for _, loc := range t.Locations {
		for _, pt := range t.PropertyTypes {
			for _, op := range t.Operations {
				out = append(out, domain.NewSearchDescriptor(
					fmt.Sprintf("/%s/%s/%s/", pt.ID, op.ID, loc.ID),
					fmt.Sprintf("%s en %s - %s", pt.Name, op.Name, loc.Name),
					map[domain.Facet]string{
						domain.FacetLocation:     loc.ID,
						domain.FacetPropertyType: pt.ID,
						domain.FacetOperation:    op.ID,
					},
				))
			}
		}
	}

	// Price partitions get past the per-query page ceiling.
	for _, op := range t.Operations {
		for _, band := range g.priceBands(op.ID) {
			for _, pt := range t.PropertyTypes {
				out = append(out, domain.NewSearchDescriptor(
					fmt.Sprintf("/%s/%s/_PriceRange_%d-%d", pt.ID, op.ID, band.Min, band.Max),
					fmt.Sprintf("%s en %s - %s", pt.Name, op.Name, band.Label),
					map[domain.Facet]string{
						domain.FacetPropertyType: pt.ID,
						domain.FacetOperation:    op.ID,
						domain.FacetPriceBand:    rangeValue(band),
					},
				))
			}
		}
	}

	for _, ptID := range t.BedroomTypes {
		pt := g.propertyType(ptID)
		for _, op := range t.Operations {
			for _, b := range t.Bedrooms {
				out = append(out, domain.NewSearchDescriptor(
					fmt.Sprintf("/%s/%s/_BEDROOMS_%d", pt.ID, op.ID, b.Min),
					fmt.Sprintf("%s en %s - %s", pt.Name, op.Name, b.Label),
					map[domain.Facet]string{
						domain.FacetPropertyType: pt.ID,
						domain.FacetOperation:    op.ID,
						domain.FacetBedrooms:     strconv.FormatInt(b.Min, 10),
					},
				))
			}
		}
	}

	top := t.TopLocations
	if top > len(t.Locations) {
		top = len(t.Locations)
	}
	for _, loc := range t.Locations[:top] {
		out = append(out,
			domain.NewSearchDescriptor(
				fmt.Sprintf("/casas/%s/_PriceRange_%d-%d", loc.ID, topHouseBand.Min, topHouseBand.Max),
				fmt.Sprintf("Casas económicas en %s (%s)", loc.Name, topHouseBand.Label),
				map[domain.Facet]string{
					domain.FacetLocation:     loc.ID,
					domain.FacetPropertyType: "casas",
					domain.FacetPriceBand:    rangeValue(topHouseBand),
				},
			),
			domain.NewSearchDescriptor(
				fmt.Sprintf("/departamentos/renta/%s/_PriceRange_%d-%d", loc.ID, topRentBand.Min, topRentBand.Max),
				fmt.Sprintf("Departamentos en renta en %s (%s)", loc.Name, topRentBand.Label),
				map[domain.Facet]string{
					domain.FacetLocation:     loc.ID,
					domain.FacetPropertyType: "departamentos",
					domain.FacetOperation:    "renta",
					domain.FacetPriceBand:    rangeValue(topRentBand),
				},
			),
		)
	}

	for _, area := range t.AreaBands {
		out = append(out, domain.NewSearchDescriptor(
			fmt.Sprintf("/%s/venta/_AREA_%d-%d", t.AreaTemplateType, area.Min, area.Max),
			fmt.Sprintf("%s en venta por tamaño %s", g.propertyType(t.AreaTemplateType).Name, area.Label),
			map[domain.Facet]string{
				domain.FacetPropertyType: t.AreaTemplateType,
				domain.FacetOperation:    "venta",
				domain.FacetAreaBand:     rangeValue(area),
			},
		))
	}

	for _, sp := range t.Specials {
		facets := make(map[domain.Facet]string, len(sp.Facets))
		for k, v := range sp.Facets {
			facets[domain.Facet(k)] = v
		}
		out = append(out, domain.NewSearchDescriptor(sp.Template, sp.Description, facets))
	}

	return out
}

func (g *Generator) priceBands(operation string) []Range {
	if operation == "renta" {
		return g.tables.RentPriceBands
	}
	return g.tables.SalePriceBands
}

func (g *Generator) propertyType(id string) Option {
	for _, pt := range g.tables.PropertyTypes {
		if pt.ID == id {
			return pt
		}
	}
	return Option{ID: id, Name: id}
}

func rangeValue(r Range) string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// ParseRange splits a "min-max" facet value.
func ParseRange(v string) (lo, hi int64, ok bool) {
	if _, err := fmt.Sscanf(v, "%d-%d", &lo, &hi); err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// Shuffle returns a permuted copy of ds.
func Shuffle(ds []domain.SearchDescriptor, rng *rand.Rand) []domain.SearchDescriptor {
	out := make([]domain.SearchDescriptor, len(ds))
	copy(out, ds)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Limit truncates ds to at most n descriptors. Zero means no limit.
func Limit(ds []domain.SearchDescriptor, n int) []domain.SearchDescriptor {
	if n <= 0 || n >= len(ds) {
		return ds
	}
	return ds[:n]
}
