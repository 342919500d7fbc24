package lamudi

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_crawler/internal/domain"
)

func TestSearchURL(t *testing.T) {
	s := New("")

	d := domain.NewSearchDescriptor("/departamentos/renta/jalisco/", "", map[domain.Facet]string{
		domain.FacetLocation:     "jalisco",
		domain.FacetPropertyType: "departamentos",
		domain.FacetOperation:    "renta",
	})
	assert.Equal(t, "https://www.lamudi.com.mx/jalisco/departamento/for-rent/", s.SearchURL(d, 1))
	assert.Equal(t, "https://www.lamudi.com.mx/jalisco/departamento/for-rent/?page=3", s.SearchURL(d, 3))

	priced := domain.NewSearchDescriptor("/casas/venta/_PriceRange_0-500000", "", map[domain.Facet]string{
		domain.FacetPropertyType: "casas",
		domain.FacetOperation:    "venta",
		domain.FacetPriceBand:    "0-500000",
	})
	assert.Equal(t, "https://www.lamudi.com.mx/casa/for-sale/?priceMax=500000&priceMin=0", s.SearchURL(priced, 1))
}

func TestExtractListings(t *testing.T) {
	body, err := os.ReadFile("testdata/search.html")
	require.NoError(t, err)

	page, err := New("").ExtractListings(body)
	require.NoError(t, err)

	require.Len(t, page.Listings, 2)
	assert.Equal(t, 1, page.Dropped)
	require.NotNil(t, page.HasNext)
	assert.True(t, *page.HasNext)

	house := page.Listings[0]
	assert.Equal(t, "LAMUDI-41032-73-casa-en-venta-en-lomas-de-chapulte", house.ExternalID)
	assert.Equal(t, "Casa en venta en Lomas de Chapultepec", house.Title)
	assert.Equal(t, "12500000", house.Price.Decimal.String())
	assert.Equal(t, "MXN", house.Currency)
	assert.Equal(t, "Miguel Hidalgo", house.City)
	assert.Equal(t, "Ciudad de México", house.State)
	assert.Equal(t, 4, house.Bedrooms)
	assert.Equal(t, 3, house.Bathrooms)
	assert.Equal(t, "420", house.AreaSqm.Decimal.String())
	assert.Equal(t, "https://www.lamudi.com.mx/detalle/41032-73-casa-en-venta-en-lomas-de-chapultepec", house.Link)
	assert.Equal(t, Name, house.Source)

	apt := page.Listings[1]
	assert.Equal(t, "LAMUDI-torre-reforma-222", apt.ExternalID)
	assert.Equal(t, "Departamento con vista en Reforma", apt.Title)
	assert.Equal(t, "USD", apt.Currency)
	assert.Equal(t, "https://img.lamudi.com.mx/2.jpg", apt.ImageURL)
	assert.Equal(t, domain.PropertyApartment, apt.PropertyType)
}

func TestExtractDetails(t *testing.T) {
	body, err := os.ReadFile("testdata/detail.html")
	require.NoError(t, err)

	d, err := New("").ExtractDetails(body, time.Now())
	require.NoError(t, err)

	require.NotNil(t, d.Description)
	assert.Equal(t, "Residencia con jardín y alberca.", *d.Description)
	require.NotNil(t, d.FullAddress)
	assert.Equal(t, "Paseo de la Reforma 2000, Lomas de Chapultepec", *d.FullAddress)
	assert.Equal(t, domain.StringList{"Alberca", "Jardín"}, d.Amenities)
	assert.Equal(t, "420", d.BuiltAreaSqm.Decimal.String())
	assert.Equal(t, "600", d.TotalAreaSqm.Decimal.String())
	require.NotNil(t, d.ParkingSpaces)
	assert.Equal(t, 3, *d.ParkingSpaces)
	require.Len(t, d.Images, 1)
	require.NotNil(t, d.SellerType)
	assert.Equal(t, "inmobiliaria", *d.SellerType)
}
