package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"listing_crawler/internal/domain"
)

func TestParseAmount(t *testing.T) {
	assert.Equal(t, "2450000", ParseAmount("2,450,000").Decimal.String())
	assert.True(t, ParseAmount("$ 18.500").Valid)
	assert.False(t, ParseAmount("Consultar").Valid)
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		in, city, state string
	}{
		{"Del Valle, Benito Juárez, Distrito Federal", "Benito Juárez", "Distrito Federal"},
		{"Zapopan, Jalisco", "Zapopan", "Jalisco"},
		{"Mérida", "Mérida", "Mérida"},
		{"", "", ""},
	}
	for _, tt := range tests {
		city, state := SplitLocation(tt.in)
		assert.Equal(t, tt.city, city, tt.in)
		assert.Equal(t, tt.state, state, tt.in)
	}
}

func TestInferPropertyType(t *testing.T) {
	assert.Equal(t, domain.PropertyHouse, InferPropertyType("Casa en venta en Coyoacán"))
	assert.Equal(t, domain.PropertyApartment, InferPropertyType("Depto amueblado"))
	assert.Equal(t, domain.PropertyWarehouse, InferPropertyType("Bodega industrial"))
	assert.Equal(t, domain.PropertyOther, InferPropertyType("Rancho"))
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t,
		"https://casa.mercadolibre.com.mx/MLM-123-casa",
		CanonicalURL("https://inmuebles.mercadolibre.com.mx", "https://casa.mercadolibre.com.mx/MLM-123-casa?tracking=1#position=3"),
	)
	assert.Equal(t,
		"https://www.lamudi.com.mx/detalle/casa-bonita",
		CanonicalURL("https://www.lamudi.com.mx", "/detalle/casa-bonita"),
	)
	assert.Empty(t, CanonicalURL("https://x.test", ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "áéí", Truncate("áéíóú", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
}
