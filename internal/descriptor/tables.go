package descriptor

// Option is one value of a facet table.
type Option struct {
	ID   string
	Name string
}

type Range struct {
	Min   int64
	Max   int64
	Label string
}

type Special struct {
	Template    string
	Description string
	Facets      map[string]string
}

// Tables are the static facet tables a Generator expands.
type Tables struct {
	Locations        []Option
	PropertyTypes    []Option
	Operations       []Option
	SalePriceBands   []Range
	RentPriceBands   []Range
	Bedrooms         []Range
	BedroomTypes     []string
	TopLocations     int
	AreaBands        []Range
	AreaTemplateType string
	Specials         []Special
}

// DefaultTables returns the MercadoLibre Mexico facet tables.
func DefaultTables() Tables {
	return Tables{
		Locations: []Option{
			{ID: "distrito-federal", Name: "Ciudad de México"},
			{ID: "estado-de-mexico", Name: "Estado de México"},
			{ID: "jalisco", Name: "Jalisco"},
			{ID: "nuevo-leon", Name: "Nuevo León"},
			{ID: "puebla", Name: "Puebla"},
			{ID: "queretaro", Name: "Querétaro"},
			{ID: "guanajuato", Name: "Guanajuato"},
			{ID: "yucatan", Name: "Yucatán"},
			{ID: "quintana-roo", Name: "Quintana Roo"},
			{ID: "veracruz", Name: "Veracruz"},
			{ID: "chihuahua", Name: "Chihuahua"},
			{ID: "coahuila", Name: "Coahuila"},
			{ID: "tamaulipas", Name: "Tamaulipas"},
			{ID: "baja-california", Name: "Baja California"},
			{ID: "sinaloa", Name: "Sinaloa"},
			{ID: "sonora", Name: "Sonora"},
			{ID: "san-luis-potosi", Name: "San Luis Potosí"},
			{ID: "aguascalientes", Name: "Aguascalientes"},
			{ID: "morelos", Name: "Morelos"},
			{ID: "hidalgo", Name: "Hidalgo"},
		},
		PropertyTypes: []Option{
			{ID: "casas", Name: "Casas"},
			{ID: "departamentos", Name: "Departamentos"},
			{ID: "terrenos", Name: "Terrenos"},
			{ID: "locales", Name: "Locales Comerciales"},
			{ID: "oficinas", Name: "Oficinas"},
			{ID: "bodegas", Name: "Bodegas"},
		},
		Operations: []Option{
			{ID: "venta", Name: "Venta"},
			{ID: "renta", Name: "Renta"},
		},
		SalePriceBands: []Range{
			{Min: 0, Max: 500000, Label: "0-500k"},
			{Min: 500000, Max: 1000000, Label: "500k-1M"},
			{Min: 1000000, Max: 1500000, Label: "1M-1.5M"},
			{Min: 1500000, Max: 2000000, Label: "1.5M-2M"},
			{Min: 2000000, Max: 3000000, Label: "2M-3M"},
			{Min: 3000000, Max: 5000000, Label: "3M-5M"},
			{Min: 5000000, Max: 10000000, Label: "5M-10M"},
			{Min: 10000000, Max: 20000000, Label: "10M-20M"},
		},
		RentPriceBands: []Range{
			{Min: 0, Max: 5000, Label: "0-5k"},
			{Min: 5000, Max: 10000, Label: "5k-10k"},
			{Min: 10000, Max: 15000, Label: "10k-15k"},
			{Min: 15000, Max: 20000, Label: "15k-20k"},
			{Min: 20000, Max: 30000, Label: "20k-30k"},
			{Min: 30000, Max: 50000, Label: "30k-50k"},
			{Min: 50000, Max: 100000, Label: "50k-100k"},
		},
		Bedrooms: []Range{
			{Min: 1, Label: "1 recámara"},
			{Min: 2, Label: "2 recámaras"},
			{Min: 3, Label: "3 recámaras"},
			{Min: 4, Label: "4+ recámaras"},
		},
		BedroomTypes: []string{"casas", "departamentos"},
		TopLocations: 10,
		AreaBands: []Range{
			{Min: 0, Max: 100, Label: "0-100m²"},
			{Min: 100, Max: 200, Label: "100-200m²"},
			{Min: 200, Max: 500, Label: "200-500m²"},
			{Min: 500, Max: 1000, Label: "500-1000m²"},
		},
		AreaTemplateType: "casas",
		Specials: []Special{
			{
				Template:    "/casas/venta/_CONSTRUCTION_new",
				Description: "Casas nuevas en venta",
				Facets:      map[string]string{"property_type": "casas", "operation": "venta", "amenity": "new_construction"},
			},
			{
				Template:    "/departamentos/venta/_CONSTRUCTION_new",
				Description: "Departamentos nuevos en venta",
				Facets:      map[string]string{"property_type": "departamentos", "operation": "venta", "amenity": "new_construction"},
			},
			{
				Template:    "/casas/venta/_AMENITIES_pool",
				Description: "Casas con alberca",
				Facets:      map[string]string{"property_type": "casas", "operation": "venta", "amenity": "pool"},
			},
			{
				Template:    "/departamentos/_AMENITIES_gym",
				Description: "Departamentos con gimnasio",
				Facets:      map[string]string{"property_type": "departamentos", "amenity": "gym"},
			},
			{
				Template:    "/casas/venta/_AMENITIES_security",
				Description: "Casas con seguridad",
				Facets:      map[string]string{"property_type": "casas", "operation": "venta", "amenity": "security"},
			},
		},
	}
}
