package catalog

import (
	"time"

	"github.com/avillagran/propiedadesplus/internal/property"
)

func seedTime(daysAgo int) time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
}

// Seed returns the demo catalog shipped with the product. It is loaded
// into the catalog namespace the first time the store is opened.
func Seed() []property.Property {
	return []property.Property{
		{
			ID:          "seed-1",
			Title:       "Departamento Moderno en Providencia",
			Description: "Hermoso departamento con vista panorámica y acabados de lujo",
			Price:       180000000,
			Operation:   property.OperationVenta,
			Type:        property.TypeDepartamento,
			Location:    "Providencia, Santiago",
			Address:     "Av. Providencia 1234",
			Bedrooms:    2,
			Bathrooms:   2,
			Area:        85,
			Features:    []string{"vista panorámica", "estacionamiento", "bodega"},
			Images:      []string{"/images/propiedad-1-i.jpg"},
			OwnerID:     "seed",
			Status:      property.StatusPublicada,
			CreatedAt:   seedTime(5),
		},
		{
			ID:          "seed-2",
			Title:       "Casa Familiar en Las Condes",
			Description: "Amplia casa con jardín y piscina, ideal para familias",
			Price:       2500000,
			Operation:   property.OperationArriendo,
			Type:        property.TypeCasa,
			Location:    "Las Condes, Santiago",
			Address:     "Camino El Alba 567",
			Bedrooms:    4,
			Bathrooms:   3,
			Area:        180,
			Features:    []string{"jardín", "piscina", "quincho"},
			Images:      []string{"/images/propiedad-2-i.jpg"},
			OwnerID:     "seed",
			Status:      property.StatusPublicada,
			CreatedAt:   seedTime(4),
		},
		{
			ID:          "seed-3",
			Title:       "Loft Industrial en Ñuñoa",
			Description: "Loft de diseño único con techos altos y mucha luz natural",
			Price:       120000000,
			Operation:   property.OperationVenta,
			Type:        property.TypeDepartamento,
			Location:    "Ñuñoa, Santiago",
			Address:     "Av. Irarrázaval 890",
			Bedrooms:    1,
			Bathrooms:   1,
			Area:        65,
			Features:    []string{"techos altos", "luz natural"},
			Images:      []string{"/images/propiedad-3-i.jpg"},
			OwnerID:     "seed",
			Status:      property.StatusPublicada,
			CreatedAt:   seedTime(3),
		},
		{
			ID:          "seed-4",
			Title:       "Penthouse de Lujo en Vitacura",
			Description: "Penthouse exclusivo con terraza privada y vista a la cordillera",
			Price:       450000000,
			Operation:   property.OperationVenta,
			Type:        property.TypeDepartamento,
			Location:    "Vitacura, Santiago",
			Address:     "Av. Vitacura 4321",
			Bedrooms:    3,
			Bathrooms:   3,
			Area:        220,
			Features:    []string{"terraza privada", "vista a la cordillera"},
			Images:      []string{"/images/propiedad-1-i.jpg"},
			OwnerID:     "seed",
			Status:      property.StatusPublicada,
			CreatedAt:   seedTime(2),
		},
		{
			ID:          "seed-5",
			Title:       "Oficina Premium en Santiago Centro",
			Description: "Oficina moderna en edificio corporativo con todas las comodidades",
			Price:       3500000,
			Operation:   property.OperationArriendo,
			Type:        property.TypeOficina,
			Location:    "Santiago Centro",
			Address:     "Huérfanos 1160",
			Bedrooms:    0,
			Bathrooms:   2,
			Area:        95,
			Features:    []string{"edificio corporativo", "sala de reuniones"},
			Images:      []string{"/images/propiedad-2-i.jpg"},
			OwnerID:     "seed",
			Status:      property.StatusPublicada,
			CreatedAt:   seedTime(1),
		},
	}
}
