// Package property defines the listing model and its enumerated values.
package property

import "time"

// Operation values. "todas" is accepted by the catalog query as
// "no operation filter" and is never stored on a listing.
const (
	OperationVenta    = "venta"
	OperationArriendo = "arriendo"
	OperationTodas    = "todas"
)

// Listing type values.
const (
	TypeCasa         = "casa"
	TypeDepartamento = "departamento"
	TypeLocal        = "local"
	TypeOficina      = "oficina"
	TypeTerreno      = "terreno"
)

// Status values. New listings start as StatusPublicada.
const (
	StatusPublicada  = "publicada"
	StatusEnRevision = "en revisión"
	StatusVendida    = "vendida"
	StatusArrendada  = "arrendada"
)

// MaxImages is the upper bound on the image list of a listing.
// A stored listing always carries between 1 and MaxImages references.
const MaxImages = 5

// Property is a single listing. OwnerID references user.User.ID and is the
// authorization key for edit and delete.
type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Operation   string    `json:"operation"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
	Address     string    `json:"address"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Area        int       `json:"area"`
	Features    []string  `json:"features"`
	Images      []string  `json:"images"`
	OwnerID     string    `json:"ownerId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}
