// Package listing implements ownership-gated CRUD over property listings.
// Every mutation of a stored listing passes through AuthorizeMutation, so
// the authorization rule has a single implementation and test surface.
package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	funk "github.com/thoas/go-funk"

	"github.com/avillagran/propiedadesplus/internal/catalog"
	"github.com/avillagran/propiedadesplus/internal/property"
	"github.com/avillagran/propiedadesplus/internal/recordstore"
	"github.com/avillagran/propiedadesplus/internal/user"
)

// namespacePrefix scopes one listings collection per owning user.
const namespacePrefix = "propiedades/"

var (
	// ErrUnauthenticated is returned when a mutation is attempted with no
	// active session.
	ErrUnauthenticated = errors.New("debes iniciar sesión para publicar una propiedad")

	// ErrForbidden is returned when the acting user does not own the listing.
	ErrForbidden = errors.New("no tienes permiso para modificar esta propiedad")

	// ErrNotFound is returned when the referenced listing does not exist.
	ErrNotFound = errors.New("la propiedad no existe")

	// ErrMissingImages is returned when a publish or edit would leave the
	// listing without images.
	ErrMissingImages = errors.New("la propiedad necesita al menos una imagen")
)

// OwnerNamespace is the record store namespace of a user's listings.
func OwnerNamespace(ownerID string) string {
	return namespacePrefix + ownerID
}

// AuthorizeMutation checks whether actingUserID may edit or delete p.
// Pure and side-effect free: it returns nil, ErrUnauthenticated or
// ErrForbidden.
func AuthorizeMutation(p property.Property, actingUserID string) error {
	if actingUserID == "" {
		return ErrUnauthenticated
	}
	if p.OwnerID != actingUserID {
		return ErrForbidden
	}
	return nil
}

// Draft carries the caller-supplied fields of a new listing.
type Draft struct {
	Title       string
	Description string
	Price       int64
	Operation   string
	Type        string
	Location    string
	Address     string
	Bedrooms    int
	Bathrooms   int
	Area        int
	Features    []string
	Images      []string
}

// Patch carries the fields of an edit. Nil pointers and nil slices leave
// the stored value unchanged; a non-nil empty image list is rejected.
type Patch struct {
	Title       *string
	Description *string
	Price       *int64
	Operation   *string
	Type        *string
	Location    *string
	Address     *string
	Bedrooms    *int
	Bathrooms   *int
	Area        *int
	Status      *string
	Features    []string
	Images      []string
}

// Service reads and mutates listings through the record store.
type Service struct {
	store recordstore.Store
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a listing Service over the given store.
func New(store recordstore.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish stores a new listing owned by the acting user. The image list
// must hold between 1 and property.MaxImages references; anything past the
// cap is dropped, matching the upload form's behavior.
func (s *Service) Publish(ctx context.Context, draft Draft, acting *user.User) (property.Property, error) {
	if acting == nil {
		return property.Property{}, ErrUnauthenticated
	}
	if len(draft.Images) == 0 {
		return property.Property{}, ErrMissingImages
	}

	images := draft.Images
	if len(images) > property.MaxImages {
		images = images[:property.MaxImages]
	}

	p := property.Property{
		ID:          uuid.New().String(),
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Operation:   draft.Operation,
		Type:        draft.Type,
		Location:    draft.Location,
		Address:     draft.Address,
		Bedrooms:    draft.Bedrooms,
		Bathrooms:   draft.Bathrooms,
		Area:        draft.Area,
		Features:    funk.UniqString(draft.Features),
		Images:      images,
		OwnerID:     acting.ID,
		Status:      property.StatusPublicada,
		CreatedAt:   s.now(),
	}

	err := recordstore.UpsertOne(ctx, s.store, OwnerNamespace(acting.ID), p, propertyID)
	if err != nil {
		return property.Property{}, err
	}

	return p, nil
}

// Edit merges patch into the listing and persists it. Fails with
// ErrNotFound, ErrForbidden / ErrUnauthenticated, or ErrMissingImages when
// the patched image list would be empty.
func (s *Service) Edit(ctx context.Context, id string, patch Patch, acting *user.User) (property.Property, error) {
	p, namespace, found, err := s.findByID(ctx, id)
	if err != nil {
		return property.Property{}, err
	}
	if !found {
		return property.Property{}, ErrNotFound
	}
	if err := AuthorizeMutation(p, actingID(acting)); err != nil {
		return property.Property{}, err
	}

	if patch.Images != nil && len(patch.Images) == 0 {
		return property.Property{}, ErrMissingImages
	}

	applyPatch(&p, patch)
	p.UpdatedAt = s.now()

	if err := recordstore.UpsertOne(ctx, s.store, namespace, p, propertyID); err != nil {
		return property.Property{}, err
	}

	return p, nil
}

// Remove deletes the listing. Same authorization failure modes as Edit.
func (s *Service) Remove(ctx context.Context, id string, acting *user.User) error {
	p, namespace, found, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	if err := AuthorizeMutation(p, actingID(acting)); err != nil {
		return err
	}

	_, err = recordstore.DeleteWhere(ctx, s.store, namespace, func(candidate property.Property) bool {
		return candidate.ID == id
	})

	return err
}

// FindByID looks a listing up across the seed catalog and every owner's
// collection.
func (s *Service) FindByID(ctx context.Context, id string) (property.Property, bool, error) {
	p, _, found, err := s.findByID(ctx, id)
	return p, found, err
}

// Catalog assembles the full queryable catalog: the seed entries followed
// by every owner's published listings, in namespace order.
func (s *Service) Catalog(ctx context.Context) ([]property.Property, error) {
	result, err := recordstore.List[property.Property](ctx, s.store, catalog.Namespace)
	if err != nil {
		return nil, err
	}

	namespaces, err := s.store.Namespaces(ctx, namespacePrefix)
	if err != nil {
		return nil, err
	}
	for _, namespace := range namespaces {
		listings, err := recordstore.List[property.Property](ctx, s.store, namespace)
		if err != nil {
			return nil, err
		}
		result = append(result, listings...)
	}

	return result, nil
}

func (s *Service) findByID(ctx context.Context, id string) (property.Property, string, bool, error) {
	namespaces, err := s.store.Namespaces(ctx, namespacePrefix)
	if err != nil {
		return property.Property{}, "", false, err
	}
	namespaces = append([]string{catalog.Namespace}, namespaces...)

	for _, namespace := range namespaces {
		p, found, err := recordstore.FindOne(ctx, s.store, namespace, func(candidate property.Property) bool {
			return candidate.ID == id
		})
		if err != nil {
			return property.Property{}, "", false, err
		}
		if found {
			return p, namespace, true, nil
		}
	}

	return property.Property{}, "", false, nil
}

func applyPatch(p *property.Property, patch Patch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Operation != nil {
		p.Operation = *patch.Operation
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Bedrooms != nil {
		p.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		p.Bathrooms = *patch.Bathrooms
	}
	if patch.Area != nil {
		p.Area = *patch.Area
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Features != nil {
		p.Features = funk.UniqString(patch.Features)
	}
	if patch.Images != nil {
		images := patch.Images
		if len(images) > property.MaxImages {
			images = images[:property.MaxImages]
		}
		p.Images = images
	}
}

func propertyID(p property.Property) string {
	return p.ID
}

func actingID(acting *user.User) string {
	if acting == nil {
		return ""
	}
	return acting.ID
}
