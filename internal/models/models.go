// Package models defines the request and response shapes of the HTTP
// facade. Request structs carry validation tags; malformed input is
// rejected before any store access.
package models

import (
	"github.com/avillagran/propiedadesplus/internal/property"
	"github.com/avillagran/propiedadesplus/internal/user"
)

// LoginRequest is the body of POST /api/sesion.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /api/usuarios.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// ProfilePatchRequest is the body of PATCH /api/perfil. All fields are
// optional; empty ones are left unchanged.
type ProfilePatchRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

// SessionResponse is the session read model: the active user (if any) and
// whether the initial restore has completed.
type SessionResponse struct {
	User  *user.User `json:"user"`
	Ready bool       `json:"ready"`
}

// PublishRequest is the body of POST /api/propiedades.
type PublishRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       int64    `json:"price" validate:"required,gt=0"`
	Operation   string   `json:"operation" validate:"required,oneof=venta arriendo"`
	Type        string   `json:"type" validate:"required,oneof=casa departamento local oficina terreno"`
	Location    string   `json:"location" validate:"required"`
	Address     string   `json:"address"`
	Bedrooms    int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int      `json:"bathrooms" validate:"gte=0"`
	Area        int      `json:"area" validate:"required,gt=0"`
	Features    []string `json:"features"`
	Images      []string `json:"images" validate:"required,min=1,max=5,dive,required"`
}

// EditRequest is the body of PUT /api/propiedades/{id}. Absent fields are
// left unchanged; an explicitly empty image list is invalid.
type EditRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *int64   `json:"price" validate:"omitempty,gt=0"`
	Operation   *string  `json:"operation" validate:"omitempty,oneof=venta arriendo"`
	Type        *string  `json:"type" validate:"omitempty,oneof=casa departamento local oficina terreno"`
	Location    *string  `json:"location"`
	Address     *string  `json:"address"`
	Bedrooms    *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms   *int     `json:"bathrooms" validate:"omitempty,gte=0"`
	Area        *int     `json:"area" validate:"omitempty,gt=0"`
	Status      *string  `json:"status" validate:"omitempty,oneof=publicada 'en revisión' vendida arrendada"`
	Features    []string `json:"features"`
	Images      []string `json:"images" validate:"omitempty,max=5,dive,required"`
}

// QueryResponse is the body of GET /api/propiedades.
type QueryResponse struct {
	Total      int                 `json:"total"`
	Properties []property.Property `json:"properties"`
}

// ErrorResponse carries the error kind's human-readable message.
type ErrorResponse struct {
	Error string `json:"error"`
}
