// Package router exposes the catalog, session and listing operations over
// HTTP for the view layer. It owns input validation and the mapping of
// error kinds to status codes; all domain logic lives in the consumed
// services.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/avillagran/propiedadesplus/internal/catalog"
	"github.com/avillagran/propiedadesplus/internal/gziphttp"
	"github.com/avillagran/propiedadesplus/internal/listing"
	"github.com/avillagran/propiedadesplus/internal/logger"
	"github.com/avillagran/propiedadesplus/internal/models"
	"github.com/avillagran/propiedadesplus/internal/property"
	"github.com/avillagran/propiedadesplus/internal/recordstore"
	"github.com/avillagran/propiedadesplus/internal/session"
	"github.com/avillagran/propiedadesplus/internal/user"
)

type sessionManager interface {
	Login(ctx context.Context, email, password string) (*user.User, error)
	Register(ctx context.Context, name, email, phone, password string) (*user.User, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, patch session.ProfilePatch) (*user.User, error)
	User() *user.User
	Ready() bool
}

type listingService interface {
	Publish(ctx context.Context, draft listing.Draft, acting *user.User) (property.Property, error)
	Edit(ctx context.Context, id string, patch listing.Patch, acting *user.User) (property.Property, error)
	Remove(ctx context.Context, id string, acting *user.User) error
	FindByID(ctx context.Context, id string) (property.Property, bool, error)
	Catalog(ctx context.Context) ([]property.Property, error)
}

type handler struct {
	sessions sessionManager
	listings listingService
	validate *validator.Validate
}

// New assembles the HTTP handler tree over the given services.
func New(sessions sessionManager, listings listingService) *chi.Mux {
	h := &handler{
		sessions: sessions,
		listings: listings,
		validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)
	router.Use(gziphttp.DecompressRequest)
	router.Use(gziphttp.CompressResponse)

	router.Get(`/ping`, h.getPing)

	router.Route(`/api`, func(r chi.Router) {
		r.Get(`/sesion`, h.getSession)
		r.Post(`/sesion`, h.postLogin)
		r.Delete(`/sesion`, h.deleteSession)
		r.Post(`/usuarios`, h.postRegister)
		r.Patch(`/perfil`, h.patchProfile)

		r.Route(`/propiedades`, func(r chi.Router) {
			r.Get(`/`, h.getProperties)
			r.Post(`/`, h.postProperty)
			r.Get(`/{id}`, h.getProperty)
			r.Put(`/{id}`, h.putProperty)
			r.Delete(`/{id}`, h.deleteProperty)
		})
	})

	return router
}

func writeJSON(response http.ResponseWriter, statusCode int, payload any) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(statusCode)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response payload:", err)
	}
}

func writeError(response http.ResponseWriter, err error) {
	writeJSON(response, statusForError(err), models.ErrorResponse{Error: err.Error()})
}

// statusForError maps the domain error kinds to HTTP statuses. Anything
// unrecognized, including record store failures, is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials),
		errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, listing.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, session.ErrDuplicateEmail):
		return http.StatusConflict

	case errors.Is(err, listing.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, listing.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, listing.ErrMissingImages):
		return http.StatusBadRequest

	case errors.Is(err, recordstore.ErrStorage):
		return http.StatusInternalServerError
	}

	return http.StatusInternalServerError
}

func (h *handler) decodeAndValidate(request *http.Request, dst any) error {
	if err := json.NewDecoder(request.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

func (h *handler) getPing(response http.ResponseWriter, request *http.Request) {
	response.WriteHeader(http.StatusOK)
}

func (h *handler) getSession(response http.ResponseWriter, request *http.Request) {
	writeJSON(response, http.StatusOK, models.SessionResponse{
		User:  h.sessions.User(),
		Ready: h.sessions.Ready(),
	})
}

func (h *handler) postLogin(response http.ResponseWriter, request *http.Request) {
	var req models.LoginRequest
	if err := h.decodeAndValidate(request, &req); err != nil {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	usr, err := h.sessions.Login(request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, usr)
}

func (h *handler) deleteSession(response http.ResponseWriter, request *http.Request) {
	if err := h.sessions.Logout(request.Context()); err != nil {
		writeError(response, err)
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

func (h *handler) postRegister(response http.ResponseWriter, request *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeAndValidate(request, &req); err != nil {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	usr, err := h.sessions.Register(request.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, usr)
}

func (h *handler) patchProfile(response http.ResponseWriter, request *http.Request) {
	var req models.ProfilePatchRequest
	if err := h.decodeAndValidate(request, &req); err != nil {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	usr, err := h.sessions.UpdateProfile(request.Context(), session.ProfilePatch{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, usr)
}

func (h *handler) getProperties(response http.ResponseWriter, request *http.Request) {
	fullCatalog, err := h.listings.Catalog(request.Context())
	if err != nil {
		writeError(response, err)
		return
	}

	query := request.URL.Query()
	operation := query.Get("operation")
	if operation == "" {
		operation = property.OperationTodas
	}
	sortKey := query.Get("sort")
	if sortKey == "" {
		sortKey = catalog.SortNewest
	}

	result := catalog.Query(fullCatalog, operation, catalog.ParseCriteria(query), sortKey)

	writeJSON(response, http.StatusOK, models.QueryResponse{
		Total:      len(result),
		Properties: result,
	})
}

func (h *handler) getProperty(response http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	p, found, err := h.listings.FindByID(request.Context(), id)
	if err != nil {
		writeError(response, err)
		return
	}
	if !found {
		writeError(response, listing.ErrNotFound)
		return
	}

	writeJSON(response, http.StatusOK, p)
}

func (h *handler) postProperty(response http.ResponseWriter, request *http.Request) {
	var req models.PublishRequest
	if err := h.decodeAndValidate(request, &req); err != nil {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.listings.Publish(request.Context(), listing.Draft{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Operation:   req.Operation,
		Type:        req.Type,
		Location:    req.Location,
		Address:     req.Address,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Area:        req.Area,
		Features:    req.Features,
		Images:      req.Images,
	}, h.sessions.User())
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, p)
}

func (h *handler) putProperty(response http.ResponseWriter, request *http.Request) {
	var req models.EditRequest
	if err := h.decodeAndValidate(request, &req); err != nil {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.listings.Edit(request.Context(), chi.URLParam(request, "id"), listing.Patch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Operation:   req.Operation,
		Type:        req.Type,
		Location:    req.Location,
		Address:     req.Address,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Area:        req.Area,
		Status:      req.Status,
		Features:    req.Features,
		Images:      req.Images,
	}, h.sessions.User())
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, p)
}

func (h *handler) deleteProperty(response http.ResponseWriter, request *http.Request) {
	err := h.listings.Remove(request.Context(), chi.URLParam(request, "id"), h.sessions.User())
	if err != nil {
		writeError(response, err)
		return
	}

	response.WriteHeader(http.StatusNoContent)
}
