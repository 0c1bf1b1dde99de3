package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillagran/propiedadesplus/internal/catalog"
	"github.com/avillagran/propiedadesplus/internal/listing"
	"github.com/avillagran/propiedadesplus/internal/logger"
	"github.com/avillagran/propiedadesplus/internal/models"
	"github.com/avillagran/propiedadesplus/internal/property"
	"github.com/avillagran/propiedadesplus/internal/recordstore"
	"github.com/avillagran/propiedadesplus/internal/session"
	"github.com/avillagran/propiedadesplus/internal/user"
)

var initLoggerOnce sync.Once

func setupTestServer(t *testing.T) (*httptest.Server, *recordstore.JSONStore) {
	t.Helper()

	initLoggerOnce.Do(func() {
		err := logger.Init("debug")
		if err != nil {
			t.Fatal(err)
		}
	})

	theStore := recordstore.NewMemory()
	require.NoError(t, theStore.Put(context.Background(), catalog.Namespace, catalog.Seed()))

	sessions := session.New(theStore, []byte("clave-de-prueba"), session.WithLatency(0))
	listings := listing.New(theStore)

	server := httptest.NewServer(New(sessions, listings))
	t.Cleanup(server.Close)

	return server, theStore
}

func newClient(server *httptest.Server) *resty.Client {
	return resty.New().SetBaseURL(server.URL)
}

func login(t *testing.T, client *resty.Client, email string) user.User {
	t.Helper()

	var usr user.User
	resp, err := client.R().
		SetBody(models.LoginRequest{Email: email, Password: "password"}).
		SetResult(&usr).
		Post("/api/sesion")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	return usr
}

func publishRequest() models.PublishRequest {
	return models.PublishRequest{
		Title:     "Casa con Jardín en Ñuñoa",
		Price:     1800000,
		Operation: property.OperationArriendo,
		Type:      property.TypeCasa,
		Location:  "Ñuñoa, Santiago",
		Bedrooms:  3,
		Bathrooms: 2,
		Area:      120,
		Images:    []string{"/images/casa-1.jpg"},
	}
}

func TestGetPing(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := newClient(server).R().Get("/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestGetProperties(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(server)

	tests := []struct {
		name          string
		query         string
		expectedTotal int
	}{
		{
			name:          "whole catalog",
			query:         "",
			expectedTotal: len(catalog.Seed()),
		},
		{
			name:          "venta only",
			query:         "?operation=venta",
			expectedTotal: 3,
		},
		{
			name:          "arriendo in las condes",
			query:         "?operation=arriendo&location=las-condes",
			expectedTotal: 1,
		},
		{
			name:          "unknown type matches nothing",
			query:         "?type=castillo",
			expectedTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result models.QueryResponse
			resp, err := client.R().SetResult(&result).Get("/api/propiedades" + tt.query)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode())
			assert.Equal(t, tt.expectedTotal, result.Total)
			assert.Len(t, result.Properties, tt.expectedTotal)
		})
	}
}

func TestGetPropertiesPriceLowOrder(t *testing.T) {
	server, _ := setupTestServer(t)

	var result models.QueryResponse
	resp, err := newClient(server).R().
		SetResult(&result).
		Get("/api/propiedades?operation=venta&sort=price-low")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	require.NotEmpty(t, result.Properties)
	for i := 1; i < len(result.Properties); i++ {
		assert.LessOrEqual(t, result.Properties[i-1].Price, result.Properties[i].Price)
	}
}

func TestSessionLifecycle(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(server)

	var sessionState models.SessionResponse
	resp, err := client.R().SetResult(&sessionState).Get("/api/sesion")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.True(t, sessionState.Ready)
	assert.Nil(t, sessionState.User)

	usr := login(t, client, "carla@example.com")
	assert.Equal(t, "carla", usr.Name)

	resp, err = client.R().SetResult(&sessionState).Get("/api/sesion")
	require.NoError(t, err)
	require.NotNil(t, sessionState.User)
	assert.Equal(t, "carla@example.com", sessionState.User.Email)

	resp, err = client.R().Delete("/api/sesion")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	resp, err = client.R().SetResult(&sessionState).Get("/api/sesion")
	require.NoError(t, err)
	assert.Nil(t, sessionState.User)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := newClient(server).R().
		SetBody(models.LoginRequest{Email: "carla@example.com", Password: "hunter2"}).
		Post("/api/sesion")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestLoginRejectsMalformedEmail(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := newClient(server).R().
		SetBody(models.LoginRequest{Email: "no-es-un-correo", Password: "password"}).
		Post("/api/sesion")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
}

func TestRegister(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(server)

	body := models.RegisterRequest{
		Name:     "Diego Soto",
		Email:    "diego@example.com",
		Phone:    "987654321",
		Password: "password",
	}

	resp, err := client.R().SetBody(body).Post("/api/usuarios")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = client.R().SetBody(body).Post("/api/usuarios")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode())
}

func TestPatchProfileWithoutSession(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := newClient(server).R().
		SetBody(models.ProfilePatchRequest{Name: "X"}).
		Patch("/api/perfil")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestPublishRequiresSession(t *testing.T) {
	server, theStore := setupTestServer(t)

	resp, err := newClient(server).R().
		SetBody(publishRequest()).
		Post("/api/propiedades")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	namespaces, err := theStore.Namespaces(context.Background(), "propiedades/")
	require.NoError(t, err)
	assert.Empty(t, namespaces)
}

func TestPublishRejectsMissingImages(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(server)
	login(t, client, "carla@example.com")

	body := publishRequest()
	body.Images = nil

	resp, err := client.R().SetBody(body).Post("/api/propiedades")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
}

func TestListingCRUDOverHTTP(t *testing.T) {
	server, _ := setupTestServer(t)
	client := newClient(server)
	login(t, client, "carla@example.com")

	var published property.Property
	resp, err := client.R().
		SetBody(publishRequest()).
		SetResult(&published).
		Post("/api/propiedades")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.Equal(t, property.StatusPublicada, published.Status)

	// The published listing becomes queryable.
	var result models.QueryResponse
	resp, err = client.R().SetResult(&result).Get("/api/propiedades?operation=arriendo&location=nunoa")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var fetched property.Property
	resp, err = client.R().SetResult(&fetched).Get("/api/propiedades/" + published.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, published.Title, fetched.Title)

	newTitle := "Casa Remodelada"
	var edited property.Property
	resp, err = client.R().
		SetBody(models.EditRequest{Title: &newTitle}).
		SetResult(&edited).
		Put("/api/propiedades/" + published.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, newTitle, edited.Title)

	resp, err = client.R().Delete("/api/propiedades/" + published.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	resp, err = client.R().Get("/api/propiedades/" + published.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestEditForeignListingIsForbidden(t *testing.T) {
	server, theStore := setupTestServer(t)

	// The seed catalog is owned by the synthetic "seed" user, so any
	// session hitting it must get a 403 and leave the record unchanged.
	client := newClient(server)
	login(t, client, "carla@example.com")

	before, err := recordstore.List[property.Property](context.Background(), theStore, catalog.Namespace)
	require.NoError(t, err)

	newTitle := "Intrusión"
	resp, err := client.R().
		SetBody(models.EditRequest{Title: &newTitle}).
		Put("/api/propiedades/seed-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())

	after, err := recordstore.List[property.Property](context.Background(), theStore, catalog.Namespace)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
