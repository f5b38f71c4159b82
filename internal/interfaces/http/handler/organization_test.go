package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	identityapp "github.com/dokan/papershop/internal/application/identity"
	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/infrastructure/persistence"
	"github.com/dokan/papershop/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationHandler(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	orgRepo := persistence.NewGormOrganizationRepository(db)
	org, err := identity.NewOrganization("Nilkhet Paper Mart", "")
	require.NoError(t, err)
	require.NoError(t, orgRepo.Save(context.Background(), org))

	h := NewOrganizationHandler(identityapp.NewOrganizationService(orgRepo, nil))
	engine := gin.New()
	authed := engine.Group("/", asCaller(org.ID, uuid.New()))
	authed.GET("/organization", h.Get)
	authed.PUT("/organization", h.Update)

	send := func(method, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/organization", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPut, `{"name":"Nilkhet Paper and Print","phone":"01911-000111","address":"Shop 7, Nilkhet"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"name":"Nilkhet Paper and Print"`)
	assert.Contains(t, w.Body.String(), `"slug":"nilkhet-paper-mart"`)

	w = send(http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"phone":"01911-000111"`)

	t.Run("empty name", func(t *testing.T) {
		w := send(http.MethodPut, `{"name":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad email", func(t *testing.T) {
		w := send(http.MethodPut, `{"email":"owner-at-shop"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_EMAIL")
	})
}
