package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	catalogapp "github.com/dokan/papershop/internal/application/catalog"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/infrastructure/persistence"
	"github.com/dokan/papershop/internal/interfaces/http/dto"
	"github.com/dokan/papershop/internal/interfaces/http/middleware"
	"github.com/dokan/papershop/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewNotFoundError("Sale"), http.StatusNotFound, shared.CodeNotFound},
		{"wrapped insufficient stock", fmt.Errorf("create sale: %w", shared.ErrInsufficientStock), http.StatusUnprocessableEntity, shared.CodeInsufficientStock},
		{"already exists", shared.NewDomainError(shared.CodeAlreadyExists, "dup"), http.StatusConflict, shared.CodeAlreadyExists},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotContains(t, resp.Error.Message, "connection reset", "internal details are not leaked")
		})
	}
}

func TestDateRange(t *testing.T) {
	engine := gin.New()
	h := &BaseHandler{}
	engine.GET("/range", func(c *gin.Context) {
		from, to, ok := h.dateRange(c)
		if !ok {
			return
		}
		c.String(http.StatusOK, from.Format(dateLayout)+".."+to.Format(dateLayout))
	})

	get := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/range"+query, nil))
		return w
	}

	w := get("?from=2026-03-01&to=2026-03-31")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2026-03-01..2026-03-31", w.Body.String())

	now := time.Now().UTC()
	w = get("")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, fmt.Sprintf("%04d-%02d-01..%s", now.Year(), now.Month(), now.Format(dateLayout)), w.Body.String())

	w = get("?from=03/01/2026")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"from"`)

	w = get("?from=2026-03-10&to=2026-03-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"to"`)
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("papershop", "1.2.3")
	h.AddCheck("database", func(context.Context) error { return nil })

	engine := gin.New()
	engine.GET("/health", h.Health)
	engine.GET("/health/live", h.Live)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)

	h.AddCheck("redis", func(context.Context) error { return errors.New("dial tcp: refused") })
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), "dial tcp: refused")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// asCaller stands in for JWTAuth
func asCaller(tenantID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, tenantID)
		c.Set(middleware.UserIDKey, userID)
		c.Request = c.Request.WithContext(shared.WithTenantID(c.Request.Context(), tenantID))
		c.Next()
	}
}

func TestCategoryHandler(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	h := NewCategoryHandler(catalogapp.NewCategoryService(persistence.NewGormCategoryRepository(db)))

	tenantID := uuid.New()
	engine := gin.New()
	engine.GET("/anonymous", h.List)
	authed := engine.Group("/", asCaller(tenantID, uuid.New()))
	authed.POST("/categories", h.Create)
	authed.GET("/categories", h.List)
	authed.GET("/categories/:id", h.GetByID)

	send := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/categories", `{"name":"Paper","description":"Offset and art paper"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data catalogapp.CategoryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Paper", created.Data.Name)

	t.Run("duplicate name ignoring case", func(t *testing.T) {
		w := send(http.MethodPost, "/categories", `{"name":"PAPER"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		w := send(http.MethodPost, "/categories", `{"description":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"name"`)
	})

	t.Run("get", func(t *testing.T) {
		w := send(http.MethodGet, "/categories/"+created.Data.ID.String(), "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = send(http.MethodGet, "/categories/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = send(http.MethodGet, "/categories/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeBadRequest)
	})

	t.Run("list", func(t *testing.T) {
		w := send(http.MethodGet, "/categories", "")
		assert.Equal(t, http.StatusOK, w.Code)
		var list struct {
			Data []catalogapp.CategoryResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list.Data, 1)
	})

	t.Run("no caller", func(t *testing.T) {
		w := send(http.MethodGet, "/anonymous", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
