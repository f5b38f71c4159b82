package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	financeapp "github.com/dokan/papershop/internal/application/finance"
	"github.com/dokan/papershop/internal/infrastructure/persistence"
	"github.com/dokan/papershop/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountingHandler(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := financeapp.NewAccountingService(persistence.NewGormTransactionRepository(db), persistence.NewGormLedgerReader(db))
	h := NewAccountingHandler(svc)

	engine := gin.New()
	authed := engine.Group("/accounting", asCaller(uuid.New(), uuid.New()))
	authed.GET("/dashboard", h.Dashboard)
	authed.GET("/transactions/categories", h.Categories)
	authed.POST("/transactions", h.CreateTransaction)
	authed.GET("/transactions", h.ListTransactions)
	authed.GET("/transactions/:id", h.GetTransaction)

	send := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/accounting/transactions",
		`{"type":"expense","category":"salary","amount":"3000","description":"Salary for Rafiq","reference":"SAL-03","transaction_date":"2026-03-05T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data financeapp.TransactionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "2026-03-05", created.Data.TransactionDate)

	w = send(http.MethodPost, "/accounting/transactions",
		`{"type":"income","category":"other","amount":"50","description":"Scrap paper sold","transaction_date":"2026-03-04T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("type must be income or expense", func(t *testing.T) {
		w := send(http.MethodPost, "/accounting/transactions", `{"type":"transfer","category":"other","amount":"1","description":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"type"`)
	})

	t.Run("unknown category", func(t *testing.T) {
		w := send(http.MethodPost, "/accounting/transactions", `{"type":"income","category":"lottery","amount":"1","description":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CATEGORY")
	})

	t.Run("list filtered by type", func(t *testing.T) {
		w := send(http.MethodGet, "/accounting/transactions?type=expense", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var list struct {
			Data financeapp.TransactionPage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list.Data.Items, 1)
		assert.Equal(t, "Salary for Rafiq", list.Data.Items[0].Description)
		assert.Equal(t, "3000", list.Data.TotalExpense.String())
		assert.Contains(t, w.Body.String(), `"total":1`)
	})

	t.Run("list by date range", func(t *testing.T) {
		w := send(http.MethodGet, "/accounting/transactions?from=2026-03-04&to=2026-03-04", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "Scrap paper sold")
		assert.NotContains(t, w.Body.String(), "Salary for Rafiq")
	})

	t.Run("get", func(t *testing.T) {
		w := send(http.MethodGet, "/accounting/transactions/"+created.Data.ID.String(), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "SAL-03")

		w = send(http.MethodGet, "/accounting/transactions/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("categories", func(t *testing.T) {
		w := send(http.MethodGet, "/accounting/transactions/categories", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"value":"payment_made"`)
	})

	t.Run("dashboard", func(t *testing.T) {
		w := send(http.MethodGet, "/accounting/dashboard", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var dash struct {
			Data financeapp.DashboardResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
		assert.True(t, dash.Data.MonthlySales.IsZero())
		assert.Len(t, dash.Data.RecentTransactions, 2)
	})
}
