package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dokan/papershop/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "papershop-test", Env: "test", Port: "0"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"},
		JWT: config.JWTConfig{
			Secret:                 "test-secret-key-for-end-to-end-tests",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "papershop-test",
			MaxRefreshCount:        10,
		},
		Log:    config.LogConfig{SQLLevel: "silent"},
		HTTP:   config.HTTPConfig{MaxBodySize: 1 << 20},
		Ledger: config.LedgerConfig{MaxRetries: 3, DefaultReorderLevel: 10, IdempotencyTTL: time.Hour, CashFlowLockTTL: 5 * time.Second},
	}
}

type client struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestClient(t *testing.T) *client {
	t.Helper()
	a, err := newApp(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return &client{t: t, engine: a.engine}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (c *client) do(method, path, token string, body any, headers ...string) (int, envelope) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type loginData struct {
	Token struct {
		AccessToken string `json:"access_token"`
	} `json:"token"`
}

type idData struct {
	ID string `json:"id"`
}

func (c *client) register() string {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"shop_name": "Dokan Paper House",
		"username":  "owner1",
		"password":  "paper1234",
	})
	require.Equal(c.t, http.StatusCreated, status)
	return decode[loginData](c.t, env).Token.AccessToken
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), "database")
}

func TestAPI_RequiresToken(t *testing.T) {
	c := newTestClient(t)

	status, env := c.do(http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestAPI_TradeFlow(t *testing.T) {
	c := newTestClient(t)
	token := c.register()

	productBody := map[string]any{
		"name":          "A4 Offset Paper 80gsm",
		"buying_price":  "400",
		"selling_price": "550",
	}
	status, env := c.do(http.MethodPost, "/api/v1/products", token, productBody, "Idempotency-Key", "product-1")
	require.Equal(t, http.StatusCreated, status)
	productID := decode[idData](t, env).ID
	require.NotEmpty(t, productID)

	t.Run("replayed create is rejected", func(t *testing.T) {
		status, env := c.do(http.MethodPost, "/api/v1/products", token, productBody, "Idempotency-Key", "product-1")
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "DUPLICATE_REQUEST", env.Error.Code)
	})

	status, _ = c.do(http.MethodPost, "/api/v1/purchases", token, map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": "10"}},
		"paid_amount":    "4000",
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env = c.do(http.MethodPost, "/api/v1/sales", token, map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": "2"}},
		"paid_amount":    "1100",
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, status)
	sale := decode[struct {
		InvoiceNumber string          `json:"invoice_number"`
		GrandTotal    decimal.Decimal `json:"grand_total"`
		DueAmount     decimal.Decimal `json:"due_amount"`
		PaymentStatus string          `json:"payment_status"`
	}](t, env)
	assert.Regexp(t, `^INV-\d{8}-\d{4}$`, sale.InvoiceNumber)
	assert.True(t, sale.GrandTotal.Equal(decimal.NewFromInt(1100)), sale.GrandTotal.String())
	assert.True(t, sale.DueAmount.IsZero())
	assert.Equal(t, "paid", sale.PaymentStatus)

	t.Run("selling more than on hand fails", func(t *testing.T) {
		status, env := c.do(http.MethodPost, "/api/v1/sales", token, map[string]any{
			"items":       []map[string]any{{"product_id": productID, "quantity": "50"}},
			"paid_amount": "0",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.NotNil(t, env.Error)
	})

	status, env = c.do(http.MethodGet, "/api/v1/reports/profit-loss", token, nil)
	require.Equal(t, http.StatusOK, status)
	pl := decode[struct {
		TotalSales  decimal.Decimal `json:"total_sales"`
		GrossProfit decimal.Decimal `json:"gross_profit"`
	}](t, env)
	assert.True(t, pl.TotalSales.Equal(decimal.NewFromInt(1100)), pl.TotalSales.String())
	assert.True(t, pl.GrossProfit.Equal(decimal.NewFromInt(300)), pl.GrossProfit.String())

	status, env = c.do(http.MethodGet, "/api/v1/inventory/products/"+productID, token, nil)
	require.Equal(t, http.StatusOK, status)
	stock := decode[struct {
		Quantity decimal.Decimal `json:"quantity"`
	}](t, env)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(8)), stock.Quantity.String())
}

func TestAPI_StaffCannotReachReports(t *testing.T) {
	c := newTestClient(t)
	token := c.register()

	status, _ := c.do(http.MethodPost, "/api/v1/users", token, map[string]any{
		"username": "cashier1",
		"password": "counter123",
		"role":     "staff",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := c.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "cashier1",
		"password": "counter123",
	})
	require.Equal(t, http.StatusOK, status)
	staffToken := decode[loginData](t, env).Token.AccessToken

	status, env = c.do(http.MethodGet, "/api/v1/reports/profit-loss", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, _ = c.do(http.MethodGet, "/api/v1/products", staffToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodPost, "/api/v1/products", staffToken, map[string]any{
		"name": "Stapler", "buying_price": "100", "selling_price": "150",
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_LogoutRevokesToken(t *testing.T) {
	c := newTestClient(t)
	token := c.register()

	status, _ := c.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodPost, "/api/v1/auth/logout", token, map[string]any{})
	require.Equal(t, http.StatusNoContent, status)

	status, env := c.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "TOKEN_REVOKED", env.Error.Code)
}

func TestServer_SwaggerDocument(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.SwaggerEnabled = true
	a, err := newApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Paths map[string]map[string]struct {
			Security []map[string][]string `json:"security"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Contains(t, doc.Paths, "/api/v1/sales/{id}")
	require.Contains(t, doc.Paths, "/api/v1/accounting/dashboard")
	assert.NotEmpty(t, doc.Paths["/api/v1/sales"]["post"].Security)
	assert.Empty(t, doc.Paths["/api/v1/auth/login"]["post"].Security)
}
