package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Josey34/multivendor-api-project/internal/domain/order"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	apihttp "github.com/Josey34/multivendor-api-project/internal/interfaces/http"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/routes"
	"github.com/Josey34/multivendor-api-project/internal/pkg/auth"
	"github.com/Josey34/multivendor-api-project/internal/pkg/logger"
	"github.com/Josey34/multivendor-api-project/internal/testutil"
	"github.com/Josey34/multivendor-api-project/internal/testutil/fixtures"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockInvoiceRenderer struct {
	mock.Mock
}

func (m *mockInvoiceRenderer) GenerateInvoice(o *order.Order) ([]byte, error) {
	args := m.Called(o)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    shared.ErrorCode  `json:"code"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Meta    *shared.PageMeta  `json:"meta"`
}

type api struct {
	t        *testing.T
	handler  http.Handler
	db       *gorm.DB
	jwt      *auth.JWTManager
	invoices *mockInvoiceRenderer
}

func newAPI(t *testing.T, checks map[string]apihttp.HealthCheck) *api {
	t.Helper()

	cfg := fixtures.Config()
	cfg.App.Environment = "test"
	cfg.JWT.Secret = "server-test-secret-with-at-least-32-chars"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.BcryptCost = 4
	cfg.Security.CORSAllowedOrigins = []string{"*"}
	cfg.Server.MaxBodyBytes = 1 << 20
	cfg.Server.RequestTimeout = 5 * time.Second

	db := testutil.NewDB(t, fixtures.CommerceModels()...)
	invoices := new(mockInvoiceRenderer)

	srv := apihttp.NewServer(routes.Dependencies{
		Config:   cfg,
		DB:       db,
		Invoices: invoices,
	}, logger.Discard(), apihttp.Options{Checks: checks})

	return &api{t: t, handler: srv.Handler(), db: db, jwt: auth.NewJWTManager(cfg), invoices: invoices}
}

func (a *api) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "application/pdf" && w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *api) vendorToken(t *testing.T) (string, uint) {
	t.Helper()
	u, v := fixtures.Vendor(t, a.db)
	vendorID := v.ID
	token, err := a.jwt.GenerateAccessToken(auth.Subject{UserID: u.ID, Email: u.Email, Role: shared.RoleVendor, VendorID: &vendorID})
	require.NoError(t, err)
	return token, v.ID
}

func decode(t *testing.T, raw json.RawMessage, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dest), string(raw))
}

type orderJSON struct {
	OrderNumber   string          `json:"order_number"`
	CheckoutGroup string          `json:"checkout_group"`
	VendorID      uint            `json:"vendor_id"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
}

func TestCheckoutFlow(t *testing.T) {
	a := newAPI(t, nil)

	w, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Dewi Lestari",
		"email":    "dewi@example.com",
		"password": "Str0ng!Batik#9x",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decode(t, env.Data, &registered)
	customer := registered.AccessToken

	vendorA, vendorAID := a.vendorToken(t)
	vendorB, vendorBID := a.vendorToken(t)
	shirt := fixtures.Product(t, a.db, vendorAID, "50.00", fixtures.WithStock(5))
	scarf := fixtures.Product(t, a.db, vendorBID, "30.00", fixtures.WithStock(5))

	w, env = a.do(http.MethodPost, "/api/v1/addresses", customer, map[string]interface{}{
		"full_name":      "Dewi Lestari",
		"phone":          "081234567890",
		"address_line_1": "Jl. Braga 10",
		"city":           "Bandung",
		"state":          "Jawa Barat",
		"postal_code":    "40111",
		"country":        "Indonesia",
		"type":           "both",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var address struct {
		ID        uint `json:"id"`
		IsDefault bool `json:"is_default"`
	}
	decode(t, env.Data, &address)
	assert.True(t, address.IsDefault, "first address becomes the default")

	w, env = a.do(http.MethodGet, "/api/v1/addresses/default", customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var defaultAddress struct {
		ID uint `json:"id"`
	}
	decode(t, env.Data, &defaultAddress)
	assert.Equal(t, address.ID, defaultAddress.ID)

	for _, line := range []struct {
		productID uint
		qty       int
	}{{shirt.ID, 2}, {scarf.ID, 1}} {
		w, _ = a.do(http.MethodPost, "/api/v1/cart/items", customer, map[string]interface{}{
			"product_id": line.productID,
			"quantity":   line.qty,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, env = a.do(http.MethodGet, "/api/v1/checkout/summary", customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary struct {
		Total decimal.Decimal `json:"total"`
	}
	decode(t, env.Data, &summary)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("163")), summary.Total.String())

	w, env = a.do(http.MethodPost, "/api/v1/checkout", customer, map[string]interface{}{
		"shipping_address_id": address.ID,
		"payment_method":      "cod",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed []orderJSON
	decode(t, env.Data, &placed)
	require.Len(t, placed, 2)
	assert.Equal(t, vendorAID, placed[0].VendorID)
	assert.True(t, placed[0].Total.Equal(decimal.RequireFromString("120")))
	assert.True(t, placed[1].Total.Equal(decimal.RequireFromString("43")))
	assert.Equal(t, placed[0].CheckoutGroup, placed[1].CheckoutGroup)
	assert.Equal(t, "unpaid", placed[0].PaymentStatus)
	assert.Zero(t, fixtures.CartSize(t, a.db, registered.User.ID))

	w, env = a.do(http.MethodPost, "/api/v1/checkout", customer, map[string]interface{}{
		"shipping_address_id": address.ID,
		"payment_method":      "cod",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, shared.CodeEmptyCart, env.Code)

	w, env = a.do(http.MethodGet, "/api/v1/orders?per_page=1", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(2), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.LastPage)

	// vendor A sees only its own order and moves it along
	w, env = a.do(http.MethodGet, "/api/v1/vendor/orders", vendorA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vendorOrders []orderJSON
	decode(t, env.Data, &vendorOrders)
	require.Len(t, vendorOrders, 1)
	assert.Equal(t, placed[0].OrderNumber, vendorOrders[0].OrderNumber)

	w, _ = a.do(http.MethodGet, "/api/v1/vendor/orders/"+placed[1].OrderNumber, vendorA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "another vendor's order reads as missing")

	w, env = a.do(http.MethodPut, "/api/v1/vendor/orders/"+placed[0].OrderNumber+"/status", vendorA, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, shared.CodeInvalidTransition, env.Code)

	w, env = a.do(http.MethodPut, "/api/v1/vendor/orders/"+placed[0].OrderNumber+"/status", vendorA, map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated orderJSON
	decode(t, env.Data, &updated)
	assert.Equal(t, "processing", updated.Status)

	w, env = a.do(http.MethodPost, "/api/v1/orders/"+placed[0].OrderNumber+"/cancel", customer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Cannot cancel order. Order is already processing", env.Message)

	w, env = a.do(http.MethodPost, "/api/v1/orders/"+placed[1].OrderNumber+"/cancel", customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env.Data, &updated)
	assert.Equal(t, "cancelled", updated.Status)
	assert.Equal(t, 5, fixtures.Reload(t, a.db, scarf.ID).StockQuantity)

	w, env = a.do(http.MethodGet, "/api/v1/vendor/orders/statistics", vendorA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats order.Statistics
	decode(t, env.Data, &stats)
	assert.Equal(t, int64(1), stats.ProcessingOrders)

	w, env = a.do(http.MethodGet, fmt.Sprintf("/api/v1/vendor/products/%d/stock-movements", shirt.ID), vendorA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), env.Meta.Total)

	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/vendor/products/%d/stock-movements", shirt.ID), vendorB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodGet, "/api/v1/vendor/orders", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVendorProductLifecycle(t *testing.T) {
	a := newAPI(t, nil)
	vendor, _ := a.vendorToken(t)
	otherVendor, _ := a.vendorToken(t)
	category := fixtures.Category(t, a.db, "Batik")
	brand := fixtures.Brand(t, a.db, "Parang")

	w, env := a.do(http.MethodPost, "/api/v1/vendor/products", vendor, map[string]interface{}{
		"category_id":    category.ID,
		"brand_id":       brand.ID,
		"name":           "Batik Shirt",
		"description":    "Hand-stamped cotton batik",
		"price":          "120.00",
		"stock_quantity": 6,
		"is_featured":    true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID            uint   `json:"id"`
		Slug          string `json:"slug"`
		StockQuantity int    `json:"stock_quantity"`
		StockStatus   string `json:"stock_status"`
	}
	decode(t, env.Data, &created)
	assert.Equal(t, "batik-shirt", created.Slug)
	assert.Equal(t, 6, created.StockQuantity)
	assert.Equal(t, "in_stock", created.StockStatus)
	productPath := fmt.Sprintf("/api/v1/vendor/products/%d", created.ID)

	w, env = a.do(http.MethodPost, "/api/v1/vendor/products", vendor, map[string]interface{}{"name": "No price"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Errors, "price")

	w, env = a.do(http.MethodPut, productPath, vendor, map[string]interface{}{"stock_quantity": 20})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env.Data, &created)
	assert.Equal(t, 20, created.StockQuantity)

	w, env = a.do(http.MethodGet, productPath+"/stock-movements", vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var movements []struct {
		MovementType string `json:"movement_type"`
		Reason       string `json:"reason"`
		Quantity     int    `json:"quantity"`
	}
	decode(t, env.Data, &movements)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, "adjustment", m.Reason)
		assert.Equal(t, "inbound", m.MovementType)
	}

	w, env = a.do(http.MethodGet, "/api/v1/products?is_featured=true", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), env.Meta.Total)

	w, env = a.do(http.MethodGet, "/api/v1/brands/"+brand.Slug, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Name         string `json:"name"`
		ProductCount int64  `json:"product_count"`
	}
	decode(t, env.Data, &summary)
	assert.Equal(t, "Parang", summary.Name)
	assert.Equal(t, int64(1), summary.ProductCount)

	w, _ = a.do(http.MethodGet, "/api/v1/brands", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodPut, productPath, otherVendor, map[string]interface{}{"name": "Mine now"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = a.do(http.MethodDelete, productPath, otherVendor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(http.MethodGet, "/api/v1/vendor/products?is_active=maybe", vendor, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Errors, "is_active")

	w, _ = a.do(http.MethodDelete, productPath, vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = a.do(http.MethodGet, "/api/v1/vendor/products", vendor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), env.Meta.Total)

	customer := fixtures.Customer(t, a.db)
	customerToken, err := a.jwt.GenerateAccessToken(auth.Subject{UserID: customer.ID, Email: customer.Email, Role: shared.RoleCustomer})
	require.NoError(t, err)
	w, _ = a.do(http.MethodGet, "/api/v1/vendor/products", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvoiceDownload(t *testing.T) {
	a := newAPI(t, nil)
	customer := fixtures.Customer(t, a.db)
	customerToken, err := a.jwt.GenerateAccessToken(auth.Subject{UserID: customer.ID, Email: customer.Email, Role: shared.RoleCustomer})
	require.NoError(t, err)

	_, vendorID := a.vendorToken(t)
	otherVendor, _ := a.vendorToken(t)
	addr := fixtures.Address(t, a.db, customer.ID)
	fixtures.CartLine(t, a.db, customer.ID, fixtures.Product(t, a.db, vendorID, "25.00"), 1)

	w, env := a.do(http.MethodPost, "/api/v1/checkout", customerToken, map[string]interface{}{
		"shipping_address_id": addr.ID,
		"payment_method":      "bank_transfer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed []orderJSON
	decode(t, env.Data, &placed)
	require.Len(t, placed, 1)
	number := placed[0].OrderNumber

	a.invoices.On("GenerateInvoice", mock.MatchedBy(func(o *order.Order) bool {
		return o.OrderNumber == number && len(o.Items) == 1
	})).Return([]byte("%PDF-1.4 test"), nil).Once()

	w, _ = a.do(http.MethodGet, "/api/v1/orders/"+number+"/invoice", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-`+number+`.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 test", w.Body.String())

	w, _ = a.do(http.MethodGet, "/api/v1/orders/"+number+"/invoice", otherVendor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	a.invoices.On("GenerateInvoice", mock.Anything).Return(nil, errors.New("wkhtmltopdf: exit status 1")).Once()
	w, env = a.do(http.MethodGet, "/api/v1/orders/"+number+"/invoice", customerToken, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred", env.Message)
	assert.NotContains(t, w.Body.String(), "wkhtmltopdf")

	a.invoices.AssertExpectations(t)
}

func TestRequestValidation(t *testing.T) {
	a := newAPI(t, nil)
	customer := fixtures.Customer(t, a.db)
	token, err := a.jwt.GenerateAccessToken(auth.Subject{UserID: customer.ID, Email: customer.Email, Role: shared.RoleCustomer})
	require.NoError(t, err)

	w, env := a.do(http.MethodPost, "/api/v1/checkout", token, map[string]interface{}{
		"shipping_address_id": 1,
		"payment_method":      "cheque",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Errors, "payment_method")

	w, env = a.do(http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{"quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "This field is required", env.Errors["product_id"])

	w, env = a.do(http.MethodPut, "/api/v1/cart/items/abc", token, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cart item not found", env.Message)

	w, _ = a.do(http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = a.do(http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestHealthAndReadiness(t *testing.T) {
	a := newAPI(t, map[string]apihttp.HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("dial tcp: connection refused") },
	})

	w, _ := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, _ = a.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "unavailable"}, body.Checks)
}
