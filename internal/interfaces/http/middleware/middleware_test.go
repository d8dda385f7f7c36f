package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Josey34/multivendor-api-project/internal/config"
	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/Josey34/multivendor-api-project/internal/pkg/auth"
	"github.com/Josey34/multivendor-api-project/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWT() *auth.JWTManager {
	return auth.NewJWTManager(&config.Config{JWT: config.JWTConfig{
		Secret:             "middleware-test-secret-at-least-32-chars",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
	}})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	jwt := testJWT()
	vendorID := uint(9)

	r := gin.New()
	r.GET("/me", Auth(jwt), func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "vendor": identity.IsVendor()})
	})
	r.GET("/vendor", Auth(jwt), VendorOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	customer, err := jwt.GenerateAccessToken(auth.Subject{UserID: 1, Email: "c@example.com", Role: shared.RoleCustomer})
	require.NoError(t, err)
	vendor, err := jwt.GenerateAccessToken(auth.Subject{UserID: 2, Email: "v@example.com", Role: shared.RoleVendor, VendorID: &vendorID})
	require.NoError(t, err)
	refresh, err := jwt.GenerateRefreshToken(auth.Subject{UserID: 1, Role: shared.RoleCustomer})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer not-a-token", http.StatusUnauthorized},
		{"refresh token rejected", "/me", "Bearer " + refresh, http.StatusUnauthorized},
		{"customer", "/me", "Bearer " + customer, http.StatusOK},
		{"customer on vendor route", "/vendor", "Bearer " + customer, http.StatusForbidden},
		{"vendor on vendor route", "/vendor", "Bearer " + vendor, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

type mockRateStore struct {
	mock.Mock
}

func (m *mockRateStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Error(1)
}

func TestRateLimit(t *testing.T) {
	store := new(mockRateStore)
	store.On("Hit", mock.Anything, "rate_limit:192.0.2.1", time.Minute).Return(int64(2), nil).Once()
	store.On("Hit", mock.Anything, "rate_limit:192.0.2.1", time.Minute).Return(int64(3), nil).Once()
	store.On("Hit", mock.Anything, "rate_limit:192.0.2.1", time.Minute).Return(int64(0), errors.New("redis down")).Once()

	r := gin.New()
	r.GET("/", RateLimit(store, 2, logger.Discard()), func(c *gin.Context) { c.Status(http.StatusOK) })

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		return req
	}

	w := serve(r, newReq())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(r, newReq())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	w = serve(r, newReq())
	assert.Equal(t, http.StatusOK, w.Code, "an unavailable store lets requests through")

	store.AssertExpectations(t)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/", BodyLimit(16), func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BindingError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"a much longer value"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDeadline(t *testing.T) {
	r := gin.New()
	r.GET("/", Deadline(50*time.Millisecond), func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.SecurityConfig{
		CORSAllowedOrigins: []string{"https://shop.example.com", "*.example.org"},
		CORSAllowedMethods: []string{"GET", "POST"},
		CORSAllowedHeaders: []string{"Authorization"},
	}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Authorization, X-Request-ID", w.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://admin.example.org")
	w = serve(r, req)
	assert.Equal(t, "https://admin.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.Discard()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
	assert.NotContains(t, w.Body.String(), "boom")
}
