package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	newRouter := func(origins ...string) *gin.Engine {
		router := gin.New()
		router.Use(CORS(config.HTTPConfig{CORSAllowOrigins: origins}))
		router.GET("/api/siniestros", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/siniestros", nil)
		req.Header.Set("Origin", "https://siniestros.example.com")
		rec := httptest.NewRecorder()
		newRouter("https://siniestros.example.com").ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://siniestros.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/siniestros", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		newRouter("https://siniestros.example.com").ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty list rejects cross origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/siniestros", nil)
		req.Header.Set("Origin", "https://siniestros.example.com")
		rec := httptest.NewRecorder()
		newRouter().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("requests without origin pass", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/siniestros", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("generated when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("propagated from client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("oversized header replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", MaxRequestIDLength+1))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestSecure(t *testing.T) {
	router := gin.New()
	router.Use(Secure(DefaultSecurityConfig()))
	router.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))

	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	hsts := gin.New()
	hsts.Use(Secure(cfg))
	hsts.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	rec = httptest.NewRecorder()
	hsts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}
