package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(mw...)
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return engine
}

func TestRequestID(t *testing.T) {
	t.Run("generates an ID when absent", func(t *testing.T) {
		engine := newEngine(RequestID())
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.NotEmpty(t, recorder.Header().Get(RequestIDHeader))
	})

	t.Run("honors a caller-provided ID", func(t *testing.T) {
		engine := newEngine(RequestID())
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "caller-id")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, "caller-id", recorder.Header().Get(RequestIDHeader))
	})

	t.Run("replaces an oversized ID", func(t *testing.T) {
		engine := newEngine(RequestID())
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		got := recorder.Header().Get(RequestIDHeader)
		require.NotEmpty(t, got)
		assert.NotContains(t, got, "xxx")
	})
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://app.example.com"}

	t.Run("preflight from allowed origin", func(t *testing.T) {
		engine := newEngine(CORSWithConfig(cfg))
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://app.example.com")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, "https://app.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight from unknown origin gets no CORS headers", func(t *testing.T) {
		engine := newEngine(CORSWithConfig(cfg))
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request from allowed origin", func(t *testing.T) {
		engine := newEngine(CORSWithConfig(cfg))
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://app.example.com")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "https://app.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("empty origin list rejects cross-origin silently", func(t *testing.T) {
		engine := newEngine(CORS())
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://app.example.com")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard origin without credentials header", func(t *testing.T) {
		wildcard := DefaultCORSConfig()
		wildcard.AllowOrigins = []string{"*"}
		engine := newEngine(CORSWithConfig(wildcard))
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestSecure(t *testing.T) {
	engine := newEngine(Secure())
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, recorder.Header().Get("Content-Security-Policy"))
}
