package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORSAllowsCredentialedOrigin(t *testing.T) {
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/children", nil)
	req.Header.Set("Origin", "http://127.0.0.1:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://127.0.0.1:5500", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://elsewhere.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetUserIDWithoutSession(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Zero(t, GetUserID(c))
	assert.Empty(t, GetSessionID(c))

	c.Set(ContextKeyUserID, uint(7))
	c.Set(ContextKeySessionID, "sid")
	assert.Equal(t, uint(7), GetUserID(c))
	assert.Equal(t, "sid", GetSessionID(c))
}

func TestMetricsUseRouteTemplate(t *testing.T) {
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/api/children/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	templated := metrics.RequestTotal.WithLabelValues(http.MethodGet, "/api/children/:id", "204")
	unmatched := metrics.RequestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	beforeTemplated := testutil.ToFloat64(templated)
	beforeUnmatched := testutil.ToFloat64(unmatched)

	for _, path := range []string{"/api/children/7", "/api/children/8", "/nope/9"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, beforeTemplated+2, testutil.ToFloat64(templated))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
	assert.Zero(t, testutil.ToFloat64(metrics.RequestTotal.WithLabelValues(http.MethodGet, "/api/children/7", "204")))
}
