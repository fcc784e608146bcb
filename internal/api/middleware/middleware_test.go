package middleware

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiRecorder struct {
	endpoint string
	status   int
}

func (r *apiRecorder) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, _ time.Duration) {
	r.endpoint, r.status = endpoint, statusCode
}
func (r *apiRecorder) RecordProviderCall(context.Context, string, string, time.Duration, bool) {}
func (r *apiRecorder) RecordTokenUsage(context.Context, string, string, int, int)              {}
func (r *apiRecorder) RecordRenderBytes(context.Context, int64)                                {}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString("request_id"), "user": callerOf(c)})
	})
	r.POST("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestRequestTrackingGeneratesID(t *testing.T) {
	rec := &apiRecorder{}
	r := newEngine(RequestTracking(rec))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Contains(t, w.Body.String(), id)
	assert.Equal(t, "/ping", rec.endpoint)
	assert.Equal(t, http.StatusOK, rec.status)
}

func TestRequestTrackingReusesUpstreamID(t *testing.T) {
	r := newEngine(RequestTracking(nil))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "gateway-req-12345")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "gateway-req-12345", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "bad id with spaces")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "bad id with spaces", w.Header().Get(RequestIDHeader))
}

func TestRequestTrackingLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	r := newEngine(RequestTracking(nil))
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(RequestIDHeader, "gateway-req-67890")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "[WARN] Request failed with client error")
	assert.Contains(t, out, "request_id=gateway-req-67890")
	assert.Contains(t, out, "status_code=404")
	assert.Contains(t, out, "path=/missing")
}

func TestRecoverWithSentry(t *testing.T) {
	r := newEngine(RequestTracking(nil), RecoverWithSentry())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"internal_error"`)
	assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS([]string{"https://app.example"}))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcard(t *testing.T) {
	r := newEngine(CORS([]string{"*"}))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://anything.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGatewayAuth(t *testing.T) {
	r := newEngine(GatewayAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-User-ID", "42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"42"`)
}

func TestNoAuth(t *testing.T) {
	r := newEngine(NoAuth())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Contains(t, w.Body.String(), `"user":"anonymous"`)
}

func callerOf(c *gin.Context) string {
	id, _ := CallerID(c)
	return id
}

func TestCallerIDUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CallerID(c)
	assert.False(t, ok)
}

func TestResolveRequestID(t *testing.T) {
	assert.Equal(t, "upstream-1234", resolveRequestID("upstream-1234"))
	assert.Len(t, resolveRequestID("short"), 36)
	assert.Len(t, resolveRequestID("bad id with spaces"), 36)
	assert.Len(t, resolveRequestID(""), 36)
}
