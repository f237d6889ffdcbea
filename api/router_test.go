package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TETRIX8/youtubesave/api/middleware"
	"github.com/TETRIX8/youtubesave/internal/app"
	"github.com/TETRIX8/youtubesave/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingExtractor struct {
	calls int
}

func (e *countingExtractor) Name() string                  { return "yt-dlp" }
func (e *countingExtractor) LookupBinary() (string, error) { return "/usr/bin/yt-dlp", nil }

func (e *countingExtractor) ExtractInfo(ctx context.Context, url string) (*domain.RawInfo, error) {
	e.calls++
	return &domain.RawInfo{ID: "abc123", Title: "Sample"}, nil
}

func (e *countingExtractor) ExtractAndFetch(ctx context.Context, url string, opts domain.FetchOptions) (*domain.RawInfo, error) {
	e.calls++
	return nil, &domain.ExtractionError{Op: "download", Message: "ERROR: unavailable"}
}

func (e *countingExtractor) ExpectedFilename(ctx context.Context, url string, opts domain.FetchOptions) (string, error) {
	return "", nil
}

func newTestRouter(t *testing.T, limiter middleware.RateLimiter, trustedProxies ...string) (*gin.Engine, *countingExtractor) {
	t.Helper()
	extractor := &countingExtractor{}
	history := app.NewHistoryRecorder(nil, nil)
	router := SetupRouter(Dependencies{
		Metadata:    app.NewMetadataService(extractor, history, nil),
		Downloads:   app.NewDownloadService(extractor, &domain.DownloadConfig{TempDir: t.TempDir(), TitleByteLimit: 200}, history, nil),
		History:     history,
		Probe:       extractor,
		Version:     "test",
		RateLimiter: limiter,

		TrustedProxies: trustedProxies,
	})
	return router, extractor
}

func serveFrom(router http.Handler, forwardedFor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/info", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.Header.Set("X-Real-IP", forwardedFor)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_IndexAndStatic(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := serve(router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/static/app.js")

	w = serve(router, http.MethodGet, "/static/app.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/info")
}

func TestRouter_Routes(t *testing.T) {
	router, extractor := newTestRouter(t, nil)

	w := serve(router, http.MethodPost, "/api/info", `{"url":"https://youtu.be/abc123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(router, http.MethodGet, "/download?url=https://youtu.be/abc123&format_id=22", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"ERROR: unavailable"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(router, http.MethodGet, "/api/history", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/unknown", "").Code)
	assert.Equal(t, 2, extractor.calls)
}

func TestRouter_Preflight(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := serve(router, http.MethodOptions, "/api/info", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_RateLimitsExtractionRoutes(t *testing.T) {
	router, extractor := newTestRouter(t, middleware.NewIPRateLimiter(1, time.Hour, 1, time.Hour))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/info", `{"url":"https://youtu.be/a"}`).Code)

	w := serve(router, http.MethodPost, "/api/info", `{"url":"https://youtu.be/a"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, 1, extractor.calls)

	// separate bucket per route
	assert.NotEqual(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/download?url=x&format_id=1", "").Code)

	// health is never limited
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
	}
}

func TestRouter_ForwardedForIgnoredByDefault(t *testing.T) {
	router, extractor := newTestRouter(t, middleware.NewIPRateLimiter(1, time.Hour, 1, time.Hour))
	body := `{"url":"https://youtu.be/a"}`

	assert.Equal(t, http.StatusOK, serveFrom(router, "203.0.113.1", body).Code)

	// every request comes from the same peer whatever the header claims
	for _, spoofed := range []string{"203.0.113.2", "198.51.100.7", "10.0.0.1"} {
		w := serveFrom(router, spoofed, body)
		assert.Equal(t, http.StatusTooManyRequests, w.Code, spoofed)
	}
	assert.Equal(t, 1, extractor.calls)
}

func TestRouter_ForwardedForFromTrustedProxy(t *testing.T) {
	// httptest requests arrive from 192.0.2.1
	router, extractor := newTestRouter(t, middleware.NewIPRateLimiter(1, time.Hour, 1, time.Hour), "192.0.2.0/24")
	body := `{"url":"https://youtu.be/a"}`

	assert.Equal(t, http.StatusOK, serveFrom(router, "203.0.113.1", body).Code)
	assert.Equal(t, http.StatusOK, serveFrom(router, "203.0.113.2", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(router, "203.0.113.1", body).Code)
	assert.Equal(t, 2, extractor.calls)
}

func TestRouter_InvalidTrustedProxiesTrustNoOne(t *testing.T) {
	router, _ := newTestRouter(t, middleware.NewIPRateLimiter(1, time.Hour, 1, time.Hour), "not-an-ip")
	body := `{"url":"https://youtu.be/a"}`

	assert.Equal(t, http.StatusOK, serveFrom(router, "203.0.113.1", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(router, "203.0.113.2", body).Code)
}
