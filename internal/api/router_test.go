package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/music-prompt-api/internal/api/handlers"
	"github.com/Conceptual-Machines/music-prompt-api/internal/config"
	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
	"github.com/Conceptual-Machines/music-prompt-api/internal/services"
	"github.com/Conceptual-Machines/music-prompt-api/internal/storage"
)

var vocalWords = regexp.MustCompile(`(?i)\b(lyrics?|vocals?|sing|singing|sung|singer)\b`)

func newRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	return SetupRouter(cfg, Services{
		Prompt:    services.NewPromptService(nil, "", time.Second, nil, nil),
		Plan:      services.NewPlanService(config.ProviderElevenLabs, nil, nil, "", time.Second, nil, nil),
		Render:    services.NewRenderService(nil, store, time.Second, nil),
		Providers: handlers.ProviderStatus{Storage: store.Name()},
	}, "test")
}

func post(t *testing.T, router *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBrandHookScenario(t *testing.T) {
	router := newRouter(t, &config.Config{CORSOrigins: []string{"*"}})

	w := post(t, router, "/prompt", `{
		"project_blueprint": "ad_brand_fast_hook",
		"sound_profile": "bright_pop_electro",
		"delivery_and_control": "balanced_studio"
	}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.PromptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, w.Header().Get("X-Request-ID"), resp.RequestID)
	assert.Regexp(t, `\b(11\d|12[0-5]) BPM\b`, resp.Prompt)
	assert.Contains(t, resp.Prompt, "E major")
	assert.False(t, vocalWords.MatchString(resp.Prompt))
	assert.Regexp(t, "^Bright Pop Electro Brand Hook\n\n```text\n(?s).*\n```$", resp.Prompt)
}

func TestPodcastInstrumentalScenario(t *testing.T) {
	router := newRouter(t, &config.Config{})

	w := post(t, router, "/prompt", `{
		"project_blueprint": "podcast_voiceover_loop",
		"sound_profile": "lofi_cozy",
		"delivery_and_control": "exploratory_iterate",
		"instrumental_only": true
	}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.PromptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, vocalWords.MatchString(resp.Prompt), resp.Prompt)
	require.NotNil(t, resp.InputParameters.InstrumentalOnly)
	assert.True(t, *resp.InputParameters.InstrumentalOnly)
}

func TestGatewayModeProtectsGenerationRoutes(t *testing.T) {
	router := newRouter(t, &config.Config{AuthMode: "gateway"})

	w := post(t, router, "/prompt", `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(t, router, "/prompt", `{}`, map[string]string{"X-User-ID": "7"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/presets", nil))
	assert.Equal(t, http.StatusOK, w.Code, "catalog stays public")
}

func TestUnconfiguredProvidersReport503(t *testing.T) {
	router := newRouter(t, &config.Config{})

	w := post(t, router, "/plan", `{"prompt": "x"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = post(t, router, "/render", `{"sections": [{"section_name": "a", "duration_ms": 30000}]}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInfoAndProbes(t *testing.T) {
	router := newRouter(t, &config.Config{})

	for _, path := range []string{"/", "/ready", "/alive", "/api/metrics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), `"/render/stream/:filename"`)
}

func TestDownloadServesStoredRender(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	_, err = store.Save(t.Context(), "song.mp3", "audio/mpeg", []byte("0123456789"))
	require.NoError(t, err)

	router := SetupRouter(&config.Config{}, Services{
		Prompt: services.NewPromptService(nil, "", time.Second, nil, nil),
		Plan:   services.NewPlanService(config.ProviderElevenLabs, nil, nil, "", time.Second, nil, nil),
		Render: services.NewRenderService(nil, store, time.Second, nil),
	}, "test")

	req := httptest.NewRequest(http.MethodGet, "/render/stream/song.mp3", nil)
	req.Header.Set("Range", "bytes=2-5")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "2345", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/render/download/..%2F..%2Fetc%2Fpasswd", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
