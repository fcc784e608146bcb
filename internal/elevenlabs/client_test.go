package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", 5*time.Second, WithBaseURL(server.URL))
}

func TestCreatePlan(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, planPath, r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get(apiKeyHeader))

		var body planRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "lofi beat", body.Prompt)
		assert.Equal(t, 30000, body.MusicLengthMs)
		assert.Equal(t, DefaultModelID, body.ModelID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"positive_global_styles": ["lofi"],
			"sections": [
				{"section_name": "intro", "duration_ms": 10000},
				{"section_name": "loop", "duration_ms": 20000, "lines": []}
			]
		}`))
	})

	plan, err := client.CreatePlan(context.Background(), "lofi beat", 30000)
	require.NoError(t, err)
	require.Len(t, plan.Sections, 2)
	assert.Equal(t, 30000, plan.TotalDurationMs())
	assert.Equal(t, []string{"lofi"}, plan.PositiveGlobalStyles)
	assert.NotNil(t, plan.NegativeGlobalStyles)
	assert.NotNil(t, plan.Sections[0].Lines)
}

func TestCreatePlanAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"rate limited"}`))
	})

	_, err := client.CreatePlan(context.Background(), "x", 30000)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.UpstreamStatus())
	assert.Contains(t, apiErr.Body, "rate limited")
}

func TestClientNeverRetries(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CreatePlan(context.Background(), "x", 30000)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func writeDetailedResponse(t *testing.T, w http.ResponseWriter, audio []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	jsonHeader := textproto.MIMEHeader{}
	jsonHeader.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(jsonHeader)
	require.NoError(t, err)
	_, _ = part.Write([]byte(`{"composition_plan":{"sections":[]},"song_metadata":{"title":"Night Drive"}}`))

	audioHeader := textproto.MIMEHeader{}
	audioHeader.Set("Content-Type", "audio/mpeg")
	audioHeader.Set("Content-Disposition", `attachment; filename="night_drive.mp3"`)
	part, err = mw.CreatePart(audioHeader)
	require.NoError(t, err)
	_, _ = part.Write(audio)
	require.NoError(t, mw.Close())

	w.Header().Set("Content-Type", "multipart/mixed; boundary="+mw.Boundary())
	_, _ = w.Write(buf.Bytes())
}

func TestComposeDetailed(t *testing.T) {
	audio := []byte("ID3-fake-audio")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, detailedPath, r.URL.Path)
		assert.Equal(t, DefaultOutputFormat, r.URL.Query().Get("output_format"))

		var body composeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.CompositionPlan.Sections, 1)

		writeDetailedResponse(t, w, audio)
	})

	plan := models.CompositionPlan{Sections: []models.PlanSection{{SectionName: "a", DurationMs: 5000}}}
	result, err := client.ComposeDetailed(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, audio, result.Audio)
	assert.Equal(t, "night_drive.mp3", result.Filename)
	assert.Equal(t, "audio/mpeg", result.ContentType)
	assert.Equal(t, "Night Drive", result.SongMetadata["title"])
	assert.NotNil(t, result.CompositionPlan)
}

func TestParseDetailedResponseRejectsNonMultipart(t *testing.T) {
	_, err := parseDetailedResponse("application/json", bytes.NewReader([]byte("{}")))
	assert.Error(t, err)
}

func TestParseDetailedResponseRequiresAudio(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, _ = part.Write([]byte(`{}`))
	require.NoError(t, mw.Close())

	_, err = parseDetailedResponse("multipart/mixed; boundary="+mw.Boundary(), &buf)
	assert.Error(t, err)
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewClient("k", time.Second).Configured())
	assert.False(t, NewClient("", time.Second).Configured())
	var nilClient *Client
	assert.False(t, nilClient.Configured())
}

func TestOptions(t *testing.T) {
	c := NewClient("k", time.Second, WithBaseURL("https://example.test/"), WithModelID("music_v2"), WithModelID(""))
	assert.Equal(t, "https://example.test", c.baseURL)
	assert.Equal(t, "music_v2", c.modelID)
}
