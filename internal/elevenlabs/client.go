package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
)

const (
	DefaultBaseURL      = "https://api.elevenlabs.io"
	DefaultModelID      = "music_v1"
	DefaultOutputFormat = "mp3_44100_128"

	planPath     = "/v1/music/plan"
	detailedPath = "/v1/music/detailed"

	apiKeyHeader     = "xi-api-key"
	maxErrorBodySize = 4096
)

// APIError is a non-2xx response from the music API. It is never retried.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("elevenlabs API error %d: %s", e.StatusCode, e.Body)
}

// UpstreamStatus returns the HTTP status the music API responded with
func (e *APIError) UpstreamStatus() int { return e.StatusCode }

// ComposeResult is the decoded detailed-compose response
type ComposeResult struct {
	Filename        string
	ContentType     string
	Audio           []byte
	CompositionPlan map[string]any
	SongMetadata    map[string]any
}

// Client calls the ElevenLabs music endpoints
type Client struct {
	apiKey       string
	baseURL      string
	modelID      string
	outputFormat string
	httpClient   *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API host
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithModelID overrides the music model
func WithModelID(modelID string) Option {
	return func(c *Client) {
		if modelID != "" {
			c.modelID = modelID
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a music API client. timeout bounds every request.
func NewClient(apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		modelID:      DefaultModelID,
		outputFormat: DefaultOutputFormat,
		httpClient:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type planRequest struct {
	Prompt        string `json:"prompt"`
	MusicLengthMs int    `json:"music_length_ms"`
	ModelID       string `json:"model_id"`
}

type composeRequest struct {
	CompositionPlan models.CompositionPlan `json:"composition_plan"`
	ModelID         string                 `json:"model_id"`
}

// CreatePlan asks the music API for a composition plan
func (c *Client) CreatePlan(ctx context.Context, prompt string, lengthMs int) (*models.CompositionPlan, error) {
	span := sentry.StartSpan(ctx, "elevenlabs.create_plan")
	defer span.Finish()

	resp, err := c.post(span.Context(), planPath, planRequest{
		Prompt:        prompt,
		MusicLengthMs: lengthMs,
		ModelID:       c.modelID,
	})
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	var plan models.CompositionPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode composition plan: %w", err)
	}
	plan.Normalize()

	log.Printf("🎼 ELEVENLABS PLAN: %d sections, %dms", len(plan.Sections), plan.TotalDurationMs())
	return &plan, nil
}

// ComposeDetailed renders audio for plan and returns the audio with its metadata
func (c *Client) ComposeDetailed(ctx context.Context, plan models.CompositionPlan) (*ComposeResult, error) {
	span := sentry.StartSpan(ctx, "elevenlabs.compose_detailed")
	defer span.Finish()

	path := detailedPath + "?output_format=" + c.outputFormat
	resp, err := c.post(span.Context(), path, composeRequest{
		CompositionPlan: plan,
		ModelID:         c.modelID,
	})
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	result, err := parseDetailedResponse(resp.Header.Get("Content-Type"), resp.Body)
	if err != nil {
		return nil, err
	}

	log.Printf("🎧 ELEVENLABS RENDER: %s (%d bytes)", result.Filename, len(result.Audio))
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Printf("📤 ELEVENLABS POST %s (%d bytes)", path, len(body))
	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ ELEVENLABS REQUEST FAILED after %v: %v", time.Since(startTime), err)
		return nil, fmt.Errorf("elevenlabs request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer closeBody(resp)
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		log.Printf("❌ ELEVENLABS %s returned %d after %v", path, resp.StatusCode, time.Since(startTime))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(errBody))}
	}

	log.Printf("⏱️  ELEVENLABS %s completed in %v", path, time.Since(startTime))
	return resp, nil
}

// parseDetailedResponse splits the multipart body into its JSON metadata part and audio part
func parseDetailedResponse(contentType string, body io.Reader) (*ComposeResult, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("invalid compose response content type %q: %w", contentType, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("unexpected compose response content type %q", mediaType)
	}

	result := &ComposeResult{}
	reader := multipart.NewReader(body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read compose response: %w", err)
		}

		partType := part.Header.Get("Content-Type")
		data, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("failed to read compose response part: %w", err)
		}

		if strings.Contains(partType, "json") {
			var meta struct {
				CompositionPlan map[string]any `json:"composition_plan"`
				SongMetadata    map[string]any `json:"song_metadata"`
			}
			if err := json.Unmarshal(data, &meta); err != nil {
				return nil, fmt.Errorf("failed to decode compose metadata: %w", err)
			}
			result.CompositionPlan = meta.CompositionPlan
			result.SongMetadata = meta.SongMetadata
			continue
		}

		result.Audio = data
		result.Filename = part.FileName()
		result.ContentType = partType
	}

	if len(result.Audio) == 0 {
		return nil, fmt.Errorf("compose response did not include audio")
	}
	if result.ContentType == "" || result.ContentType == "application/octet-stream" {
		result.ContentType = "audio/mpeg"
	}
	return result, nil
}

func closeBody(resp *http.Response) {
	if closeErr := resp.Body.Close(); closeErr != nil {
		log.Printf("⚠️  Failed to close response body: %v", closeErr)
	}
}
