package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Conceptual-Machines/music-prompt-api/internal/elevenlabs"
	"github.com/Conceptual-Machines/music-prompt-api/internal/logger"
	"github.com/Conceptual-Machines/music-prompt-api/internal/metrics"
	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
	"github.com/Conceptual-Machines/music-prompt-api/internal/storage"
)

const renderProviderName = "elevenlabs"

// Composer renders a composition plan to audio
type Composer interface {
	ComposeDetailed(ctx context.Context, plan models.CompositionPlan) (*elevenlabs.ComposeResult, error)
}

// RenderResult is a stored render
type RenderResult struct {
	Object          storage.Object
	URL             string
	CompositionPlan map[string]any
	SongMetadata    map[string]any
}

// RenderService renders plans and serves stored audio
type RenderService struct {
	composer Composer
	store    storage.Store
	timeout  time.Duration
	metrics  metrics.Recorder
}

// NewRenderService creates a render service. composer may be nil when no key is configured.
func NewRenderService(composer Composer, store storage.Store, timeout time.Duration, recorder metrics.Recorder) *RenderService {
	if recorder == nil {
		recorder = metrics.Combine()
	}
	return &RenderService{
		composer: composer,
		store:    store,
		timeout:  timeout,
		metrics:  recorder,
	}
}

// Configured reports whether renders can be produced
func (s *RenderService) Configured() bool {
	return s.composer != nil
}

// Render composes plan and stores the audio
func (s *RenderService) Render(ctx context.Context, plan models.CompositionPlan) (*RenderResult, error) {
	if s.composer == nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, renderProviderName)
	}

	callCtx, cancel := detach(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	composed, err := s.composer.ComposeDetailed(callCtx, plan)
	duration := time.Since(start)
	s.metrics.RecordProviderCall(ctx, renderProviderName, "compose", duration, err == nil)
	logger.LogProviderCall(ctx, renderProviderName, "compose", duration, err, logger.Fields{
		"sections": len(plan.Sections),
	})
	if err != nil {
		return nil, err
	}

	name := renderFilename(composed.Filename, composed.ContentType)
	// The provider call is paid for; storing uses the detached context too
	obj, err := s.store.Save(callCtx, name, composed.ContentType, composed.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to store render: %w", err)
	}
	s.metrics.RecordRenderBytes(ctx, obj.Size)

	url, err := s.store.URL(callCtx, obj.Name)
	if err != nil {
		logger.Warn("Failed to build direct render URL", logger.Fields{"filename": obj.Name, "error": err.Error()})
	}

	return &RenderResult{
		Object:          obj,
		URL:             url,
		CompositionPlan: composed.CompositionPlan,
		SongMetadata:    composed.SongMetadata,
	}, nil
}

// Open returns a stored render for download or streaming
func (s *RenderService) Open(ctx context.Context, name string) (io.ReadCloser, storage.Object, error) {
	return s.store.Open(ctx, name)
}

// renderFilename makes provider filenames unique so renders never overwrite each other
func renderFilename(providerName, contentType string) string {
	id := uuid.New().String()[:8]
	clean, err := storage.SanitizeFilename(providerName)
	if err != nil {
		return fmt.Sprintf("render_%s%s", id, storage.ExtensionFor(contentType))
	}
	dot := strings.LastIndex(clean, ".")
	if dot <= 0 {
		return fmt.Sprintf("%s_%s%s", clean, id, storage.ExtensionFor(contentType))
	}
	return fmt.Sprintf("%s_%s%s", clean[:dot], id, clean[dot:])
}
