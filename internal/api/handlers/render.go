package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/music-prompt-api/internal/logger"
	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
	"github.com/Conceptual-Machines/music-prompt-api/internal/services"
	"github.com/Conceptual-Machines/music-prompt-api/internal/storage"
)

// Renderer renders plans and serves stored audio
type Renderer interface {
	Render(ctx context.Context, plan models.CompositionPlan) (*services.RenderResult, error)
	Open(ctx context.Context, name string) (io.ReadCloser, storage.Object, error)
}

type RenderHandler struct {
	svc Renderer
}

func NewRenderHandler(svc Renderer) *RenderHandler {
	return &RenderHandler{svc: svc}
}

// Render handles POST /render with a composition plan body
func (h *RenderHandler) Render(c *gin.Context) {
	var plan models.CompositionPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		respondBindingError(c, err)
		return
	}
	if total := plan.TotalDurationMs(); total < models.MinMusicLengthMs || total > models.MaxMusicLengthMs {
		respondError(c, http.StatusUnprocessableEntity, errCodeValidation,
			fmt.Sprintf("total section duration %dms must be between %d and %d", total, models.MinMusicLengthMs, models.MaxMusicLengthMs))
		return
	}
	plan.Normalize()

	result, err := h.svc.Render(c.Request.Context(), plan)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			respondError(c, http.StatusInternalServerError, errCodeStorage, err.Error())
			return
		}
		respondProviderError(c, "render", err)
		return
	}

	downloadURL := downloadRoute + result.Object.Name
	if result.URL != "" {
		downloadURL = result.URL
	}

	fields := logger.WithContext(c)
	fields["filename"] = result.Object.Name
	fields["file_size_bytes"] = result.Object.Size
	logger.Info("🎧 Render stored", fields)

	c.JSON(http.StatusOK, models.RenderResponse{
		Filename:        result.Object.Name,
		FilePath:        result.Object.Path,
		DownloadURL:     downloadURL,
		StreamURL:       streamRoute + result.Object.Name,
		ContentType:     result.Object.ContentType,
		FileSizeBytes:   result.Object.Size,
		CompositionPlan: result.CompositionPlan,
		SongMetadata:    result.SongMetadata,
		RequestID:       c.GetString("request_id"),
		Timestamp:       timestamp(),
	})
}

// Download handles GET /render/download/:filename as an attachment
func (h *RenderHandler) Download(c *gin.Context) {
	h.serve(c, "attachment")
}

// Stream handles GET /render/stream/:filename inline, with range support when the store allows seeking
func (h *RenderHandler) Stream(c *gin.Context) {
	h.serve(c, "inline")
}

func (h *RenderHandler) serve(c *gin.Context, disposition string) {
	rc, obj, err := h.svc.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidName):
			respondError(c, http.StatusNotFound, errCodeNotFound, "render not found")
		default:
			logger.Error("Failed to open render", err, logger.WithContext(c))
			respondError(c, http.StatusInternalServerError, errCodeStorage, "failed to open render")
		}
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": obj.Name}))
	c.Header("Content-Type", obj.ContentType)

	if seeker, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(c.Writer, c.Request, obj.Name, obj.ModTime, seeker)
		return
	}
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, rc, nil)
}
