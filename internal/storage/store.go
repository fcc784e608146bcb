package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrNotFound is returned when a stored render does not exist
var ErrNotFound = errors.New("render not found")

// ErrInvalidName is returned for names that cannot be stored safely
var ErrInvalidName = errors.New("invalid render filename")

// Object describes a stored render
type Object struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Store persists rendered audio
type Store interface {
	Save(ctx context.Context, name, contentType string, data []byte) (Object, error)
	Open(ctx context.Context, name string) (io.ReadCloser, Object, error)
	// URL returns a direct link to the object, or "" when the store has none
	URL(ctx context.Context, name string) (string, error)
	Name() string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces name to a single safe path element
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "_" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".flac": "audio/flac",
	".pcm":  "audio/L16",
}

// ContentTypeFor guesses an audio content type from the file extension
func ContentTypeFor(name string) string {
	if ct, ok := audioContentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ExtensionFor returns the file extension for an audio content type
func ExtensionFor(contentType string) string {
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	for ext, ct := range audioContentTypes {
		if ct == base {
			return ext
		}
	}
	return ".mp3"
}
