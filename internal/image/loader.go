// Package image loads and decodes artwork from local files and HTTP(S) URLs.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"strings"
	"time"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp" // Register WebP format

	httputil "github.com/jmylchreest/covertint/internal/util/http"
)

// CacheBustToken is appended to remote artwork URLs so the request is not
// served from a previously cached (possibly opaque) response.
const CacheBustToken = "not-from-cache-please"

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads and decodes an image from the given location.
	Load(ctx context.Context, location string) (image.Image, error)
}

// IsRemote reports whether location is an HTTP(S) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// CacheBust appends CacheBustToken to a URL as a query token.
func CacheBust(url string) string {
	separator := "?"
	if strings.Contains(url, "?") {
		separator = "&"
	}
	return url + separator + CacheBustToken
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return Decode(data)
}

// Decode sniffs the content type and decodes image bytes.
func Decode(data []byte) (image.Image, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, fmt.Errorf("unrecognised content type")
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("content is %s, not an image", kind.MIME.Value)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	return img, nil
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
// Remote URLs are always cache-busted.
type SmartLoader struct {
	fileLoader *FileLoader
	timeout    time.Duration
}

// NewSmartLoader creates a new SmartLoader instance. A zero timeout leaves
// remote fetches bounded only by the caller's context.
func NewSmartLoader(timeout time.Duration) *SmartLoader {
	return &SmartLoader{
		fileLoader: NewFileLoader(),
		timeout:    timeout,
	}
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, location string) (image.Image, error) {
	if IsRemote(location) {
		return l.loadFromURL(ctx, location)
	}
	return l.fileLoader.Load(ctx, location)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	data, err := httputil.Fetch(ctx, CacheBust(url), httputil.FetchOptions{
		Timeout: l.timeout,
		Headers: map[string]string{
			"Cache-Control": "no-cache",
			"Accept":        "image/*",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	return Decode(data)
}
