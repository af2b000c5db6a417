// Package assets resolves image references (data URLs, local files and
// http(s) URLs) into decoded images.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// MaxImageBytes caps the size of a single image
const MaxImageBytes = 20 << 20

var (
	ErrUnsupportedRef = errors.New("unsupported image reference")
	ErrTooLarge       = errors.New("image exceeds size limit")
)

// Loader fetches and decodes images
type Loader struct {
	httpClient  *http.Client
	concurrency int
	logger      *slog.Logger
}

// Config holds configuration for the loader
type Config struct {
	Timeout     time.Duration
	Concurrency int
	Logger      *slog.Logger
}

// DefaultConfig returns a default loader configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:     20 * time.Second,
		Concurrency: 4,
	}
}

// NewLoader creates a new Loader
func NewLoader(config *Config) *Loader {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Loader{
		httpClient:  &http.Client{Timeout: config.Timeout},
		concurrency: concurrency,
		logger:      logger,
	}
}

// Read returns the raw bytes behind a reference
func (l *Loader) Read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		data, _, err := DecodeDataURL(ref)
		return data, err
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetch(ctx, ref)
	case ref == "":
		return nil, ErrUnsupportedRef
	default:
		return readFile(ref)
	}
}

// Load decodes the image behind a reference
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	data, err := l.Read(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// LoadAll loads every distinct reference concurrently and waits for all of
// them. A reference that fails is logged and left out of the result.
// Only context cancellation is returned as an error.
func (l *Loader) LoadAll(ctx context.Context, refs []string) (map[string]image.Image, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]image.Image, len(refs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true

		g.Go(func() error {
			img, err := l.Load(gctx, ref)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				l.logger.Warn("asset failed to load", "ref", shortRef(ref), "error", err)
				return nil
			}
			mu.Lock()
			out[ref] = img
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("asset loading interrupted: %w", err)
	}
	return out, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}
	return readLimited(resp.Body)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return readLimited(f)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// DecodeDataURL splits a base64 data URL into bytes and media type
func DecodeDataURL(ref string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return nil, "", ErrUnsupportedRef
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: malformed data URL", ErrUnsupportedRef)
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: data URL is not base64", ErrUnsupportedRef)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URL: %w", err)
	}
	return data, mediaType, nil
}

// EncodeFile reads an image file into a base64 data URL so it can be
// stored inline with the quotation
func EncodeFile(path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("not a supported image: %w", err)
	}
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// shortRef keeps data URLs out of the logs
func shortRef(ref string) string {
	if strings.HasPrefix(ref, "data:") && len(ref) > 32 {
		return ref[:32] + "..."
	}
	return ref
}
