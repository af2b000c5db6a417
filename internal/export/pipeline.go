// Package export turns the current quotation into a single-page,
// image-based PDF sized to its content.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/history"
)

var (
	// ErrExportFailed is the generic failure shown to the user
	ErrExportFailed     = errors.New("error generating the PDF")
	ErrExportInProgress = errors.New("an export is already running")
)

// Renderer rasterizes the print view mounted on a surface at the
// surface's scale
type Renderer interface {
	Render(ctx context.Context, s *Surface) (image.Image, error)
}

// AssetLoader resolves every image a view references
type AssetLoader interface {
	LoadAll(ctx context.Context, refs []string) (map[string]image.Image, error)
}

// Saver is the part of the history store the pipeline needs
type Saver interface {
	Save(ctx context.Context, s editor.State, silent bool) history.SaveResult
	LastSavedAt() time.Time
}

// Config holds the pipeline settings
type Config struct {
	OutputDir     string
	StagingDir    string // defaults to OutputDir
	IdleThreshold time.Duration
	SettleDelay   time.Duration
	BaseWidth     int
	Scale         float64
	JPEGQuality   int
	PageWidthMM   float64
}

// DefaultConfig returns the default export settings
func DefaultConfig() Config {
	return Config{
		OutputDir:     ".",
		IdleThreshold: 10 * time.Second,
		SettleDelay:   3500 * time.Millisecond,
		BaseWidth:     DefaultBaseWidth,
		Scale:         2,
		JPEGQuality:   98,
		PageWidthMM:   210,
	}
}

// Result describes a finished export
type Result struct {
	Path         string
	FileName     string
	WidthPx      int
	HeightPx     int
	PageHeightMM float64
	// ImplicitSave is set when the pipeline saved to history first
	ImplicitSave *history.SaveResult
}

// Pipeline runs exports one at a time
type Pipeline struct {
	cfg      Config
	renderer Renderer
	loader   AssetLoader
	saver    Saver
	writer   DocumentWriter
	logger   *slog.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	busy     atomic.Bool
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithWriter replaces the PDF writer
func WithWriter(w DocumentWriter) Option { return func(p *Pipeline) { p.writer = w } }

// WithLogger sets the pipeline logger
func WithLogger(l *slog.Logger) Option { return func(p *Pipeline) { p.logger = l } }

// WithClock overrides the time source
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// WithSleep overrides the settle wait
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Pipeline) { p.sleep = fn }
}

// NewPipeline creates a new export pipeline
func NewPipeline(cfg Config, renderer Renderer, loader AssetLoader, saver Saver, opts ...Option) *Pipeline {
	def := DefaultConfig()
	if cfg.BaseWidth <= 0 {
		cfg.BaseWidth = def.BaseWidth
	}
	if cfg.Scale <= 0 {
		cfg.Scale = def.Scale
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = def.JPEGQuality
	}
	if cfg.PageWidthMM <= 0 {
		cfg.PageWidthMM = def.PageWidthMM
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}

	p := &Pipeline{
		cfg:      cfg,
		renderer: renderer,
		loader:   loader,
		saver:    saver,
		writer:   PDFWriter{},
		logger:   slog.Default(),
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Busy reports whether an export is running
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// Export runs the full pipeline for a state into the configured output
// directory. Steps run strictly in order and the staging surface is
// removed on every path.
func (p *Pipeline) Export(ctx context.Context, st editor.State) (Result, error) {
	return p.ExportTo(ctx, st, p.cfg.OutputDir)
}

// ExportTo is Export with an explicit output directory
func (p *Pipeline) ExportTo(ctx context.Context, st editor.State, outputDir string) (Result, error) {
	if outputDir == "" {
		outputDir = p.cfg.OutputDir
	}
	if !p.busy.CompareAndSwap(false, true) {
		return Result{}, ErrExportInProgress
	}
	defer p.busy.Store(false)

	var res Result

	// recovery point before a slow export
	if p.saver != nil && p.now().Sub(p.saver.LastSavedAt()) > p.cfg.IdleThreshold {
		saved := p.saver.Save(ctx, st, true)
		res.ImplicitSave = &saved
	}

	res.FileName = SafeFileName(st.FileName())

	view := BuildPrintView(st, p.cfg.BaseWidth)
	staging := p.cfg.StagingDir
	if staging == "" {
		staging = outputDir
	}
	surface, err := OpenSurface(staging, view, p.cfg.Scale)
	if err != nil {
		return res, p.fail("open surface", err)
	}
	defer func() {
		if err := surface.Close(); err != nil {
			p.logger.Warn("export teardown failed", "dir", surface.Dir(), "error", err)
		}
	}()

	if err := p.sleep(ctx, p.cfg.SettleDelay); err != nil {
		return res, p.fail("settle", err)
	}

	assets, err := p.loader.LoadAll(ctx, view.AssetRefs())
	if err != nil {
		return res, p.fail("load assets", err)
	}
	surface.mount(assets)

	img, err := p.renderer.Render(ctx, surface)
	if err != nil {
		return res, p.fail("rasterize", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return res, p.fail("rasterize", errors.New("empty bitmap"))
	}
	res.WidthPx, res.HeightPx = b.Dx(), b.Dy()

	page, err := encodeJPEG(img, p.cfg.JPEGQuality)
	if err != nil {
		return res, p.fail("encode", err)
	}

	res.PageHeightMM = float64(res.HeightPx) * p.cfg.PageWidthMM / float64(res.WidthPx)

	staged := surface.Path(res.FileName + ".pdf")
	if err := p.writer.Write(staged, res.FileName, page, p.cfg.PageWidthMM, res.PageHeightMM); err != nil {
		return res, p.fail("write document", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return res, p.fail("create output directory", err)
	}
	final := filepath.Join(outputDir, res.FileName+".pdf")
	if err := os.Rename(staged, final); err != nil {
		return res, p.fail("move document", err)
	}
	res.Path = final

	p.logger.Info("export finished", "path", final, "width_px", res.WidthPx, "height_px", res.HeightPx)
	return res, nil
}

func (p *Pipeline) fail(step string, err error) error {
	p.logger.Error("export failed", "step", step, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrExportFailed, step, err)
}

// encodeJPEG flattens the bitmap onto opaque white and encodes it
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	b := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeNameChars = strings.NewReplacer("/", "-", "\\", "-", "\x00", "", ":", "-")

// SafeFileName makes a derived document name usable as a file name
func SafeFileName(name string) string {
	name = strings.TrimSpace(unsafeNameChars.Replace(name))
	if name == "" || name == "." || name == ".." {
		return "cotizacion"
	}
	return name
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
