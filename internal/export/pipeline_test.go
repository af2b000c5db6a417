package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer returns a fixed-size bitmap or an error, and records the
// surface it was given
type fakeRenderer struct {
	err     error
	w, h    int
	surface *Surface
	block   chan struct{}
	started chan struct{}
}

func (f *fakeRenderer) Render(ctx context.Context, s *Surface) (image.Image, error) {
	f.surface = s
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	img.Set(1, 1, color.Black)
	return img, nil
}

type fakeLoader struct {
	refs []string
}

func (f *fakeLoader) LoadAll(ctx context.Context, refs []string) (map[string]image.Image, error) {
	f.refs = refs
	return map[string]image.Image{}, nil
}

type fakeSaver struct {
	last  time.Time
	saves []bool
}

func (f *fakeSaver) Save(ctx context.Context, s editor.State, silent bool) history.SaveResult {
	f.saves = append(f.saves, silent)
	return history.SaveResult{Status: history.Created, Silent: silent}
}
func (f *fakeSaver) LastSavedAt() time.Time { return f.last }

type recordingWriter struct {
	mu       sync.Mutex
	widthMM  float64
	heightMM float64
	title    string
}

func (w *recordingWriter) Write(path, title string, jpeg []byte, widthMM, heightMM float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.widthMM, w.heightMM, w.title = widthMM, heightMM, title
	return os.WriteFile(path, jpeg, 0600)
}

var now = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

func testState(t *testing.T) editor.State {
	t.Helper()
	s, err := editor.New(editor.Defaults{}, now).Apply(
		editor.SetClientInfo{Name: "Jane", Date: "2024-01-01"},
		editor.AddItem{Zone: domain.DefaultZone, Description: "Roller", Quantity: "1", UnitPrice: "10"},
	)
	require.NoError(t, err)
	return s
}

func newTestPipeline(t *testing.T, r Renderer, saver *fakeSaver, w DocumentWriter) (*Pipeline, string, *[]time.Duration) {
	t.Helper()
	out := t.TempDir()
	var slept []time.Duration
	cfg := DefaultConfig()
	cfg.OutputDir = out
	p := NewPipeline(cfg, r, &fakeLoader{}, saver,
		WithWriter(w),
		WithClock(func() time.Time { return now }),
		WithSleep(func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}),
	)
	return p, out, &slept
}

func stagingDirs(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".cotiza-export-*"))
	require.NoError(t, err)
	return matches
}

func TestExportWritesContentSizedPage(t *testing.T) {
	ctx := context.Background()
	r := &fakeRenderer{w: 1588, h: 3176}
	w := &recordingWriter{}
	saver := &fakeSaver{last: now.Add(-time.Minute)}
	p, out, slept := newTestPipeline(t, r, saver, w)

	res, err := p.Export(ctx, testState(t))
	require.NoError(t, err)

	assert.Equal(t, "COTIZACIÓN_Jane_2024-01-01", res.FileName)
	assert.Equal(t, filepath.Join(out, "COTIZACIÓN_Jane_2024-01-01.pdf"), res.Path)
	assert.FileExists(t, res.Path)
	assert.InDelta(t, 420.0, res.PageHeightMM, 0.0001)
	assert.InDelta(t, 210.0, w.widthMM, 0.0001)
	assert.InDelta(t, 420.0, w.heightMM, 0.0001)

	assert.Equal(t, []time.Duration{3500 * time.Millisecond}, *slept)
	assert.Equal(t, 2.0, r.surface.Scale())
	assert.Equal(t, DefaultBaseWidth, r.surface.View().Width)

	require.NotNil(t, res.ImplicitSave)
	assert.Equal(t, []bool{true}, saver.saves)
	assert.Empty(t, stagingDirs(t, out))
	assert.False(t, p.Busy())
}

func TestExportSkipsSaveWhenRecent(t *testing.T) {
	saver := &fakeSaver{last: now.Add(-5 * time.Second)}
	p, _, _ := newTestPipeline(t, &fakeRenderer{w: 10, h: 10}, saver, &recordingWriter{})

	res, err := p.Export(context.Background(), testState(t))
	require.NoError(t, err)
	assert.Nil(t, res.ImplicitSave)
	assert.Empty(t, saver.saves)
}

func TestExportTearsDownOnRenderFailure(t *testing.T) {
	r := &fakeRenderer{err: errors.New("canvas exploded")}
	p, out, _ := newTestPipeline(t, r, &fakeSaver{}, &recordingWriter{})

	_, err := p.Export(context.Background(), testState(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportFailed)

	require.NotNil(t, r.surface)
	assert.NoDirExists(t, r.surface.Dir())
	assert.Empty(t, stagingDirs(t, out))
	assert.False(t, p.Busy())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type failingWriter struct{}

func (failingWriter) Write(path, title string, jpeg []byte, widthMM, heightMM float64) error {
	return errors.New("disk full")
}

func TestExportTearsDownOnWriteFailure(t *testing.T) {
	r := &fakeRenderer{w: 10, h: 20}
	p, out, _ := newTestPipeline(t, r, &fakeSaver{}, failingWriter{})

	_, err := p.Export(context.Background(), testState(t))
	assert.ErrorIs(t, err, ErrExportFailed)
	assert.NoDirExists(t, r.surface.Dir())
	assert.Empty(t, stagingDirs(t, out))
}

func TestExportRejectsReentry(t *testing.T) {
	r := &fakeRenderer{w: 10, h: 10, block: make(chan struct{}), started: make(chan struct{})}
	p, _, _ := newTestPipeline(t, r, &fakeSaver{last: now}, &recordingWriter{})

	done := make(chan error, 1)
	go func() {
		_, err := p.Export(context.Background(), testState(t))
		done <- err
	}()

	<-r.started
	assert.True(t, p.Busy())
	_, err := p.Export(context.Background(), testState(t))
	assert.ErrorIs(t, err, ErrExportInProgress)

	close(r.block)
	require.NoError(t, <-done)
	assert.False(t, p.Busy())
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "A-B_Jane_2024-01-01", SafeFileName("A/B_Jane_2024-01-01"))
	assert.Equal(t, "cotizacion", SafeFileName(" .. "))
}

func TestExportToOverridesOutputDir(t *testing.T) {
	p, out, _ := newTestPipeline(t, &fakeRenderer{w: 10, h: 10}, &fakeSaver{last: now}, &recordingWriter{})
	other := filepath.Join(t.TempDir(), "nested")

	res, err := p.ExportTo(context.Background(), testState(t), other)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(other, res.FileName+".pdf"), res.Path)
	assert.FileExists(t, res.Path)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
