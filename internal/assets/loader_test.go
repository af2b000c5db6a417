package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeDataURL(t *testing.T) {
	raw := pngBytes(t, 2, 3)
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	data, mediaType, err := DecodeDataURL(ref)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)
	assert.Equal(t, raw, data)

	_, _, err = DecodeDataURL("data:image/png,plain")
	assert.ErrorIs(t, err, ErrUnsupportedRef)

	_, _, err = DecodeDataURL("nope")
	assert.ErrorIs(t, err, ErrUnsupportedRef)
}

func TestLoadSources(t *testing.T) {
	ctx := context.Background()
	raw := pngBytes(t, 4, 5)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(raw)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, raw, 0600))

	dataURL, err := EncodeFile(path)
	require.NoError(t, err)
	assert.Contains(t, dataURL, "data:image/png;base64,")

	l := NewLoader(nil)
	for _, ref := range []string{dataURL, path, srv.URL + "/logo.png"} {
		img, err := l.Load(ctx, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, 4, img.Bounds().Dx())
		assert.Equal(t, 5, img.Bounds().Dy())
	}

	_, err = l.Load(ctx, srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestLoadAllSkipsBrokenRefs(t *testing.T) {
	ctx := context.Background()
	good := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 1, 1))

	l := NewLoader(nil)
	got, err := l.LoadAll(ctx, []string{good, good, "/does/not/exist.png", ""})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, good)
}

func TestLoadAllCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(nil).LoadAll(ctx, []string{srv.URL + "/slow.png"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeFileRejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

	_, err := EncodeFile(path)
	assert.Error(t, err)
}
