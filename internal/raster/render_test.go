package raster

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func view(t *testing.T, cmds ...editor.Command) export.PrintView {
	t.Helper()
	s, err := editor.New(editor.Defaults{}, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)).Apply(cmds...)
	require.NoError(t, err)
	return export.BuildPrintView(s, export.DefaultBaseWidth)
}

func render(t *testing.T, v export.PrintView, scale float64) image.Image {
	t.Helper()
	surface, err := export.OpenSurface(t.TempDir(), v, scale)
	require.NoError(t, err)
	defer surface.Close()

	img, err := New().Render(context.Background(), surface)
	require.NoError(t, err)
	return img
}

func TestRenderScalesWidth(t *testing.T) {
	v := view(t,
		editor.SetClientInfo{Name: "Jane"},
		editor.AddZone{Prefix: "PISO 1", Suffix: "sala"},
		editor.AddItem{Zone: "PISO 1 > SALA", Description: "Cortina blackout con motor", Quantity: "2", UnitPrice: "450"},
	)

	img := render(t, v, 2)
	assert.Equal(t, 2*export.DefaultBaseWidth, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 0)

	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, [4]uint32{0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}, [4]uint32{r, g, b, a})
}

func TestRenderGrowsWithContent(t *testing.T) {
	short := render(t, view(t), 1)

	var cmds []editor.Command
	for i := 0; i < 30; i++ {
		cmds = append(cmds, editor.AddItem{Zone: domain.DefaultZone, Description: "Item", Quantity: "1", UnitPrice: "1"})
	}
	long := render(t, view(t, cmds...), 1)

	assert.Greater(t, long.Bounds().Dy(), short.Bounds().Dy())
}

func TestRenderCancelled(t *testing.T) {
	surface, err := export.OpenSurface(t.TempDir(), view(t), 2)
	require.NoError(t, err)
	defer surface.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New().Render(ctx, surface)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrap(t *testing.T) {
	l := newLayout(200, 10, New().face)
	lines := l.wrap("uno dos tres cuatro cinco seis siete ocho\nnueve", 70)
	require.NotEmpty(t, lines)
	for _, ln := range lines {
		assert.LessOrEqual(t, l.measure(ln), 70, ln)
	}
	assert.Equal(t, "nueve", lines[len(lines)-1])
}

func TestParseHex(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0xEA, G: 0x58, B: 0x0C, A: 0xFF}, parseHex("#EA580C", ink))
	assert.Equal(t, ink, parseHex("orange", ink))
}
