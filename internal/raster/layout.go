package raster

import (
	"image"
	"image/color"
	"strings"

	"github.com/andy/cotiza/internal/domain"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// block is one vertical slice of the page. Layout measures every block
// first, then paints them onto a canvas of the summed height.
type block struct {
	h     int
	paint func(dst draw.Image, top int)
}

type layout struct {
	width  int
	margin int
	face   font.Face
	lineH  int
	blocks []block
}

func newLayout(width, margin int, face font.Face) *layout {
	m := face.Metrics()
	return &layout{
		width:  width,
		margin: margin,
		face:   face,
		lineH:  (m.Height + m.Descent).Ceil() + 2,
	}
}

func (l *layout) add(h int, paint func(dst draw.Image, top int)) {
	l.blocks = append(l.blocks, block{h: h, paint: paint})
}

func (l *layout) height() int {
	h := 0
	for _, b := range l.blocks {
		h += b.h
	}
	return h
}

func (l *layout) contentWidth() int {
	return l.width - 2*l.margin
}

func (l *layout) gap(h int) {
	l.add(h, nil)
}

// paint renders all blocks on an opaque white canvas
func (l *layout) paint() *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, l.width, l.height()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	top := 0
	for _, b := range l.blocks {
		if b.paint != nil {
			b.paint(canvas, top)
		}
		top += b.h
	}
	return canvas
}

func (l *layout) measure(s string) int {
	return font.MeasureString(l.face, s).Ceil()
}

func (l *layout) drawString(dst draw.Image, x, top int, s string, col color.Color) {
	ascent := l.face.Metrics().Ascent.Ceil()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: l.face,
		Dot:  fixed.P(x, top+ascent+1),
	}
	d.DrawString(s)
}

func (l *layout) alignedX(w int, align domain.Align) int {
	switch align {
	case domain.AlignCenter:
		return l.margin + (l.contentWidth()-w)/2
	case domain.AlignRight:
		return l.width - l.margin - w
	default:
		return l.margin
	}
}

// line adds a single line of text
func (l *layout) line(s string, col color.Color, align domain.Align) {
	s = printable(s)
	l.add(l.lineH, func(dst draw.Image, top int) {
		l.drawString(dst, l.alignedX(l.measure(s), align), top, s, col)
	})
}

// paragraph adds wrapped multi-line text
func (l *layout) paragraph(s string, col color.Color) {
	for _, ln := range l.wrap(printable(s), l.contentWidth()) {
		l.line(ln, col, domain.AlignLeft)
	}
}

// big adds one line of text enlarged by an integer factor
func (l *layout) big(s string, factor int, col color.Color, align domain.Align) {
	s = printable(s)
	if s == "" || factor < 1 {
		return
	}
	w, h := l.measure(s), l.lineH
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	l.drawString(small, 0, 0, s, col)

	bw, bh := w*factor, h*factor
	if bw > l.contentWidth() {
		bh = bh * l.contentWidth() / bw
		bw = l.contentWidth()
	}
	l.add(bh, func(dst draw.Image, top int) {
		x := l.alignedX(bw, align)
		draw.ApproxBiLinear.Scale(dst, image.Rect(x, top, x+bw, top+bh), small, small.Bounds(), draw.Over, nil)
	})
}

// picture adds an image scaled to fit inside maxW x maxH
func (l *layout) picture(img image.Image, maxW, maxH int, align domain.Align) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	w, h := fit(b.Dx(), b.Dy(), maxW, maxH)
	l.add(h, func(dst draw.Image, top int) {
		x := l.alignedX(w, align)
		draw.CatmullRom.Scale(dst, image.Rect(x, top, x+w, top+h), img, b, draw.Over, nil)
	})
}

// rule adds a horizontal line across the content width
func (l *layout) rule(col color.Color, thickness int) {
	l.add(thickness, func(dst draw.Image, top int) {
		r := image.Rect(l.margin, top, l.width-l.margin, top+thickness)
		draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
	})
}

type cell struct {
	text  string
	right int // right edge relative to the margin
}

// row adds a table row. The first column wraps within firstW; the other
// cells are right-aligned on the first line.
func (l *layout) row(first string, firstW int, cells []cell, col color.Color) {
	lines := l.wrap(printable(first), firstW)
	if len(lines) == 0 {
		lines = []string{""}
	}
	for i, ln := range lines {
		var rest []cell
		if i == 0 {
			rest = cells
		}
		l.add(l.lineH, func(dst draw.Image, top int) {
			l.drawString(dst, l.margin, top, ln, col)
			for _, c := range rest {
				t := printable(c.text)
				l.drawString(dst, l.margin+c.right-l.measure(t), top, t, col)
			}
		})
	}
}

// wrap breaks text into lines no wider than maxW pixels, honoring
// explicit newlines
func (l *layout) wrap(s string, maxW int) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := ""
		for _, w := range words {
			next := w
			if cur != "" {
				next = cur + " " + w
			}
			if cur != "" && l.measure(next) > maxW {
				out = append(out, cur)
				next = w
			}
			for l.measure(next) > maxW && len(next) > 1 {
				cut := l.fitPrefix(next, maxW)
				out = append(out, next[:cut])
				next = next[cut:]
			}
			cur = next
		}
		out = append(out, cur)
	}
	// drop trailing empty lines
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// fitPrefix returns the byte length of the longest rune-aligned prefix
// of s that fits maxW
func (l *layout) fitPrefix(s string, maxW int) int {
	last := 0
	for i := range s {
		if i > 0 && l.measure(s[:i]) > maxW {
			break
		}
		last = i
	}
	if last == 0 {
		// at least one rune
		for i := range s {
			if i > 0 {
				return i
			}
		}
		return len(s)
	}
	return last
}

func fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	nw, nh := maxW, h*maxW/w
	if nh > maxH {
		nh = maxH
		nw = w * maxH / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

var glyphFallbacks = strings.NewReplacer(
	"•", "-",
	"–", "-",
	"—", "-",
	"“", "\"",
	"”", "\"",
	"’", "'",
	"\t", "    ",
)

// printable swaps characters outside the bitmap font for close ASCII
func printable(s string) string {
	return glyphFallbacks.Replace(s)
}
