// Package raster draws the print view of a quotation into a bitmap.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/export"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	ink      = color.RGBA{R: 0x1F, G: 0x29, B: 0x37, A: 0xFF}
	muted    = color.RGBA{R: 0x6B, G: 0x72, B: 0x80, A: 0xFF}
	hairline = color.RGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}
	brand    = color.RGBA{R: 0xEA, G: 0x58, B: 0x0C, A: 0xFF}
)

// maxHeight bounds the base canvas in pixels
const maxHeight = 40000

// Rasterizer implements export.Renderer with a fixed bitmap font
type Rasterizer struct {
	face   font.Face
	margin int
}

// New creates a Rasterizer
func New() *Rasterizer {
	return &Rasterizer{face: basicfont.Face7x13, margin: 48}
}

// Render lays out the mounted view at its base width, then scales the
// page by the surface scale onto an opaque white bitmap
func (r *Rasterizer) Render(ctx context.Context, s *export.Surface) (image.Image, error) {
	v := s.View()
	if v.Width <= 2*r.margin {
		return nil, fmt.Errorf("page width %d is too small", v.Width)
	}

	l := newLayout(v.Width, r.margin, r.face)
	r.header(l, v, s)
	r.client(l, v)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.table(l, v)
	r.totals(l, v)
	r.footer(l, v)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.attachments(l, v, s)
	l.gap(r.margin)

	if h := l.height(); h > maxHeight {
		return nil, fmt.Errorf("page height %d exceeds limit", h)
	}

	base := l.paint()
	scale := s.Scale()
	if scale == 1 {
		return base, nil
	}

	w := int(float64(base.Bounds().Dx()) * scale)
	h := int(float64(base.Bounds().Dy()) * scale)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(out, out.Bounds(), base, base.Bounds(), draw.Over, nil)
	return out, nil
}

func (r *Rasterizer) header(l *layout, v export.PrintView, s *export.Surface) {
	l.gap(r.margin)
	if logo, ok := s.Asset(v.LogoRef); ok {
		l.picture(logo, l.contentWidth()/3, 120, domain.AlignLeft)
		l.gap(8)
	}
	if v.CompanyName != "" {
		l.big(v.CompanyName, 2, ink, domain.AlignLeft)
	}
	if v.CompanySubtitle != "" {
		l.line(v.CompanySubtitle, muted, domain.AlignLeft)
	}
	l.gap(16)
	l.rule(brand, 3)
	l.gap(16)

	if v.Title != "" {
		l.big(v.Title, 3, parseHex(v.TitleColor, brand), v.TitleAlign)
		l.gap(12)
	}
	if v.QuotationNo != "" {
		l.line(v.QuotationNoLabel+": "+v.QuotationNo, ink, domain.AlignRight)
	}
	l.line(v.Labels.Date+": "+v.Date, muted, domain.AlignRight)
	l.gap(12)
}

func (r *Rasterizer) client(l *layout, v export.PrintView) {
	if !v.ShowClient {
		return
	}
	name := v.ClientName
	if name == "" {
		name = "-"
	}
	l.line(v.Labels.Client+": "+name, ink, domain.AlignLeft)
	if v.ClientIDValue != "" {
		l.line(v.ClientIDLabel+": "+v.ClientIDValue, muted, domain.AlignLeft)
	}
	l.gap(12)
	if v.Intro != "" {
		l.paragraph(v.Intro, ink)
		l.gap(12)
	}
}

// column right edges relative to the margin
func (r *Rasterizer) columns(l *layout) (descW, qtyRight, unitRight, totalRight int) {
	cw := l.contentWidth()
	totalRight = cw
	unitRight = cw - 130
	qtyRight = unitRight - 130
	descW = qtyRight - 70
	return
}

func (r *Rasterizer) table(l *layout, v export.PrintView) {
	descW, qtyR, unitR, totalR := r.columns(l)

	l.row(v.Labels.Description, descW, []cell{
		{text: v.Labels.Quantity, right: qtyR},
		{text: v.Labels.UnitPrice, right: unitR},
		{text: v.Labels.ItemTotal, right: totalR},
	}, muted)
	l.rule(ink, 1)
	l.gap(6)

	for _, g := range v.Groups {
		if g.ShowHeading() {
			l.gap(6)
			l.big(g.Main, 2, brand, domain.AlignLeft)
		}
		for _, sub := range g.SubZones {
			if sub.ShowHeading() {
				l.line(sub.Name, ink, domain.AlignLeft)
				l.rule(hairline, 1)
			}
			for _, it := range sub.Items {
				l.row(it.Description, descW, []cell{
					{text: strconv.Itoa(it.Quantity), right: qtyR},
					{text: v.Money(it.UnitPrice), right: unitR},
					{text: v.Money(it.LineTotal()), right: totalR},
				}, ink)
			}
			l.row("", descW, []cell{
				{text: v.Labels.Subtotal + " " + v.Money(sub.Subtotal), right: totalR},
			}, muted)
			l.gap(6)
		}
	}
	l.rule(ink, 1)
	l.gap(8)
}

func (r *Rasterizer) totals(l *layout, v export.PrintView) {
	_, _, _, totalR := r.columns(l)
	if v.ShowDiscount {
		l.row("", 0, []cell{{text: v.Labels.SubtotalNet + ": " + v.Money(v.Totals.Net), right: totalR}}, muted)
		l.row("", 0, []cell{{text: v.Labels.Discount + ": -" + v.Money(v.Totals.Discount), right: totalR}}, muted)
	}
	l.big(v.Labels.Total+": "+v.Money(v.Totals.Grand), 2, ink, domain.AlignRight)
	l.gap(20)
}

func (r *Rasterizer) footer(l *layout, v export.PrintView) {
	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		l.line(title, brand, domain.AlignLeft)
		l.paragraph(body, ink)
		l.gap(12)
	}
	section(v.Labels.Conditions, v.Conditions)
	section(v.Labels.PaymentAccount, v.PaymentInfo)
	section(v.Labels.Observations, v.Observations)

	if v.SellerSignature == "" && v.ClientSignature == "" {
		return
	}
	l.gap(40)
	half := l.contentWidth() / 2
	sellerLines := l.wrap(printable(v.SellerSignature), half-20)
	clientLines := l.wrap(printable(v.ClientSignature), half-20)
	n := max(len(sellerLines), len(clientLines))

	l.add(1, func(dst draw.Image, top int) {
		if v.SellerSignature != "" {
			draw.Draw(dst, image.Rect(l.margin, top, l.margin+half-20, top+1), image.NewUniform(ink), image.Point{}, draw.Src)
		}
		if v.ClientSignature != "" {
			draw.Draw(dst, image.Rect(l.margin+half+20, top, l.width-l.margin, top+1), image.NewUniform(ink), image.Point{}, draw.Src)
		}
	})
	for i := 0; i < n; i++ {
		var left, right string
		if i < len(sellerLines) {
			left = sellerLines[i]
		}
		if i < len(clientLines) {
			right = clientLines[i]
		}
		l.add(l.lineH, func(dst draw.Image, top int) {
			l.drawString(dst, l.margin, top, left, ink)
			l.drawString(dst, l.margin+half+20, top, right, ink)
		})
	}
	l.gap(12)
}

func (r *Rasterizer) attachments(l *layout, v export.PrintView, s *export.Surface) {
	if len(v.Attachments) == 0 {
		return
	}
	l.gap(20)
	l.rule(brand, 2)
	l.gap(12)
	l.big(v.Labels.Attachments, 2, brand, domain.AlignLeft)
	l.gap(8)

	for _, a := range v.Attachments {
		if a.Title != "" {
			l.line(a.Title, ink, domain.AlignLeft)
		}
		if img, ok := s.Asset(a.PreviewURL); ok {
			l.picture(img, l.contentWidth(), 900, domain.AlignCenter)
		}
		if a.Description != "" {
			l.gap(4)
			l.paragraph(a.Description, muted)
		}
		l.gap(16)
	}
}

// parseHex reads a #RRGGBB color, returning def when malformed
func parseHex(s string, def color.RGBA) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return def
	}
	n, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return def
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xFF}
}
