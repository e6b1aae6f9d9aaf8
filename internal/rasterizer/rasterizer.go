// Package rasterizer turns a static document into an RGBA frame. It covers
// the element vocabulary the slide generator emits (g, rect, circle,
// ellipse, line, path, text); anything else is skipped with a log line so a
// bad input does not kill a long render.
package rasterizer

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/value"
)

type Options struct {
	Width  int
	Height int
	// Background fills the frame before drawing. Video output has no alpha
	// channel, so the background is always opaque.
	Background value.Color
	// BackgroundImage, when set, is scaled over the background fill.
	BackgroundImage image.Image
}

// Render allocates a frame and draws the document into it.
func Render(doc *document.Document, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	RenderInto(img, doc, opts)
	return img
}

// RenderInto draws the document into an existing frame buffer, overwriting
// its whole area. The buffer must match opts.Width x opts.Height.
func RenderInto(img *image.RGBA, doc *document.Document, opts Options) {
	r, g, b, _ := opts.Background.RGBA255()
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: r, G: g, B: b, A: 255}), image.Point{}, draw.Src)

	if opts.BackgroundImage != nil {
		xdraw.ApproxBiLinear.Scale(img, img.Bounds(), opts.BackgroundImage, opts.BackgroundImage.Bounds(), xdraw.Over, nil)
	}

	st := style{
		fill:        value.Color{A: 1}, // SVG default fill is black
		hasFill:     true,
		strokeWidth: 1,
		opacity:     1,
	}
	drawElement(img, doc.Root(), identity, st)
}

// style carries the inheritable paint state down the tree.
type style struct {
	fill        value.Color
	hasFill     bool
	stroke      value.Color
	hasStroke   bool
	strokeWidth float64
	opacity     float64
}

func (st style) updated(e *document.Element) style {
	if v, err := e.Attr("fill"); err == nil {
		st.fill = v.(value.Color)
		st.hasFill = true
	} else if e.Extra("fill") == "none" {
		st.hasFill = false
	}
	if v, err := e.Attr("stroke"); err == nil {
		st.stroke = v.(value.Color)
		st.hasStroke = true
	} else if e.Extra("stroke") == "none" {
		st.hasStroke = false
	}
	st.strokeWidth = num(e, "stroke-width", st.strokeWidth)
	st.opacity *= num(e, "opacity", 1)
	return st
}

func drawElement(img *image.RGBA, e *document.Element, m matrix, st style) {
	if v, err := e.Attr("transform"); err == nil {
		m = m.mul(transformMatrix(v.(value.Transform)))
	}
	st = st.updated(e)

	switch e.Tag() {
	case "svg", "g":
		for _, child := range e.Children() {
			drawElement(img, child, m, st)
		}
		return

	case "rect":
		x, y := num(e, "x", 0), num(e, "y", 0)
		w, h := num(e, "width", 0), num(e, "height", 0)
		if w <= 0 || h <= 0 {
			return
		}
		paintShape(img, rectPath(x, y, w, h), m, e, st)

	case "circle":
		r := num(e, "r", 0)
		paintShape(img, ellipsePath(num(e, "cx", 0), num(e, "cy", 0), r, r), m, e, st)

	case "ellipse":
		paintShape(img, ellipsePath(num(e, "cx", 0), num(e, "cy", 0), num(e, "rx", 0), num(e, "ry", 0)), m, e, st)

	case "line":
		a := m.apply(value.Point{X: num(e, "x1", 0), Y: num(e, "y1", 0)})
		b := m.apply(value.Point{X: num(e, "x2", 0), Y: num(e, "y2", 0)})
		if st.hasStroke {
			strokeSegment(img, a, b, st.strokeWidth, paint(st.stroke, strokeAlpha(e, st)))
		}

	case "path":
		v, err := e.Attr("d")
		if err != nil {
			return
		}
		paintShape(img, v.(value.Path), m, e, st)

	case "text":
		if st.hasFill && e.Text() != "" {
			origin := m.apply(value.Point{X: num(e, "x", 0), Y: num(e, "y", 0)})
			size := num(e, "font-size", 16) * math.Hypot(m.a, m.b)
			drawText(img, e.Text(), origin, size, paint(st.fill, fillAlpha(e, st)))
		}

	default:
		log.Printf("[!] rasterizer: skipping unsupported element <%s>", e.Tag())
	}

	for _, child := range e.Children() {
		drawElement(img, child, m, st)
	}
}

func paintShape(img *image.RGBA, p value.Path, m matrix, e *document.Element, st style) {
	if len(p) == 0 {
		return
	}
	if st.hasFill {
		fillPath(img, p, m, paint(st.fill, fillAlpha(e, st)))
	}
	if st.hasStroke {
		strokePath(img, p, m, st.strokeWidth, paint(st.stroke, strokeAlpha(e, st)))
	}
}

func fillAlpha(e *document.Element, st style) float64 {
	return st.opacity * num(e, "fill-opacity", 1)
}

func strokeAlpha(e *document.Element, st style) float64 {
	return st.opacity * num(e, "stroke-opacity", 1)
}

// fillPath scan-fills a path with a uniform color.
func fillPath(img *image.RGBA, p value.Path, m matrix, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	bounds := img.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())

	pt := func(v value.Point) (float32, float32) {
		t := m.apply(v)
		return float32(t.X), float32(t.Y)
	}

	open := false
	for _, cmd := range p {
		switch cmd.Op {
		case value.MoveTo:
			if open {
				z.ClosePath()
			}
			x, y := pt(cmd.Pts[0])
			z.MoveTo(x, y)
			open = true
		case value.LineTo:
			x, y := pt(cmd.Pts[0])
			z.LineTo(x, y)
		case value.QuadTo:
			x1, y1 := pt(cmd.Pts[0])
			x, y := pt(cmd.Pts[1])
			z.QuadTo(x1, y1, x, y)
		case value.CubicTo:
			x1, y1 := pt(cmd.Pts[0])
			x2, y2 := pt(cmd.Pts[1])
			x, y := pt(cmd.Pts[2])
			z.CubeTo(x1, y1, x2, y2, x, y)
		case value.ClosePath:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}

	z.Draw(img, bounds, image.NewUniform(col), image.Point{})
}

// strokePath strokes every segment of the path as a thick line. Curves are
// stroked along their chords, which is enough for the outlines the slide
// generator produces.
func strokePath(img *image.RGBA, p value.Path, m matrix, width float64, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	var cur, start value.Point
	haveCur := false
	for _, cmd := range p {
		switch cmd.Op {
		case value.MoveTo:
			cur = m.apply(cmd.Pts[0])
			start = cur
			haveCur = true
		case value.ClosePath:
			if haveCur {
				strokeSegment(img, cur, start, width, col)
				cur = start
			}
		default:
			end := m.apply(cmd.Pts[len(cmd.Pts)-1])
			if haveCur {
				strokeSegment(img, cur, end, width, col)
			}
			cur = end
			haveCur = true
		}
	}
}

// strokeSegment fills the quad spanned by a line segment and its width.
func strokeSegment(img *image.RGBA, a, b value.Point, width float64, col color.NRGBA) {
	if col.A == 0 || width <= 0 {
		return
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Unit normal scaled to half the stroke width.
	nx := -dy / length * width / 2
	ny := dx / length * width / 2

	bounds := img.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	z.ClosePath()
	z.Draw(img, bounds, image.NewUniform(col), image.Point{})
}

// drawText renders a string with the built-in bitmap face, then scales it to
// the requested size. Proportional fonts are out of scope; the 7x13 face
// keeps frames legible without shipping font files.
func drawText(img *image.RGBA, text string, origin value.Point, size float64, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	if w <= 0 {
		return
	}

	tmp := image.NewRGBA(image.Rect(0, 0, w, face.Height))
	d := font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	scale := size / float64(face.Height)
	if scale <= 0 {
		scale = 1
	}
	dw := int(float64(w)*scale + 0.5)
	dh := int(float64(face.Height)*scale + 0.5)
	left := int(origin.X + 0.5)
	top := int(origin.Y - float64(face.Ascent)*scale + 0.5)

	xdraw.NearestNeighbor.Scale(img, image.Rect(left, top, left+dw, top+dh), tmp, tmp.Bounds(), xdraw.Over, nil)
}

func rectPath(x, y, w, h float64) value.Path {
	return value.Path{
		{Op: value.MoveTo, Pts: []value.Point{{X: x, Y: y}}},
		{Op: value.LineTo, Pts: []value.Point{{X: x + w, Y: y}}},
		{Op: value.LineTo, Pts: []value.Point{{X: x + w, Y: y + h}}},
		{Op: value.LineTo, Pts: []value.Point{{X: x, Y: y + h}}},
		{Op: value.ClosePath},
	}
}

// ellipsePath approximates an ellipse with four cubic arcs.
func ellipsePath(cx, cy, rx, ry float64) value.Path {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	const k = 0.5522847498
	kx, ky := rx*k, ry*k
	return value.Path{
		{Op: value.MoveTo, Pts: []value.Point{{X: cx + rx, Y: cy}}},
		{Op: value.CubicTo, Pts: []value.Point{{X: cx + rx, Y: cy + ky}, {X: cx + kx, Y: cy + ry}, {X: cx, Y: cy + ry}}},
		{Op: value.CubicTo, Pts: []value.Point{{X: cx - kx, Y: cy + ry}, {X: cx - rx, Y: cy + ky}, {X: cx - rx, Y: cy}}},
		{Op: value.CubicTo, Pts: []value.Point{{X: cx - rx, Y: cy - ky}, {X: cx - kx, Y: cy - ry}, {X: cx, Y: cy - ry}}},
		{Op: value.CubicTo, Pts: []value.Point{{X: cx + kx, Y: cy - ry}, {X: cx + rx, Y: cy - ky}, {X: cx + rx, Y: cy}}},
		{Op: value.ClosePath},
	}
}

func num(e *document.Element, name string, def float64) float64 {
	v, err := e.Attr(name)
	if err != nil {
		return def
	}
	if n, ok := v.(value.Number); ok {
		return float64(n)
	}
	return def
}

func paint(c value.Color, mul float64) color.NRGBA {
	r, g, b, _ := c.RGBA255()
	a := c.A * mul
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}
