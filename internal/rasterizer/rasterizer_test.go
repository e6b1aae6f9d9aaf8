package rasterizer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/value"
)

func mustDoc(t *testing.T, root *document.Element) *document.Document {
	t.Helper()
	doc, err := document.New(root)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func mustColor(t *testing.T, s string) value.Color {
	t.Helper()
	c, err := value.ParseColor(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRenderFillsBackground(t *testing.T) {
	doc := mustDoc(t, document.NewElement("", "svg", nil))
	bg := mustColor(t, "#102030")

	img := Render(doc, Options{Width: 64, Height: 32, Background: bg})

	if got := img.Bounds(); got.Dx() != 64 || got.Dy() != 32 {
		t.Fatalf("frame bounds = %v", got)
	}
	want := color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}
	for _, pt := range []image.Point{{0, 0}, {63, 31}, {32, 16}} {
		if got := img.RGBAAt(pt.X, pt.Y); got != want {
			t.Fatalf("pixel %v = %v, want %v", pt, got, want)
		}
	}
}

func TestRenderRect(t *testing.T) {
	rect := document.NewElement("box", "rect", map[string]value.Value{
		"x":      value.Number(10),
		"y":      value.Number(10),
		"width":  value.Number(50),
		"height": value.Number(30),
		"fill":   mustColor(t, "#ff0000"),
	})
	doc := mustDoc(t, document.NewElement("", "svg", nil, rect))

	img := Render(doc, Options{Width: 100, Height: 100, Background: mustColor(t, "#ffffff")})

	if got := img.RGBAAt(30, 20); got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("inside rect = %v, want red", got)
	}
	if got := img.RGBAAt(80, 80); got.R != 255 || got.G != 255 || got.B != 255 {
		t.Errorf("outside rect = %v, want white", got)
	}
}

func TestRenderTransformTranslates(t *testing.T) {
	rect := document.NewElement("box", "rect", map[string]value.Value{
		"x":      value.Number(0),
		"y":      value.Number(0),
		"width":  value.Number(10),
		"height": value.Number(10),
		"fill":   mustColor(t, "#00ff00"),
	})
	group := document.NewElement("grp", "g", map[string]value.Value{
		"transform": value.Transform{{Op: value.Translate, Args: []float64{40, 40}}},
	}, rect)
	doc := mustDoc(t, document.NewElement("", "svg", nil, group))

	img := Render(doc, Options{Width: 100, Height: 100, Background: mustColor(t, "#000000")})

	if got := img.RGBAAt(45, 45); got.G != 255 {
		t.Errorf("translated rect missing at (45,45): %v", got)
	}
	if got := img.RGBAAt(5, 5); got.G != 0 {
		t.Errorf("rect drawn at original position: %v", got)
	}
}

func TestRenderFillOpacityBlends(t *testing.T) {
	rect := document.NewElement("box", "rect", map[string]value.Value{
		"x":            value.Number(0),
		"y":            value.Number(0),
		"width":        value.Number(100),
		"height":       value.Number(100),
		"fill":         mustColor(t, "#ffffff"),
		"fill-opacity": value.Number(0.5),
	})
	doc := mustDoc(t, document.NewElement("", "svg", nil, rect))

	img := Render(doc, Options{Width: 100, Height: 100, Background: mustColor(t, "#000000")})

	got := img.RGBAAt(50, 50)
	if math.Abs(float64(got.R)-127.5) > 2 {
		t.Errorf("half-opaque white over black = %v, want mid gray", got)
	}
}

func TestRenderCircleAndStroke(t *testing.T) {
	circle := document.NewElement("dot", "circle", map[string]value.Value{
		"cx":   value.Number(50),
		"cy":   value.Number(50),
		"r":    value.Number(20),
		"fill": mustColor(t, "#0000ff"),
	})
	line := document.NewElement("rule", "line", map[string]value.Value{
		"x1":           value.Number(0),
		"y1":           value.Number(90),
		"x2":           value.Number(100),
		"y2":           value.Number(90),
		"stroke":       mustColor(t, "#ff00ff"),
		"stroke-width": value.Number(4),
	})
	doc := mustDoc(t, document.NewElement("", "svg", nil, circle, line))

	img := Render(doc, Options{Width: 100, Height: 100, Background: mustColor(t, "#ffffff")})

	if got := img.RGBAAt(50, 50); got.B != 255 || got.R != 0 {
		t.Errorf("circle center = %v, want blue", got)
	}
	if got := img.RGBAAt(50, 35); got.B != 255 {
		t.Errorf("circle edge inside r = %v, want blue", got)
	}
	if got := img.RGBAAt(50, 20); got.B != 255 || got.R != 255 {
		t.Errorf("outside circle = %v, want white", got)
	}
	if got := img.RGBAAt(50, 90); got.R != 255 || got.B != 255 || got.G == 255 {
		t.Errorf("line stroke = %v, want magenta", got)
	}
}

func TestRenderTextMarksPixels(t *testing.T) {
	text := document.NewElement("w", "text", map[string]value.Value{
		"x":         value.Number(10),
		"y":         value.Number(50),
		"font-size": value.Number(26),
		"fill":      mustColor(t, "#000000"),
	})
	text.SetText("hello")
	doc := mustDoc(t, document.NewElement("", "svg", nil, text))

	img := Render(doc, Options{Width: 200, Height: 100, Background: mustColor(t, "#ffffff")})

	dark := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			c := img.RGBAAt(x, y)
			if c.R < 128 && c.G < 128 && c.B < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("text drew no pixels")
	}
}

func TestRenderIntoReusesBuffer(t *testing.T) {
	doc := mustDoc(t, document.NewElement("", "svg", nil))
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))

	RenderInto(img, doc, Options{Width: 40, Height: 40, Background: mustColor(t, "#ff0000")})
	RenderInto(img, doc, Options{Width: 40, Height: 40, Background: mustColor(t, "#00ff00")})

	if got := img.RGBAAt(20, 20); got.G != 255 || got.R != 0 {
		t.Errorf("buffer not fully overwritten: %v", got)
	}
}
