package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA attribute value. Channels live in [0,1]. Interpolation
// is a plain linear blend per channel; the downstream raster pipeline cannot
// represent alpha transparency, so nothing fancier is warranted here.
type Color struct {
	C colorful.Color
	A float64
}

func (Color) Kind() Kind { return KindColor }

func (c Color) Equal(other Value) bool {
	o, ok := other.(Color)
	return ok && c == o
}

func (c Color) lerp(to Value, p float64) (Value, error) {
	o := to.(Color)
	return Color{
		C: c.C.BlendRgb(o.C, p),
		A: lerpFloat(c.A, o.A, p),
	}, nil
}

// RGBA255 returns the channels scaled to 0..255.
func (c Color) RGBA255() (r, g, b, a uint8) {
	r, g, b = c.C.Clamped().RGB255()
	a = uint8(clamp01(c.A)*255 + 0.5)
	return r, g, b, a
}

// Hex returns the #rrggbb form, dropping alpha.
func (c Color) Hex() string {
	return c.C.Clamped().Hex()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// The handful of keyword colors the slideshow configs actually use.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"maroon":  "#800000",
	"navy":    "#000080",
	"teal":    "#008080",
	"olive":   "#808000",
	"lime":    "#00ff00",
	"aqua":    "#00ffff",
	"cyan":    "#00ffff",
	"fuchsia": "#ff00ff",
	"magenta": "#ff00ff",
}

// ParseColor reads #hex, rgb(...), rgba(...) and keyword colors. rgb()
// components may be 0..255 integers or 0..1 floats; the alpha component of
// rgba() is always 0..1.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	if hex, ok := namedColors[lower]; ok {
		lower = hex
	}

	if strings.HasPrefix(lower, "#") {
		c, err := colorful.Hex(lower)
		if err != nil {
			return Color{}, fmt.Errorf("bad hex color %q: %w", s, err)
		}
		return Color{C: c, A: 1}, nil
	}

	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		open := strings.Index(lower, "(")
		if !strings.HasSuffix(lower, ")") {
			return Color{}, fmt.Errorf("bad color %q: missing )", s)
		}
		body := lower[open+1 : len(lower)-1]
		parts := strings.Split(body, ",")
		wantAlpha := strings.HasPrefix(lower, "rgba(")
		if (wantAlpha && len(parts) != 4) || (!wantAlpha && len(parts) != 3) {
			return Color{}, fmt.Errorf("bad color %q: wrong component count", s)
		}

		comps := make([]float64, len(parts))
		scale255 := false
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return Color{}, fmt.Errorf("bad color %q: %w", s, err)
			}
			comps[i] = v
			if i < 3 && v > 1 {
				scale255 = true
			}
		}
		if scale255 {
			for i := 0; i < 3; i++ {
				comps[i] /= 255
			}
		}

		c := Color{
			C: colorful.Color{R: clamp01(comps[0]), G: clamp01(comps[1]), B: clamp01(comps[2])},
			A: 1,
		}
		if wantAlpha {
			c.A = clamp01(comps[3])
		}
		return c, nil
	}

	return Color{}, fmt.Errorf("unrecognized color %q", s)
}
