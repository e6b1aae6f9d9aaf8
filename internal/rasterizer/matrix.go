package rasterizer

import (
	"math"

	"github.com/ivlev/svg2video/internal/value"
)

// matrix is a 2D affine transform: x' = a*x + c*y + e, y' = b*x + d*y + f.
type matrix struct {
	a, b, c, d, e, f float64
}

var identity = matrix{a: 1, d: 1}

// mul composes m with n so that n applies first.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

func (m matrix) apply(p value.Point) value.Point {
	return value.Point{
		X: m.a*p.X + m.c*p.Y + m.e,
		Y: m.b*p.X + m.d*p.Y + m.f,
	}
}

func translation(tx, ty float64) matrix {
	return matrix{a: 1, d: 1, e: tx, f: ty}
}

func scaling(sx, sy float64) matrix {
	return matrix{a: sx, d: sy}
}

func rotation(deg float64) matrix {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return matrix{a: cos, b: sin, c: -sin, d: cos}
}

// transformMatrix folds an ordered component list into one matrix.
func transformMatrix(t value.Transform) matrix {
	m := identity
	for _, comp := range t {
		switch comp.Op {
		case value.Translate:
			ty := 0.0
			if len(comp.Args) > 1 {
				ty = comp.Args[1]
			}
			m = m.mul(translation(comp.Args[0], ty))
		case value.Scale:
			sy := comp.Args[0]
			if len(comp.Args) > 1 {
				sy = comp.Args[1]
			}
			m = m.mul(scaling(comp.Args[0], sy))
		case value.Rotate:
			if len(comp.Args) == 3 {
				cx, cy := comp.Args[1], comp.Args[2]
				m = m.mul(translation(cx, cy)).mul(rotation(comp.Args[0])).mul(translation(-cx, -cy))
			} else {
				m = m.mul(rotation(comp.Args[0]))
			}
		}
	}
	return m
}
