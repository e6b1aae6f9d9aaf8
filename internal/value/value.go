// Package value defines the typed quantities an animation can target and
// the interpolation between them. Each kind knows how to blend with another
// value of the same kind; mixing kinds is a structural error reported to
// the caller, never coerced.
package value

import "fmt"

// Kind tags a Value. Two values must share a Kind to be interpolated.
type Kind int

const (
	KindNumber Kind = iota
	KindColor
	KindPoint
	KindPath
	KindTransform
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindColor:
		return "color"
	case KindPoint:
		return "point"
	case KindPath:
		return "path"
	case KindTransform:
		return "transform"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is one animatable quantity.
type Value interface {
	Kind() Kind

	// Equal reports structural equality with another value of any kind.
	Equal(other Value) bool

	// lerp blends toward a value of the same kind at fraction p in (0,1).
	// Interpolate has already checked the kinds and the boundaries.
	lerp(to Value, p float64) (Value, error)
}

// Interpolate returns the value at fraction p between from and to.
// At p <= 0 it returns from and at p >= 1 it returns to exactly, so segment
// boundaries never accumulate floating point drift.
func Interpolate(from, to Value, p float64) (Value, error) {
	if from.Kind() != to.Kind() {
		return nil, &TypeMismatchError{From: from.Kind(), To: to.Kind()}
	}
	if p <= 0 {
		return from, nil
	}
	if p >= 1 {
		return to, nil
	}
	return from.lerp(to, p)
}

func lerpFloat(a, b, p float64) float64 {
	return a + p*(b-a)
}

// Number is a scalar attribute value (coordinate, size, opacity).
type Number float64

func (Number) Kind() Kind { return KindNumber }

func (n Number) Equal(other Value) bool {
	o, ok := other.(Number)
	return ok && n == o
}

func (n Number) lerp(to Value, p float64) (Value, error) {
	o := to.(Number)
	return Number(lerpFloat(float64(n), float64(o), p)), nil
}

// Point is a position on the canvas.
type Point struct {
	X, Y float64
}

func (Point) Kind() Kind { return KindPoint }

func (pt Point) Equal(other Value) bool {
	o, ok := other.(Point)
	return ok && pt == o
}

func (pt Point) lerp(to Value, p float64) (Value, error) {
	o := to.(Point)
	return Point{
		X: lerpFloat(pt.X, o.X, p),
		Y: lerpFloat(pt.Y, o.Y, p),
	}, nil
}
