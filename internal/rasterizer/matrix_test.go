package rasterizer

import (
	"math"
	"testing"

	"github.com/ivlev/svg2video/internal/value"
)

func TestTransformMatrixComposition(t *testing.T) {
	m := transformMatrix(value.Transform{
		{Op: value.Translate, Args: []float64{10, 20}},
		{Op: value.Scale, Args: []float64{2}},
	})

	got := m.apply(value.Point{X: 3, Y: 4})
	if got.X != 16 || got.Y != 28 {
		t.Errorf("translate+scale applied = %v, want (16,28)", got)
	}
}

func TestTransformMatrixRotateAboutCenter(t *testing.T) {
	m := transformMatrix(value.Transform{
		{Op: value.Rotate, Args: []float64{90, 150, 150}},
	})

	// A point right of the pivot moves below it under a 90 degree turn.
	got := m.apply(value.Point{X: 160, Y: 150})
	if math.Abs(got.X-150) > 1e-9 || math.Abs(got.Y-160) > 1e-9 {
		t.Errorf("rotated point = (%g,%g), want (150,160)", got.X, got.Y)
	}

	// The pivot itself stays put.
	pivot := m.apply(value.Point{X: 150, Y: 150})
	if math.Abs(pivot.X-150) > 1e-9 || math.Abs(pivot.Y-150) > 1e-9 {
		t.Errorf("pivot moved to (%g,%g)", pivot.X, pivot.Y)
	}
}
