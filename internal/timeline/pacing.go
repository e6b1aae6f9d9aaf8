package timeline

import (
	"fmt"

	"github.com/fogleman/ease"
)

// Pacing maps linear time progress to eased progress. It must be monotonic
// non-decreasing on [0,1] with f(0)=0 and f(1)=1.
type Pacing func(float64) float64

// Named pacing curves accepted by documents and profiles. "linear" is the
// default and costs nothing.
var pacings = map[string]Pacing{
	"linear":            nil,
	"ease-in":           ease.InQuad,
	"ease-out":          ease.OutQuad,
	"ease-in-out":       ease.InOutQuad,
	"ease-in-cubic":     ease.InCubic,
	"ease-out-cubic":    ease.OutCubic,
	"ease-in-out-cubic": ease.InOutCubic,
	"ease-in-out-sine":  ease.InOutSine,
}

// PacingByName resolves a named pacing curve.
func PacingByName(name string) (Pacing, error) {
	p, ok := pacings[name]
	if !ok {
		return nil, fmt.Errorf("unknown pacing %q", name)
	}
	return p, nil
}
