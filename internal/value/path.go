package value

import "fmt"

// PathOp identifies one path command.
type PathOp byte

const (
	MoveTo    PathOp = 'M'
	LineTo    PathOp = 'L'
	CubicTo   PathOp = 'C'
	QuadTo    PathOp = 'Q'
	ClosePath PathOp = 'Z'
)

// PathCommand is one command with its point operands, already in absolute
// coordinates.
type PathCommand struct {
	Op  PathOp
	Pts []Point
}

// Path is an ordered command sequence. Two paths interpolate only when their
// commands align positionally and by op; anything else is reported as a
// structural mismatch rather than silently coerced.
type Path []PathCommand

func (Path) Kind() Kind { return KindPath }

func (p Path) Equal(other Value) bool {
	o, ok := other.(Path)
	if !ok || len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i].Op != o[i].Op || len(p[i].Pts) != len(o[i].Pts) {
			return false
		}
		for j := range p[i].Pts {
			if p[i].Pts[j] != o[i].Pts[j] {
				return false
			}
		}
	}
	return true
}

func (p Path) lerp(to Value, frac float64) (Value, error) {
	o := to.(Path)
	if err := p.alignable(o); err != nil {
		return nil, err
	}

	out := make(Path, len(p))
	for i := range p {
		pts := make([]Point, len(p[i].Pts))
		for j := range pts {
			pts[j] = Point{
				X: lerpFloat(p[i].Pts[j].X, o[i].Pts[j].X, frac),
				Y: lerpFloat(p[i].Pts[j].Y, o[i].Pts[j].Y, frac),
			}
		}
		out[i] = PathCommand{Op: p[i].Op, Pts: pts}
	}
	return out, nil
}

func (p Path) alignable(o Path) error {
	if len(p) != len(o) {
		return &StructuralMismatchError{
			Kind:   KindPath,
			Reason: fmt.Sprintf("command count %d vs %d", len(p), len(o)),
		}
	}
	for i := range p {
		if p[i].Op != o[i].Op {
			return &StructuralMismatchError{
				Kind:   KindPath,
				Reason: fmt.Sprintf("command %d is %c vs %c", i, p[i].Op, o[i].Op),
			}
		}
		if len(p[i].Pts) != len(o[i].Pts) {
			return &StructuralMismatchError{
				Kind:   KindPath,
				Reason: fmt.Sprintf("command %d has %d points vs %d", i, len(p[i].Pts), len(o[i].Pts)),
			}
		}
	}
	return nil
}
