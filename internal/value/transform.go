package value

import "fmt"

// TransformOp identifies one affine component.
type TransformOp string

const (
	Translate TransformOp = "translate"
	Scale     TransformOp = "scale"
	Rotate    TransformOp = "rotate"
)

// TransformComponent is one affine operation with its numeric arguments:
// translate(tx [ty]), scale(sx [sy]), rotate(deg [cx cy]).
type TransformComponent struct {
	Op   TransformOp
	Args []float64
}

// Transform is an ordered list of affine components, applied left to right.
// Interpolation is component-wise and requires both lists to align by op and
// argument count.
type Transform []TransformComponent

func (Transform) Kind() Kind { return KindTransform }

func (t Transform) Equal(other Value) bool {
	o, ok := other.(Transform)
	if !ok || len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i].Op != o[i].Op || len(t[i].Args) != len(o[i].Args) {
			return false
		}
		for j := range t[i].Args {
			if t[i].Args[j] != o[i].Args[j] {
				return false
			}
		}
	}
	return true
}

func (t Transform) lerp(to Value, p float64) (Value, error) {
	o := to.(Transform)
	if err := t.alignable(o); err != nil {
		return nil, err
	}

	out := make(Transform, len(t))
	for i := range t {
		args := make([]float64, len(t[i].Args))
		for j := range args {
			args[j] = lerpFloat(t[i].Args[j], o[i].Args[j], p)
		}
		out[i] = TransformComponent{Op: t[i].Op, Args: args}
	}
	return out, nil
}

func (t Transform) alignable(o Transform) error {
	if len(t) != len(o) {
		return &StructuralMismatchError{
			Kind:   KindTransform,
			Reason: fmt.Sprintf("component count %d vs %d", len(t), len(o)),
		}
	}
	for i := range t {
		if t[i].Op != o[i].Op {
			return &StructuralMismatchError{
				Kind:   KindTransform,
				Reason: fmt.Sprintf("component %d is %s vs %s", i, t[i].Op, o[i].Op),
			}
		}
		if len(t[i].Args) != len(o[i].Args) {
			return &StructuralMismatchError{
				Kind:   KindTransform,
				Reason: fmt.Sprintf("component %d has %d args vs %d", i, len(t[i].Args), len(o[i].Args)),
			}
		}
	}
	return nil
}
