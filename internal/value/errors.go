package value

import "fmt"

// TypeMismatchError reports an interpolation between values of different
// kinds. It never aborts a whole snapshot; the affected attribute stays at
// its base value.
type TypeMismatchError struct {
	From, To Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot interpolate %s with %s", e.From, e.To)
}

// StructuralMismatchError reports two values of the same kind whose internal
// shape does not line up (path command sequences, transform component lists).
type StructuralMismatchError struct {
	Kind   Kind
	Reason string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("%s values are not alignable: %s", e.Kind, e.Reason)
}
