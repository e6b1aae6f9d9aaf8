package timeline

import (
	"fmt"

	"github.com/ivlev/svg2video/internal/document"
)

// KeyframeOrderError reports a malformed keyframe declaration, caught when
// the timeline is built so a bad document fails before any frame work.
type KeyframeOrderError struct {
	Target document.Target
	Index  int
	Reason string
}

func (e *KeyframeOrderError) Error() string {
	return fmt.Sprintf("segment %s: keyframe %d: %s", e.Target, e.Index, e.Reason)
}
