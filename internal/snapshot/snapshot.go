// Package snapshot materializes the static state of an animated document at
// one instant. It is a pure function of (document, timeline, time): no
// shared mutable state, so any number of frame times can be resolved in
// parallel against the same inputs.
package snapshot

import (
	"log"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/timeline"
	"github.com/ivlev/svg2video/internal/value"
)

// Snapshot resolves every animated attribute at time t (in seconds) and
// returns a fresh document with the resolved values in place. Attributes
// whose interpolation fails are logged and left at their base value; one
// bad attribute must not abandon a frame mid-render.
func Snapshot(doc *document.Document, tl *timeline.Timeline, t float64) *document.Document {
	overrides := make(map[document.Target]value.Value)
	for _, target := range tl.Targets() {
		v, ok, err := tl.Resolve(target.ElementID, target.Attr, t)
		if err != nil {
			log.Printf("[!] %s at t=%.3fs: %v (keeping base value)", target, t, err)
			continue
		}
		if ok {
			overrides[target] = v
		}
	}
	return doc.CloneWith(overrides)
}
