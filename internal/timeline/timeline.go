package timeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/value"
)

type trackSegment struct {
	seg  Segment
	decl int
}

// Timeline maps each animated (element, attribute) pair to its segments,
// ordered by begin time. Built once per document, read-only afterwards, and
// therefore safe to share across parallel snapshot calls.
type Timeline struct {
	tracks  map[document.Target][]trackSegment
	targets []document.Target
}

// Build validates every segment against the base document and indexes them.
// Any structural problem (unknown target, missing attribute, value kind not
// matching the base attribute, malformed keyframes) rejects the whole
// document here, before any rendering starts.
func Build(doc *document.Document, segments []Segment) (*Timeline, error) {
	tl := &Timeline{tracks: make(map[document.Target][]trackSegment)}

	for i, s := range segments {
		where := func(err error) error {
			return fmt.Errorf("segment %d (%s, begin=%gs dur=%gs): %w",
				i, s.Target, s.Begin, s.Dur, err)
		}

		elem, err := doc.Lookup(s.Target.ElementID)
		if err != nil {
			return nil, where(err)
		}
		base, err := elem.Attr(s.Target.Attr)
		if err != nil {
			return nil, where(err)
		}
		if err := s.validate(); err != nil {
			return nil, where(err)
		}
		if got := s.Keyframes[0].Value.Kind(); got != base.Kind() {
			return nil, where(&value.TypeMismatchError{From: base.Kind(), To: got})
		}

		tl.tracks[s.Target] = append(tl.tracks[s.Target], trackSegment{seg: s, decl: i})
	}

	for target, track := range tl.tracks {
		// Stable by begin time keeps declaration order inside ties, which
		// is exactly the tiebreak Resolve relies on.
		sort.SliceStable(track, func(a, b int) bool {
			return track[a].seg.Begin < track[b].seg.Begin
		})
		tl.tracks[target] = track
		tl.targets = append(tl.targets, target)
	}
	sort.Slice(tl.targets, func(a, b int) bool {
		if tl.targets[a].ElementID != tl.targets[b].ElementID {
			return tl.targets[a].ElementID < tl.targets[b].ElementID
		}
		return tl.targets[a].Attr < tl.targets[b].Attr
	})

	return tl, nil
}

// Targets lists every animated (element, attribute) pair in deterministic
// order.
func (tl *Timeline) Targets() []document.Target {
	return tl.targets
}

// Resolve returns the value governing the attribute at time t, or ok=false
// when no segment is active and the base document value stands. Overlapping
// segments resolve to the one with the latest begin time; ties go to the
// later declaration. Both orderings are total, so resolution is always
// unambiguous.
func (tl *Timeline) Resolve(id, attr string, t float64) (value.Value, bool, error) {
	track := tl.tracks[document.Target{ElementID: id, Attr: attr}]

	chosen := -1
	for i := range track {
		if _, active := track[i].seg.Progress(t); active {
			chosen = i
		}
	}
	if chosen < 0 {
		return nil, false, nil
	}

	v, active, err := track[chosen].seg.ValueAt(t)
	if err != nil {
		return nil, false, err
	}
	return v, active, nil
}

// End reports the time after which nothing changes any more, which is a
// sensible default render duration. Indefinitely repeating segments are
// ignored; a document holding only those reports 0.
func (tl *Timeline) End() float64 {
	end := 0.0
	for _, track := range tl.tracks {
		for i := range track {
			e := track[i].seg.End()
			if !math.IsInf(e, 1) && e > end {
				end = e
			}
		}
	}
	return end
}
