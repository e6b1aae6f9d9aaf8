// Package timeline turns a flat list of declared animations into a
// time-indexed structure: for every (element, attribute) pair it keeps the
// segments that may govern it, and resolves which value (if any) applies at
// an arbitrary query time.
package timeline

import (
	"math"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/value"
)

// FillMode governs an attribute outside a segment's active interval.
type FillMode int

const (
	// FillRemove makes the segment contribute nothing outside its interval.
	FillRemove FillMode = iota
	// FillHold clamps to the boundary value (freeze semantics after the
	// end, hold-at-start before the beginning).
	FillHold
)

// Fill pairs the before-start and after-end policies.
type Fill struct {
	Before FillMode
	After  FillMode
}

// Repeat describes cycling. Count 0 means no repetition, +Inf indefinite.
// Dur, when non-zero, cuts repetition off after that many seconds of active
// time regardless of Count.
type Repeat struct {
	Count float64
	Dur   float64
}

// Keyframe is one stop along a segment, at a normalized offset in [0,1].
type Keyframe struct {
	Offset float64
	Value  value.Value
}

// Segment is one declared animation of one attribute. It is created at
// parse time and never mutated afterwards.
type Segment struct {
	Target document.Target

	// Begin and Dur are in seconds. Dur 0 is the degenerate step case: the
	// final value applies from Begin onward.
	Begin float64
	Dur   float64

	// Keyframes holds at least two stops with strictly increasing offsets.
	// A simple from→to animation is the two-stop case {0,from},{1,to}.
	Keyframes []Keyframe

	// Discrete disables interpolation between stops (calcMode="discrete").
	Discrete bool

	Pacing Pacing
	Fill   Fill
	Repeat Repeat
}

// FromTo builds the common two-stop segment.
func FromTo(target document.Target, begin, dur float64, from, to value.Value) Segment {
	return Segment{
		Target: target,
		Begin:  begin,
		Dur:    dur,
		Keyframes: []Keyframe{
			{Offset: 0, Value: from},
			{Offset: 1, Value: to},
		},
	}
}

// Progress reports how far along the segment is at time t as a fraction in
// [0,1] after pacing, and whether the segment governs its attribute at all
// at that time. Repeats fold t into the current cycle; fill policies decide
// the regions outside the active interval.
func (s *Segment) Progress(t float64) (float64, bool) {
	if t < s.Begin {
		return 0, s.Fill.Before == FillHold
	}
	if s.Dur == 0 {
		// Step: the end state applies from Begin onward.
		return 1, true
	}

	since := t - s.Begin
	repeating := s.Repeat.Count != 0 || s.Repeat.Dur != 0

	if !repeating {
		if since > s.Dur {
			return 1, s.Fill.After == FillHold
		}
		if since == s.Dur {
			return 1, true
		}
		return s.pace(since / s.Dur), true
	}

	if s.Repeat.Dur > 0 && since >= s.Repeat.Dur {
		// Frozen at whatever phase the cutoff landed on.
		phase := math.Mod(s.Repeat.Dur, s.Dur) / s.Dur
		if phase == 0 {
			phase = 1
		}
		return s.pace(phase), s.Fill.After == FillHold
	}

	if s.Repeat.Count > 0 && !math.IsInf(s.Repeat.Count, 1) {
		if since >= s.Dur*s.Repeat.Count {
			return 1, s.Fill.After == FillHold
		}
	}

	return s.pace(math.Mod(since, s.Dur) / s.Dur), true
}

func (s *Segment) pace(p float64) float64 {
	if s.Pacing == nil {
		return p
	}
	return s.Pacing(p)
}

// ValueAt resolves the segment's value at time t. The second return is
// false when the segment does not govern its attribute at t. Interpolation
// failures are returned to the caller, which degrades that attribute to its
// base value rather than aborting the frame.
func (s *Segment) ValueAt(t float64) (value.Value, bool, error) {
	p, active := s.Progress(t)
	if !active {
		return nil, false, nil
	}

	kfs := s.Keyframes
	if p <= kfs[0].Offset {
		return kfs[0].Value, true, nil
	}
	last := kfs[len(kfs)-1]
	if p >= last.Offset {
		return last.Value, true, nil
	}

	for i := 0; i < len(kfs)-1; i++ {
		a, b := kfs[i], kfs[i+1]
		if p < a.Offset || p > b.Offset {
			continue
		}
		if s.Discrete {
			return a.Value, true, nil
		}
		local := (p - a.Offset) / (b.Offset - a.Offset)
		v, err := value.Interpolate(a.Value, b.Value, local)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	return last.Value, true, nil
}

// End reports when the segment stops changing anything, ignoring fill.
// Indefinite repetition has no end and reports +Inf.
func (s *Segment) End() float64 {
	if s.Repeat.Dur > 0 {
		return s.Begin + s.Repeat.Dur
	}
	if s.Repeat.Count > 0 {
		if math.IsInf(s.Repeat.Count, 1) {
			return math.Inf(1)
		}
		return s.Begin + s.Dur*s.Repeat.Count
	}
	return s.Begin + s.Dur
}

// validate checks the structural invariants that must hold before any
// snapshot is taken.
func (s *Segment) validate() error {
	if s.Begin < 0 {
		return &KeyframeOrderError{Target: s.Target, Reason: "begin time is negative"}
	}
	if s.Dur < 0 {
		return &KeyframeOrderError{Target: s.Target, Reason: "duration is negative"}
	}
	if len(s.Keyframes) < 2 {
		return &KeyframeOrderError{Target: s.Target, Reason: "fewer than two keyframes"}
	}

	kind := s.Keyframes[0].Value.Kind()
	prev := math.Inf(-1)
	for i, kf := range s.Keyframes {
		if kf.Offset < 0 || kf.Offset > 1 {
			return &KeyframeOrderError{Target: s.Target, Index: i, Reason: "offset outside [0,1]"}
		}
		if kf.Offset <= prev {
			return &KeyframeOrderError{Target: s.Target, Index: i, Reason: "offsets not strictly increasing"}
		}
		prev = kf.Offset
		if kf.Value.Kind() != kind {
			return &value.TypeMismatchError{From: kind, To: kf.Value.Kind()}
		}
	}
	return nil
}

// Retime returns a copy of segments with all times scaled then shifted.
// This runs on the raw declaration list, before a Timeline is built; a built
// timeline is never modified.
func Retime(segments []Segment, scale, offset float64) []Segment {
	if scale == 0 {
		scale = 1
	}
	out := make([]Segment, len(segments))
	for i, s := range segments {
		s.Begin = s.Begin*scale + offset
		if s.Begin < 0 {
			s.Begin = 0
		}
		s.Dur *= scale
		s.Repeat.Dur *= scale
		out[i] = s
	}
	return out
}
