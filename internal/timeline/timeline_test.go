package timeline

import (
	"errors"
	"math"
	"testing"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/value"
)

func baseDoc(t *testing.T) *document.Document {
	t.Helper()
	box := document.NewElement("box", "rect", map[string]value.Value{
		"x":    value.Number(0),
		"fill": mustColor(t, "#000000"),
	})
	doc, err := document.New(document.NewElement("root", "svg", nil, box))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func mustColor(t *testing.T, s string) value.Color {
	t.Helper()
	c, err := value.ParseColor(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestBuildRejectsUnknownElement(t *testing.T) {
	doc := baseDoc(t)
	segs := []Segment{FromTo(document.Target{ElementID: "ghost", Attr: "x"}, 0, 1,
		value.Number(0), value.Number(1))}

	_, err := Build(doc, segs)
	var nf *document.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestBuildRejectsMissingAttribute(t *testing.T) {
	doc := baseDoc(t)
	segs := []Segment{FromTo(document.Target{ElementID: "box", Attr: "opacity"}, 0, 1,
		value.Number(0), value.Number(1))}

	_, err := Build(doc, segs)
	var missing *document.AttributeMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected AttributeMissingError, got %v", err)
	}
}

func TestBuildRejectsKindMismatch(t *testing.T) {
	doc := baseDoc(t)
	segs := []Segment{FromTo(document.Target{ElementID: "box", Attr: "x"}, 0, 1,
		mustColor(t, "#fff000"), mustColor(t, "#000fff"))}

	_, err := Build(doc, segs)
	var mismatch *value.TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
}

func TestBuildRejectsBadKeyframes(t *testing.T) {
	doc := baseDoc(t)
	target := document.Target{ElementID: "box", Attr: "x"}

	bad := []Segment{
		{Target: target, Begin: 0, Dur: 1, Keyframes: []Keyframe{
			{Offset: 0, Value: value.Number(0)},
		}},
		{Target: target, Begin: 0, Dur: 1, Keyframes: []Keyframe{
			{Offset: 0.5, Value: value.Number(0)},
			{Offset: 0.5, Value: value.Number(1)},
		}},
		{Target: target, Begin: 0, Dur: 1, Keyframes: []Keyframe{
			{Offset: 0, Value: value.Number(0)},
			{Offset: 1.5, Value: value.Number(1)},
		}},
		{Target: target, Begin: -1, Dur: 1, Keyframes: []Keyframe{
			{Offset: 0, Value: value.Number(0)},
			{Offset: 1, Value: value.Number(1)},
		}},
	}

	for i, s := range bad {
		_, err := Build(doc, []Segment{s})
		var order *KeyframeOrderError
		if !errors.As(err, &order) {
			t.Errorf("case %d: expected KeyframeOrderError, got %v", i, err)
		}
	}
}

func TestResolveNoOverride(t *testing.T) {
	doc := baseDoc(t)
	tl, err := Build(doc, []Segment{
		FromTo(document.Target{ElementID: "box", Attr: "x"}, 5, 1, value.Number(0), value.Number(1)),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := tl.Resolve("box", "x", 2); ok {
		t.Error("resolved a value before the segment starts")
	}
	if _, ok, _ := tl.Resolve("box", "fill", 5.5); ok {
		t.Error("resolved a value for an attribute with no segments")
	}
}

func TestResolveOverlapLastWins(t *testing.T) {
	doc := baseDoc(t)
	target := document.Target{ElementID: "box", Attr: "x"}

	// Declared first but starting later vs declared later starting earlier:
	// within the overlap the later *start* governs.
	late := FromTo(target, 4, 10, value.Number(1000), value.Number(2000))
	early := FromTo(target, 0, 10, value.Number(0), value.Number(100))

	tl, err := Build(doc, []Segment{late, early})
	if err != nil {
		t.Fatal(err)
	}

	v, ok, err := tl.Resolve("box", "x", 2)
	if err != nil || !ok {
		t.Fatalf("Resolve(2): ok=%v err=%v", ok, err)
	}
	if !v.Equal(value.Number(20)) {
		t.Errorf("before overlap = %#v, want 20 (early segment)", v)
	}

	v, ok, err = tl.Resolve("box", "x", 9)
	if err != nil || !ok {
		t.Fatalf("Resolve(9): ok=%v err=%v", ok, err)
	}
	if !v.Equal(value.Number(1500)) {
		t.Errorf("in overlap = %#v, want 1500 (late segment)", v)
	}
}

func TestResolveTieBrokenByDeclarationOrder(t *testing.T) {
	doc := baseDoc(t)
	target := document.Target{ElementID: "box", Attr: "x"}

	first := FromTo(target, 0, 10, value.Number(0), value.Number(100))
	second := FromTo(target, 0, 10, value.Number(0), value.Number(200))

	tl, err := Build(doc, []Segment{first, second})
	if err != nil {
		t.Fatal(err)
	}

	v, ok, err := tl.Resolve("box", "x", 5)
	if err != nil || !ok {
		t.Fatal(err)
	}
	if !v.Equal(value.Number(100)) {
		t.Errorf("tie = %#v, want 100 (later declaration)", v)
	}
}

func TestTimelineEnd(t *testing.T) {
	doc := baseDoc(t)
	target := document.Target{ElementID: "box", Attr: "x"}

	a := FromTo(target, 0, 3, value.Number(0), value.Number(1))
	b := FromTo(target, 2, 4, value.Number(0), value.Number(1))
	b.Repeat = Repeat{Count: 2}
	looping := FromTo(target, 0, 1, value.Number(0), value.Number(1))
	looping.Repeat = Repeat{Count: math.Inf(1)}

	tl, err := Build(doc, []Segment{a, b, looping})
	if err != nil {
		t.Fatal(err)
	}
	if got := tl.End(); got != 10 {
		t.Errorf("End() = %g, want 10 (2 + 4*2)", got)
	}
}
