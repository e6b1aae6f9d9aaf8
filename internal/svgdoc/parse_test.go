package svgdoc

import (
	"math"
	"strings"
	"testing"

	"github.com/ivlev/svg2video/internal/timeline"
	"github.com/ivlev/svg2video/internal/value"
)

const sampleSVG = `<?xml version="1.0" encoding="utf-8"?>
<svg width="1920" height="1080" baseProfile="full" version="1.1" xmlns="http://www.w3.org/2000/svg">
  <g id="page1" fill-opacity="0.1">
    <text id="w1" x="100" y="200" font-size="64" font-family="NotoSans" fill="#333333" stroke="#333333">hello
      <set attributeName="x" attributeType="XML" to="2020" begin="0.0s" dur="1.3s"/>
      <animate attributeName="x" from="2020" to="100" begin="1.3s" dur="1.2s"/>
      <animate attributeName="fill" from="#333333" to="#ffcc00" begin="1.3s" dur="1.2s" fill="freeze"/>
    </text>
    <rect id="box" x="1000" y="500" width="400" height="200" stroke="#6688AA" fill="rgba(0.0, 0.0, 0.0, 0.5)">
      <animate attributeName="width" values="400; 600; 400" keyTimes="0; 0.25; 1" begin="2s" dur="4s" repeatCount="2"/>
    </rect>
    <path d="M 50 50 L 100 100">
      <animate attributeName="d" from="M 50 50 L 100 100" to="M 0 0 L 200 200" begin="0s" dur="4s"/>
    </path>
    <g transform="translate(10 20)">
      <animateTransform attributeName="transform" type="rotate" from="0 150 150" to="360 150 150" begin="0s" dur="4s" repeatCount="1"/>
    </g>
  </g>
</svg>`

func TestParseDocument(t *testing.T) {
	doc, segs, err := Parse(strings.NewReader(sampleSVG))
	if err != nil {
		t.Fatal(err)
	}

	root := doc.Root()
	if root.Tag() != "svg" {
		t.Fatalf("root tag = %s", root.Tag())
	}
	if v, _ := root.Attr("width"); !v.Equal(value.Number(1920)) {
		t.Errorf("svg width = %#v", v)
	}
	if root.Extra("xmlns") == "" {
		t.Error("xmlns not carried through")
	}

	w1, err := doc.Lookup("w1")
	if err != nil {
		t.Fatal(err)
	}
	if w1.Text() != "hello" {
		t.Errorf("text content = %q", w1.Text())
	}
	if w1.Extra("font-family") != "NotoSans" {
		t.Errorf("font-family = %q", w1.Extra("font-family"))
	}
	if v, _ := w1.Attr("fill"); v.Kind() != value.KindColor {
		t.Errorf("fill kind = %s", v.Kind())
	}

	if len(segs) != 6 {
		t.Fatalf("segment count = %d, want 6", len(segs))
	}

	// Segments arrive in declaration order; the timeline must build.
	if _, err := timeline.Build(doc, segs); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestParseSetSegment(t *testing.T) {
	_, segs, err := Parse(strings.NewReader(sampleSVG))
	if err != nil {
		t.Fatal(err)
	}

	set := segs[0]
	if set.Target.ElementID != "w1" || set.Target.Attr != "x" {
		t.Fatalf("set target = %s", set.Target)
	}
	if set.Begin != 0 || math.Abs(set.Dur-1.3) > 1e-9 {
		t.Errorf("set timing = begin %g dur %g", set.Begin, set.Dur)
	}
	// A set holds one value for its whole window.
	v, active, err := set.ValueAt(0.5)
	if err != nil || !active || !v.Equal(value.Number(2020)) {
		t.Errorf("set ValueAt(0.5) = (%#v,%v,%v)", v, active, err)
	}
	if _, active := set.Progress(2); active {
		t.Error("set still active after its window")
	}
}

func TestParseFreezeAndRepeat(t *testing.T) {
	_, segs, err := Parse(strings.NewReader(sampleSVG))
	if err != nil {
		t.Fatal(err)
	}

	fade := segs[2]
	if fade.Fill.After != timeline.FillHold {
		t.Error("fill=freeze not mapped to hold-after")
	}

	pulse := segs[3]
	if pulse.Repeat.Count != 2 {
		t.Errorf("repeatCount = %g", pulse.Repeat.Count)
	}
	if len(pulse.Keyframes) != 3 {
		t.Fatalf("keyframe count = %d", len(pulse.Keyframes))
	}
	if pulse.Keyframes[1].Offset != 0.25 {
		t.Errorf("keyTimes offset = %g", pulse.Keyframes[1].Offset)
	}
	// 2s + 25% of 4s = 3s should sit exactly on the middle stop.
	v, _, err := pulse.ValueAt(3)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Equal(value.Number(600)) {
		t.Errorf("pulse ValueAt(3) = %#v, want 600", v)
	}
}

func TestParseAnonymousTargets(t *testing.T) {
	doc, segs, err := Parse(strings.NewReader(sampleSVG))
	if err != nil {
		t.Fatal(err)
	}

	// The <path> and inner <g> have no ids but carry animations; they get
	// minted ones that resolve in the document.
	pathSeg := segs[4]
	if pathSeg.Target.Attr != "d" {
		t.Fatalf("expected path segment, got %s", pathSeg.Target)
	}
	if pathSeg.Target.ElementID == "" {
		t.Fatal("path segment has empty target id")
	}
	if _, err := doc.Lookup(pathSeg.Target.ElementID); err != nil {
		t.Errorf("minted id does not resolve: %v", err)
	}
}

func TestParseAnimateTransformComposesBase(t *testing.T) {
	doc, segs, err := Parse(strings.NewReader(sampleSVG))
	if err != nil {
		t.Fatal(err)
	}

	rot := segs[5]
	if rot.Target.Attr != "transform" {
		t.Fatalf("target = %s", rot.Target)
	}

	from := rot.Keyframes[0].Value.(value.Transform)
	if len(from) != 2 {
		t.Fatalf("from components = %d, want base translate + rotate", len(from))
	}
	if from[0].Op != value.Translate || from[0].Args[0] != 10 || from[0].Args[1] != 20 {
		t.Errorf("base translate not preserved: %#v", from[0])
	}
	if from[1].Op != value.Rotate || from[1].Args[0] != 0 {
		t.Errorf("animated rotate wrong: %#v", from[1])
	}

	// Halfway: translate stays, rotation at 180.
	v, _, err := rot.ValueAt(2)
	if err != nil {
		t.Fatal(err)
	}
	tr := v.(value.Transform)
	if tr[1].Args[0] != 180 {
		t.Errorf("rotation at 2s = %g, want 180", tr[1].Args[0])
	}

	// The owning element got a transform base attribute.
	owner, err := doc.Lookup(rot.Target.ElementID)
	if err != nil {
		t.Fatal(err)
	}
	if !owner.HasAttr("transform") {
		t.Error("owner lost its transform attribute")
	}
}

func TestParsePathData(t *testing.T) {
	p, err := ParsePathData("M 50 50 L 100 100")
	if err != nil {
		t.Fatal(err)
	}
	want := value.Path{
		{Op: value.MoveTo, Pts: []value.Point{{X: 50, Y: 50}}},
		{Op: value.LineTo, Pts: []value.Point{{X: 100, Y: 100}}},
	}
	if !p.Equal(want) {
		t.Errorf("parsed path = %#v", p)
	}

	// Relative commands, shorthand H/V, comma separators, close.
	p, err = ParsePathData("M10,10 l10,0 v10 h-10 Z")
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 5 || p[4].Op != value.ClosePath {
		t.Fatalf("parsed %d commands: %#v", len(p), p)
	}
	if p[2].Pts[0] != (value.Point{X: 20, Y: 20}) {
		t.Errorf("relative v landed at %#v", p[2].Pts[0])
	}
	if p[3].Pts[0] != (value.Point{X: 10, Y: 20}) {
		t.Errorf("relative h landed at %#v", p[3].Pts[0])
	}

	// Curves with negative numbers glued on.
	p, err = ParsePathData("M0 0C10 20 30-40 50 60")
	if err != nil {
		t.Fatal(err)
	}
	if p[1].Op != value.CubicTo || p[1].Pts[1] != (value.Point{X: 30, Y: -40}) {
		t.Errorf("cubic parse: %#v", p[1])
	}

	for _, bad := range []string{"", "L 10 10 M", "M 10", "M 0 0 A 1 1 0 0 0 5 5"} {
		if _, err := ParsePathData(bad); err == nil {
			t.Errorf("ParsePathData(%q) should fail", bad)
		}
	}
}

func TestWriteStaticDocument(t *testing.T) {
	doc, segs, err := Parse(strings.NewReader(sampleSVG))
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) == 0 {
		t.Fatal("no segments")
	}

	out, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)

	for _, want := range []string{
		`<svg`,
		`width="1920"`,
		`id="w1"`,
		`font-family="NotoSans"`,
		`d="M 50 50 L 100 100"`,
		`transform="translate(10 20)"`,
		`>hello</text>`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q\n%s", want, text)
		}
	}
	if strings.Contains(text, "<animate") || strings.Contains(text, "_anim") {
		t.Error("static output leaked animation elements or minted ids")
	}
}
