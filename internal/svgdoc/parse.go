// Package svgdoc adapts a small SVG/SMIL subset to the animation engine:
// it reduces markup to a base document plus a flat list of animation
// segments, and can serialize a resolved static document back to SVG text.
// The subset is the one the slideshow generator emits: shape and text
// elements with animate/set/animateTransform children nested in their
// targets, single begin/dur clock values, from/to or values/keyTimes,
// fill=freeze and the repeat attributes. Event-driven timing, xlink:href
// targeting and keySplines are out of scope.
package svgdoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/timeline"
	"github.com/ivlev/svg2video/internal/value"
)

// attrKinds maps animatable attribute names to their value kinds. Anything
// else rides along untyped and cannot be animated.
var attrKinds = map[string]value.Kind{
	"x":              value.KindNumber,
	"y":              value.KindNumber,
	"width":          value.KindNumber,
	"height":         value.KindNumber,
	"cx":             value.KindNumber,
	"cy":             value.KindNumber,
	"r":              value.KindNumber,
	"rx":             value.KindNumber,
	"ry":             value.KindNumber,
	"x1":             value.KindNumber,
	"y1":             value.KindNumber,
	"x2":             value.KindNumber,
	"y2":             value.KindNumber,
	"font-size":      value.KindNumber,
	"opacity":        value.KindNumber,
	"fill-opacity":   value.KindNumber,
	"stroke-opacity": value.KindNumber,
	"stroke-width":   value.KindNumber,
	"fill":           value.KindColor,
	"stroke":         value.KindColor,
	"d":              value.KindPath,
	"transform":      value.KindTransform,
}

type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []xmlNode  `xml:",any"`
	Text    string     `xml:",chardata"`
}

// Load reads an animated SVG file.
func Load(path string) (*document.Document, []timeline.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reduces animated SVG markup to a base document and its segments.
func Parse(r io.Reader) (*document.Document, []timeline.Segment, error) {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, nil, fmt.Errorf("svg parse: %w", err)
	}
	if root.XMLName.Local != "svg" {
		return nil, nil, fmt.Errorf("root element is <%s>, want <svg>", root.XMLName.Local)
	}

	p := &parser{}
	rootElem, err := p.element(root)
	if err != nil {
		return nil, nil, err
	}
	doc, err := document.New(rootElem)
	if err != nil {
		return nil, nil, err
	}
	return doc, p.segments, nil
}

type parser struct {
	segments []timeline.Segment
	anon     int
}

func isAnimationTag(local string) bool {
	switch local {
	case "animate", "set", "animateTransform":
		return true
	}
	return false
}

func (p *parser) element(n xmlNode) (*document.Element, error) {
	var (
		id     string
		attrs  = make(map[string]value.Value)
		extras [][2]string
	)

	for _, a := range n.Attrs {
		name := a.Name.Local
		switch {
		case name == "id" && a.Name.Space == "":
			id = a.Value
		case a.Name.Space != "":
			// Namespaced attributes (xlink and friends) are presentation
			// baggage here; carry the local name through untyped.
			extras = append(extras, [2]string{name, a.Value})
		case (name == "fill" || name == "stroke") && a.Value == "none":
			extras = append(extras, [2]string{name, a.Value})
		default:
			kind, ok := attrKinds[name]
			if !ok {
				extras = append(extras, [2]string{name, a.Value})
				continue
			}
			v, err := parseValueAs(kind, a.Value)
			if err != nil {
				return nil, fmt.Errorf("<%s id=%q>: attribute %s: %w", n.XMLName.Local, id, name, err)
			}
			attrs[name] = v
		}
	}

	var anims, childNodes []xmlNode
	for _, c := range n.Nodes {
		if isAnimationTag(c.XMLName.Local) {
			anims = append(anims, c)
		} else {
			childNodes = append(childNodes, c)
		}
	}

	if id == "" && len(anims) > 0 {
		// Animations address their target by id; mint one for anonymous
		// elements carrying nested animations.
		p.anon++
		id = fmt.Sprintf("_anim%d", p.anon)
	}

	for _, a := range anims {
		if a.XMLName.Local == "animateTransform" {
			if _, ok := attrs["transform"]; !ok {
				attrs["transform"] = value.Transform{}
			}
			break
		}
	}

	for _, a := range anims {
		seg, err := p.segment(id, attrs, a)
		if err != nil {
			return nil, fmt.Errorf("<%s id=%q>: %w", n.XMLName.Local, id, err)
		}
		p.segments = append(p.segments, seg)
	}

	var children []*document.Element
	for _, c := range childNodes {
		child, err := p.element(c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	elem := document.NewElement(id, n.XMLName.Local, attrs, children...)
	for _, kv := range extras {
		elem.SetExtra(kv[0], kv[1])
	}
	if text := strings.TrimSpace(n.Text); text != "" {
		elem.SetText(text)
	}
	return elem, nil
}

func (p *parser) segment(ownerID string, base map[string]value.Value, n xmlNode) (timeline.Segment, error) {
	var zero timeline.Segment
	get := func(name string) string {
		for _, a := range n.Attrs {
			if a.Name.Local == name {
				return a.Value
			}
		}
		return ""
	}
	tag := n.XMLName.Local

	var seg timeline.Segment

	if s := get("begin"); s != "" {
		begin, err := ParseClock(s)
		if err != nil {
			return zero, err
		}
		seg.Begin = begin
	}

	switch s := get("dur"); {
	case s == "" || s == "indefinite":
		if tag != "set" {
			return zero, fmt.Errorf("<%s> requires a finite dur", tag)
		}
		// A set without dur applies from begin onward: the step case.
	default:
		dur, err := ParseClock(s)
		if err != nil {
			return zero, err
		}
		seg.Dur = dur
	}

	if get("fill") == "freeze" {
		seg.Fill.After = timeline.FillHold
	}

	if s := get("repeatCount"); s != "" {
		if s == "indefinite" {
			seg.Repeat.Count = math.Inf(1)
		} else {
			count, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return zero, fmt.Errorf("bad repeatCount %q", s)
			}
			seg.Repeat.Count = count
		}
	}
	if s := get("repeatDur"); s != "" {
		if s == "indefinite" {
			if seg.Repeat.Count == 0 {
				seg.Repeat.Count = math.Inf(1)
			}
		} else {
			rd, err := ParseClock(s)
			if err != nil {
				return zero, err
			}
			seg.Repeat.Dur = rd
			if seg.Repeat.Count == 0 {
				seg.Repeat.Count = math.Inf(1)
			}
		}
	}

	switch s := get("calcMode"); s {
	case "", "linear":
	case "discrete":
		seg.Discrete = true
	default:
		return zero, fmt.Errorf("unsupported calcMode %q", s)
	}

	// Nonstandard extension: named pacing curves instead of keySplines.
	if s := get("pacing"); s != "" {
		pace, err := timeline.PacingByName(s)
		if err != nil {
			return zero, err
		}
		seg.Pacing = pace
	}

	attrName := get("attributeName")

	switch tag {
	case "set", "animate":
		if attrName == "" {
			return zero, fmt.Errorf("<%s> without attributeName", tag)
		}
		kind, ok := attrKinds[attrName]
		if !ok {
			return zero, fmt.Errorf("attribute %q is not animatable", attrName)
		}

		if tag == "set" {
			to := get("to")
			if to == "" {
				return zero, fmt.Errorf("<set> without to")
			}
			v, err := parseValueAs(kind, to)
			if err != nil {
				return zero, err
			}
			seg.Keyframes = []timeline.Keyframe{{Offset: 0, Value: v}, {Offset: 1, Value: v}}
			break
		}

		if vals := get("values"); vals != "" {
			kfs, err := parseKeyframes(kind, vals, get("keyTimes"))
			if err != nil {
				return zero, err
			}
			seg.Keyframes = kfs
			break
		}

		toStr := get("to")
		if toStr == "" {
			return zero, fmt.Errorf("<animate> without to or values")
		}
		to, err := parseValueAs(kind, toStr)
		if err != nil {
			return zero, err
		}

		var from value.Value
		if fromStr := get("from"); fromStr != "" {
			from, err = parseValueAs(kind, fromStr)
			if err != nil {
				return zero, err
			}
		} else {
			// to-animation: start from the element's base value.
			from, ok = base[attrName]
			if !ok {
				return zero, fmt.Errorf("to-animation of %q needs a base value on its element", attrName)
			}
		}
		seg.Keyframes = []timeline.Keyframe{{Offset: 0, Value: from}, {Offset: 1, Value: to}}

	case "animateTransform":
		if attrName == "" {
			attrName = "transform"
		}
		if attrName != "transform" {
			return zero, fmt.Errorf("animateTransform targets %q, want transform", attrName)
		}
		typ := value.TransformOp(get("type"))
		if typ == "" {
			return zero, fmt.Errorf("animateTransform without type")
		}

		fromComp, err := transformComponent(typ, get("from"))
		if err != nil {
			return zero, err
		}
		toComp, err := transformComponent(typ, get("to"))
		if err != nil {
			return zero, err
		}
		if len(fromComp.Args) != len(toComp.Args) {
			return zero, fmt.Errorf("animateTransform from/to arity differs")
		}

		// The animated component extends whatever static transform the
		// element already carries, matching the additive flavor of
		// animateTransform in the source documents while keeping the
		// engine's whole-attribute resolution.
		baseT, _ := base["transform"].(value.Transform)
		from := append(append(value.Transform{}, baseT...), fromComp)
		to := append(append(value.Transform{}, baseT...), toComp)
		seg.Keyframes = []timeline.Keyframe{{Offset: 0, Value: from}, {Offset: 1, Value: to}}

	default:
		return zero, fmt.Errorf("unsupported animation element <%s>", tag)
	}

	seg.Target = document.Target{ElementID: ownerID, Attr: attrName}
	return seg, nil
}

func transformComponent(typ value.TransformOp, s string) (value.TransformComponent, error) {
	if s == "" {
		return value.TransformComponent{}, fmt.Errorf("animateTransform needs from and to")
	}
	args, err := parseTransformArgs(s)
	if err != nil {
		return value.TransformComponent{}, err
	}
	comp := value.TransformComponent{Op: typ, Args: args}
	if err := checkTransformArity(comp); err != nil {
		return value.TransformComponent{}, err
	}
	return comp, nil
}

func parseKeyframes(kind value.Kind, values, keyTimes string) ([]timeline.Keyframe, error) {
	parts := strings.Split(values, ";")
	var vals []value.Value
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := parseValueAs(kind, part)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if len(vals) < 2 {
		return nil, fmt.Errorf("values needs at least two entries")
	}

	offsets := make([]float64, len(vals))
	if keyTimes == "" {
		for i := range offsets {
			offsets[i] = float64(i) / float64(len(vals)-1)
		}
	} else {
		parts := strings.Split(keyTimes, ";")
		if len(parts) != len(vals) {
			return nil, fmt.Errorf("keyTimes count %d does not match values count %d", len(parts), len(vals))
		}
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("bad keyTimes entry %q", part)
			}
			offsets[i] = v
		}
	}

	kfs := make([]timeline.Keyframe, len(vals))
	for i := range vals {
		kfs[i] = timeline.Keyframe{Offset: offsets[i], Value: vals[i]}
	}
	return kfs, nil
}

func parseValueAs(kind value.Kind, s string) (value.Value, error) {
	s = strings.TrimSpace(s)
	switch kind {
	case value.KindNumber:
		// Lengths may carry a unit suffix; px is the only one that maps
		// onto raster coordinates 1:1.
		trimmed := strings.TrimSuffix(s, "px")
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", s)
		}
		return value.Number(v), nil
	case value.KindColor:
		c, err := value.ParseColor(s)
		if err != nil {
			return nil, err
		}
		return c, nil
	case value.KindPath:
		p, err := ParsePathData(s)
		if err != nil {
			return nil, err
		}
		return p, nil
	case value.KindTransform:
		t, err := ParseTransform(s)
		if err != nil {
			return nil, err
		}
		return t, nil
	case value.KindPoint:
		args, err := parseTransformArgs(s)
		if err != nil || len(args) != 2 {
			return nil, fmt.Errorf("bad point %q", s)
		}
		return value.Point{X: args[0], Y: args[1]}, nil
	}
	return nil, fmt.Errorf("unhandled kind %s", kind)
}
