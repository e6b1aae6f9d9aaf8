// Package document holds the static element tree an animation resolves
// against. A Document is immutable once built; the snapshot engine produces
// new documents through CloneWith instead of mutating anything, which is
// what makes concurrent per-frame resolution safe without locks.
package document

import (
	"fmt"
	"sort"

	"github.com/ivlev/svg2video/internal/value"
)

// Target addresses one animatable attribute of one element.
type Target struct {
	ElementID string
	Attr      string
}

func (t Target) String() string {
	return t.ElementID + "." + t.Attr
}

// Element is one node of the tree: a stable id, a tag naming what it is
// (rect, text, g, ...), typed attributes, untyped presentation extras that
// ride along verbatim (font-family and friends), optional text content and
// ordered children.
type Element struct {
	id       string
	tag      string
	attrs    map[string]value.Value
	extra    map[string]string
	text     string
	children []*Element
}

// NewElement builds an element. The attrs map is copied; the caller keeps
// ownership of its own map.
func NewElement(id, tag string, attrs map[string]value.Value, children ...*Element) *Element {
	e := &Element{
		id:       id,
		tag:      tag,
		attrs:    make(map[string]value.Value, len(attrs)),
		children: children,
	}
	for k, v := range attrs {
		e.attrs[k] = v
	}
	return e
}

// SetExtra attaches an untyped presentation attribute. Extras are not
// animatable and are carried through clones unchanged.
func (e *Element) SetExtra(name, val string) {
	if e.extra == nil {
		e.extra = make(map[string]string)
	}
	e.extra[name] = val
}

// SetText attaches text content.
func (e *Element) SetText(s string) { e.text = s }

func (e *Element) ID() string          { return e.id }
func (e *Element) Tag() string         { return e.tag }
func (e *Element) Text() string        { return e.text }
func (e *Element) Children() []*Element { return e.children }

// Attr returns the typed value of a named attribute.
func (e *Element) Attr(name string) (value.Value, error) {
	v, ok := e.attrs[name]
	if !ok {
		return nil, &AttributeMissingError{ID: e.id, Attr: name}
	}
	return v, nil
}

// HasAttr reports whether the typed attribute exists.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// AttrNames returns the typed attribute names in deterministic order.
func (e *Element) AttrNames() []string {
	names := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Extra returns an untyped presentation attribute, or "".
func (e *Element) Extra(name string) string { return e.extra[name] }

// ExtraNames returns the untyped attribute names in deterministic order.
func (e *Element) ExtraNames() []string {
	names := make([]string, 0, len(e.extra))
	for k := range e.extra {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Document is the tree plus an id index.
type Document struct {
	root  *Element
	index map[string]*Element
}

// New indexes the tree rooted at root. Duplicate non-empty ids are rejected;
// elements without an id simply cannot be animation targets.
func New(root *Element) (*Document, error) {
	d := &Document{root: root, index: make(map[string]*Element)}
	if err := d.indexTree(root); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) indexTree(e *Element) error {
	if e.id != "" {
		if _, dup := d.index[e.id]; dup {
			return fmt.Errorf("duplicate element id %q", e.id)
		}
		d.index[e.id] = e
	}
	for _, child := range e.children {
		if err := d.indexTree(child); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the tree root.
func (d *Document) Root() *Element { return d.root }

// Lookup finds an element by id.
func (d *Document) Lookup(id string) (*Element, error) {
	e, ok := d.index[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return e, nil
}

// CloneWith produces a new, independent document with the same structure
// where each overridden target carries the supplied value instead of the
// base one. Values themselves are immutable and shared.
func (d *Document) CloneWith(overrides map[Target]value.Value) *Document {
	clone := &Document{index: make(map[string]*Element, len(d.index))}
	clone.root = cloneElement(d.root, overrides, clone.index)
	return clone
}

func cloneElement(e *Element, overrides map[Target]value.Value, index map[string]*Element) *Element {
	out := &Element{
		id:    e.id,
		tag:   e.tag,
		text:  e.text,
		attrs: make(map[string]value.Value, len(e.attrs)),
		extra: e.extra,
	}
	for k, v := range e.attrs {
		if ov, ok := overrides[Target{ElementID: e.id, Attr: k}]; ok && e.id != "" {
			v = ov
		}
		out.attrs[k] = v
	}
	if len(e.children) > 0 {
		out.children = make([]*Element, len(e.children))
		for i, child := range e.children {
			out.children[i] = cloneElement(child, overrides, index)
		}
	}
	if out.id != "" {
		index[out.id] = out
	}
	return out
}
