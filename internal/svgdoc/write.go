package svgdoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/value"
)

// Write serializes a static document back to SVG text, one element per
// line. Meant for frame dumps and debugging; the rasterizer consumes the
// document directly.
func Write(w io.Writer, doc *document.Document) error {
	buf := bufWriter{w: w}
	buf.writeString(xml.Header)
	writeElement(&buf, doc.Root(), 0)
	return buf.err
}

// Marshal is Write into a byte slice.
func Marshal(doc *document.Document) ([]byte, error) {
	var b bytes.Buffer
	if err := Write(&b, doc); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

type bufWriter struct {
	w   io.Writer
	err error
}

func (b *bufWriter) writeString(s string) {
	if b.err == nil {
		_, b.err = io.WriteString(b.w, s)
	}
}

func writeElement(b *bufWriter, e *document.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	b.writeString(indent + "<" + e.Tag())

	if e.ID() != "" && !strings.HasPrefix(e.ID(), "_anim") {
		writeAttr(b, "id", e.ID())
	}
	for _, name := range e.AttrNames() {
		v, _ := e.Attr(name)
		writeAttr(b, name, FormatValue(v))
	}
	for _, name := range e.ExtraNames() {
		writeAttr(b, name, e.Extra(name))
	}

	if len(e.Children()) == 0 && e.Text() == "" {
		b.writeString("/>\n")
		return
	}

	b.writeString(">")
	if e.Text() != "" {
		b.writeString(escapeXML(e.Text()))
	}
	if len(e.Children()) > 0 {
		b.writeString("\n")
		for _, child := range e.Children() {
			writeElement(b, child, depth+1)
		}
		b.writeString(indent)
	}
	b.writeString("</" + e.Tag() + ">\n")
}

func writeAttr(b *bufWriter, name, val string) {
	b.writeString(" " + name + `="` + escapeXML(val) + `"`)
}

func escapeXML(s string) string {
	var b bytes.Buffer
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

// FormatValue renders a typed value in SVG attribute syntax.
func FormatValue(v value.Value) string {
	switch t := v.(type) {
	case value.Number:
		return formatNumber(float64(t))
	case value.Color:
		return t.Hex()
	case value.Point:
		return formatNumber(t.X) + "," + formatNumber(t.Y)
	case value.Path:
		return FormatPathData(t)
	case value.Transform:
		return FormatTransform(t)
	}
	return fmt.Sprintf("%v", v)
}

// formatNumber keeps up to three decimals, dropping trailing zeros so that
// static documents stay readable.
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
