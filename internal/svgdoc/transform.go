package svgdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivlev/svg2video/internal/value"
)

// ParseTransform parses a transform attribute like
// "translate(10 20) rotate(45 150 150)".
func ParseTransform(s string) (value.Transform, error) {
	var out value.Transform

	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.Index(rest, "(")
		if open < 0 {
			return nil, fmt.Errorf("bad transform %q: missing (", s)
		}
		closing := strings.Index(rest, ")")
		if closing < open {
			return nil, fmt.Errorf("bad transform %q: missing )", s)
		}

		op := value.TransformOp(strings.TrimSpace(rest[:open]))
		args, err := parseTransformArgs(rest[open+1 : closing])
		if err != nil {
			return nil, fmt.Errorf("bad transform %q: %w", s, err)
		}

		comp := value.TransformComponent{Op: op, Args: args}
		if err := checkTransformArity(comp); err != nil {
			return nil, err
		}
		out = append(out, comp)

		rest = strings.TrimSpace(rest[closing+1:])
		rest = strings.TrimPrefix(rest, ",")
		rest = strings.TrimSpace(rest)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("empty transform %q", s)
	}
	return out, nil
}

// parseTransformArgs splits "0 150 150" or "10, 20" into numbers.
func parseTransformArgs(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no arguments")
	}
	args := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		args[i] = v
	}
	return args, nil
}

func checkTransformArity(c value.TransformComponent) error {
	n := len(c.Args)
	switch c.Op {
	case value.Translate, value.Scale:
		if n == 1 || n == 2 {
			return nil
		}
	case value.Rotate:
		if n == 1 || n == 3 {
			return nil
		}
	default:
		return fmt.Errorf("unsupported transform %q", c.Op)
	}
	return fmt.Errorf("transform %s takes 1-3 arguments, got %d", c.Op, n)
}

// FormatTransform renders a transform back to attribute syntax.
func FormatTransform(t value.Transform) string {
	var b strings.Builder
	for i, c := range t {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(c.Op))
		b.WriteByte('(')
		for j, a := range c.Args {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatNumber(a))
		}
		b.WriteByte(')')
	}
	return b.String()
}
