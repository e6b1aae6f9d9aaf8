package svgdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivlev/svg2video/internal/value"
)

// ParsePathData parses an SVG path "d" string into absolute commands.
// Supported: M/L/H/V/C/Q/Z in absolute and relative form; H and V are
// normalized to line commands so that interpolation only ever sees the
// closed set {M, L, C, Q, Z}.
func ParsePathData(d string) (value.Path, error) {
	toks := tokenizePath(d)
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty path data")
	}

	var (
		out         value.Path
		cur, start  value.Point
		cmd         byte
		haveCurrent bool
	)

	i := 0
	take := func(n int) ([]float64, error) {
		if i+n > len(toks) {
			return nil, fmt.Errorf("path data ends inside %c command", cmd)
		}
		nums := make([]float64, n)
		for j := 0; j < n; j++ {
			v, err := strconv.ParseFloat(toks[i+j], 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q in path data", toks[i+j])
			}
			nums[j] = v
		}
		i += n
		return nums, nil
	}

	for i < len(toks) {
		tok := toks[i]
		if len(tok) == 1 && isPathCommand(tok[0]) {
			cmd = tok[0]
			i++
		} else if cmd == 0 {
			return nil, fmt.Errorf("path data must start with a command, got %q", tok)
		} else if upper(cmd) == 'Z' {
			return nil, fmt.Errorf("unexpected %q after close command", tok)
		}
		// A repeated coordinate group reuses the previous command; after an
		// initial moveto the implicit repeat is a lineto.

		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(x, y float64) value.Point {
			if rel && haveCurrent {
				return value.Point{X: cur.X + x, Y: cur.Y + y}
			}
			return value.Point{X: x, Y: y}
		}

		switch upper(cmd) {
		case 'M':
			nums, err := take(2)
			if err != nil {
				return nil, err
			}
			cur = abs(nums[0], nums[1])
			haveCurrent = true
			start = cur
			out = append(out, value.PathCommand{Op: value.MoveTo, Pts: []value.Point{cur}})
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L':
			nums, err := take(2)
			if err != nil {
				return nil, err
			}
			cur = abs(nums[0], nums[1])
			out = append(out, value.PathCommand{Op: value.LineTo, Pts: []value.Point{cur}})
		case 'H':
			nums, err := take(1)
			if err != nil {
				return nil, err
			}
			x := nums[0]
			if rel {
				x += cur.X
			}
			cur = value.Point{X: x, Y: cur.Y}
			out = append(out, value.PathCommand{Op: value.LineTo, Pts: []value.Point{cur}})
		case 'V':
			nums, err := take(1)
			if err != nil {
				return nil, err
			}
			y := nums[0]
			if rel {
				y += cur.Y
			}
			cur = value.Point{X: cur.X, Y: y}
			out = append(out, value.PathCommand{Op: value.LineTo, Pts: []value.Point{cur}})
		case 'C':
			nums, err := take(6)
			if err != nil {
				return nil, err
			}
			p1 := abs(nums[0], nums[1])
			p2 := abs(nums[2], nums[3])
			p3 := abs(nums[4], nums[5])
			cur = p3
			out = append(out, value.PathCommand{Op: value.CubicTo, Pts: []value.Point{p1, p2, p3}})
		case 'Q':
			nums, err := take(4)
			if err != nil {
				return nil, err
			}
			p1 := abs(nums[0], nums[1])
			p2 := abs(nums[2], nums[3])
			cur = p2
			out = append(out, value.PathCommand{Op: value.QuadTo, Pts: []value.Point{p1, p2}})
		case 'Z':
			cur = start
			out = append(out, value.PathCommand{Op: value.ClosePath})
		default:
			return nil, fmt.Errorf("unsupported path command %q", string(cmd))
		}
	}

	return out, nil
}

func isPathCommand(b byte) bool {
	switch upper(b) {
	case 'M', 'L', 'H', 'V', 'C', 'Q', 'Z', 'S', 'T', 'A':
		return true
	}
	return false
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// tokenizePath splits path data into command letters and numbers. Commas
// count as whitespace; a letter glued to a number ("M50") still splits.
func tokenizePath(d string) []string {
	var toks []string
	var num strings.Builder

	flush := func() {
		if num.Len() > 0 {
			toks = append(toks, num.String())
			num.Reset()
		}
	}

	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',':
			flush()
		case (c == 'e' || c == 'E') && num.Len() > 0:
			// Exponent, not a command letter.
			num.WriteByte(c)
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			flush()
			toks = append(toks, string(c))
		case c == '-' || c == '+':
			// Sign starts a new number unless it follows an exponent.
			if num.Len() > 0 {
				last := num.String()[num.Len()-1]
				if last != 'e' && last != 'E' {
					flush()
				}
			}
			num.WriteByte(c)
		default:
			num.WriteByte(c)
		}
	}
	flush()
	return toks
}

// FormatPathData renders a path back to a "d" string.
func FormatPathData(p value.Path) string {
	var b strings.Builder
	for i, cmd := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(cmd.Op))
		for _, pt := range cmd.Pts {
			b.WriteByte(' ')
			b.WriteString(formatNumber(pt.X))
			b.WriteByte(' ')
			b.WriteString(formatNumber(pt.Y))
		}
	}
	return b.String()
}
