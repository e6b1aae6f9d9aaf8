package svgdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock parses SMIL clock values into seconds: "02:30", "1:02:03.5",
// "90s", "250ms", "3min", "1h" and bare numbers. Only single clock values
// are supported; event-based and wallclock begin times are not.
func ParseClock(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty clock value")
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) > 3 {
			return 0, fmt.Errorf("bad clock value %q", s)
		}
		mult := 1.0
		total := 0.0
		for i := len(parts) - 1; i >= 0; i-- {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil {
				return 0, fmt.Errorf("bad clock value %q: %w", s, err)
			}
			total += v * mult
			mult *= 60
		}
		return total, nil
	}

	// "ms" before "s": both end in 's'.
	for _, unit := range []struct {
		suffix string
		scale  float64
	}{
		{"ms", 0.001},
		{"min", 60},
		{"s", 1},
		{"h", 3600},
	} {
		if strings.HasSuffix(s, unit.suffix) {
			v, err := strconv.ParseFloat(s[:len(s)-len(unit.suffix)], 64)
			if err != nil {
				return 0, fmt.Errorf("bad clock value %q: %w", s, err)
			}
			return v * unit.scale, nil
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad clock value %q: %w", s, err)
	}
	return v, nil
}
