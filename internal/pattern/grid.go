package pattern

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrGrid is returned for malformed or non-positive radius grids.
var ErrGrid = errors.New("invalid grid")

// maxGridLen guards against runaway ranges such as 0.5:1e9:0.5.
const maxGridLen = 100000

// Arange returns start, start+step, ... below stop.
func Arange(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	n := int(math.Ceil((stop - start) / step))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start+float64(i)*step)
	}
	return out
}

// ParseGrid parses "start:stop[:step]" (half-open, step defaults to 1) or a
// comma separated list. Every value must be positive.
func ParseGrid(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrGrid)
	}
	var out []float64
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("%w: %q", ErrGrid, s)
		}
		vals := []float64{0, 0, 1}
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrGrid, s, err)
			}
			vals[i] = v
		}
		if vals[2] <= 0 {
			return nil, fmt.Errorf("%w: step must be positive in %q", ErrGrid, s)
		}
		if (vals[1]-vals[0])/vals[2] > maxGridLen {
			return nil, fmt.Errorf("%w: %q has too many values", ErrGrid, s)
		}
		out = Arange(vals[0], vals[1], vals[2])
	} else {
		for _, p := range strings.Split(s, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrGrid, s, err)
			}
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrGrid, s)
	}
	for _, v := range out {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %g is not a positive radius", ErrGrid, v)
		}
	}
	return out, nil
}

// FormatGrid renders a grid compactly for logs and config templates.
func FormatGrid(grid []float64) string {
	if len(grid) == 0 {
		return ""
	}
	if len(grid) > 2 {
		step := grid[1] - grid[0]
		regular := step > 0
		for i := 2; i < len(grid) && regular; i++ {
			regular = math.Abs(grid[i]-grid[i-1]-step) < 1e-9
		}
		if regular {
			return fmt.Sprintf("%g:%g:%g", grid[0], grid[len(grid)-1]+step, step)
		}
	}
	parts := make([]string, len(grid))
	for i, v := range grid {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
