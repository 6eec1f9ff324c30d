package schemagraph

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Anchors of the node colour ramp.
const (
	RampStart = "#42517d"
	RampEnd   = "#584063"
)

// ColorRamp produces n evenly spaced colours.
type ColorRamp interface {
	Colors(n int) []string
}

// LCHRamp interpolates between two colours in CIE-LCh, so neighbouring nodes
// differ by the same perceived amount.
type LCHRamp struct {
	from colorful.Color
	to   colorful.Color
}

// NewLCHRamp parses both anchors as hex colours.
func NewLCHRamp(from, to string) (*LCHRamp, error) {
	start, err := colorful.Hex(from)
	if err != nil {
		return nil, fmt.Errorf("parse ramp start %q: %w", from, err)
	}
	end, err := colorful.Hex(to)
	if err != nil {
		return nil, fmt.Errorf("parse ramp end %q: %w", to, err)
	}
	return &LCHRamp{from: start, to: end}, nil
}

// DefaultRamp is the fixed node colour ramp.
func DefaultRamp() *LCHRamp {
	ramp, err := NewLCHRamp(RampStart, RampEnd)
	if err != nil {
		panic(err)
	}
	return ramp
}

// Colors returns n hex colours from start to end inclusive. A single colour
// is the midpoint of the ramp.
func (r *LCHRamp) Colors(n int) []string {
	if n <= 0 {
		return []string{}
	}
	if n == 1 {
		return []string{r.at(0.5)}
	}

	colors := make([]string, n)
	for i := range colors {
		colors[i] = r.at(float64(i) / float64(n-1))
	}
	return colors
}

func (r *LCHRamp) at(t float64) string {
	return r.from.BlendHcl(r.to, t).Clamped().Hex()
}
