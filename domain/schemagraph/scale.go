package schemagraph

// Node radius range in pixels.
const (
	MinRadius = 15.0
	MaxRadius = 50.0
)

// SizeScale maps an entry count linearly onto a node radius.
type SizeScale struct {
	DomainMax float64    `json:"domain_max"`
	Range     [2]float64 `json:"range"`
}

// NewSizeScale maps [0, domainMax] onto [minRadius, maxRadius].
func NewSizeScale(domainMax int, minRadius, maxRadius float64) SizeScale {
	return SizeScale{
		DomainMax: float64(domainMax),
		Range:     [2]float64{minRadius, maxRadius},
	}
}

// MakeSizeScale builds the radius scale for a cache snapshot. The domain is
// the number of keys that remain once introspection bookkeeping is filtered.
func MakeSizeScale(cache EntityCache) SizeScale {
	return NewSizeScale(len(DefaultCacheFilter().Apply(cache)), MinRadius, MaxRadius)
}

// Radius returns the radius for count entries. Counts beyond the domain are
// extrapolated; an empty domain always yields the minimum radius.
func (s SizeScale) Radius(count int) float64 {
	if s.DomainMax == 0 {
		return s.Range[0]
	}
	return s.Range[0] + (s.Range[1]-s.Range[0])*float64(count)/s.DomainMax
}
