package scorer

import (
	"fmt"
	"time"

	"lifelink/pkg/domain"
)

// Weights are the five scoring component weights. They are configuration, not
// clinical truth: each is independently adjustable and the defaults are a
// baseline summing to 100.
type Weights struct {
	Blood       int
	Urgency     int
	WaitingTime int
	Geographic  int
	Medical     int
}

// Named exposes the weights as a parameter-name mapping for config and
// diagnostics surfaces.
func (w Weights) Named() map[string]int {
	return map[string]int{
		"blood":        w.Blood,
		"urgency":      w.Urgency,
		"waiting_time": w.WaitingTime,
		"geographic":   w.Geographic,
		"medical":      w.Medical,
	}
}

// Total returns the maximum achievable score under these weights.
func (w Weights) Total() int {
	return w.Blood + w.Urgency + w.WaitingTime + w.Geographic + w.Medical
}

// DefaultWeights is the baseline 30/25/20/15/10 split.
func DefaultWeights() Weights {
	return Weights{Blood: 30, Urgency: 25, WaitingTime: 20, Geographic: 15, Medical: 10}
}

// Policy bundles everything scoring depends on besides the pair itself.
type Policy struct {
	Weights Weights

	// MinimumScore is the compatibility threshold: a blood-compatible pair
	// below it is still reported incompatible.
	MinimumScore int

	// MaxWait is the waiting time at which the waiting-time component saturates.
	MaxWait time.Duration

	// RegionZones places each known region in an integer zone. Distance between
	// regions is the absolute zone difference; unknown regions are treated as
	// maximally distant.
	RegionZones map[domain.Region]int

	// MaxGeoDistance is the zone distance at which the geographic component
	// reaches zero, and the bound emergency matching compares against.
	MaxGeoDistance int
}

// DefaultPolicy returns the baseline policy with no region topology. With an
// empty zone map every cross-region pair is maximally distant, which is the
// conservative default.
func DefaultPolicy() Policy {
	return Policy{
		Weights:        DefaultWeights(),
		MinimumScore:   50,
		MaxWait:        365 * 24 * time.Hour,
		MaxGeoDistance: 5,
	}
}

// Validate rejects policies that cannot produce meaningful scores.
func (p Policy) Validate() error {
	for name, w := range p.Weights.Named() {
		if w < 0 {
			return fmt.Errorf("weight %q must not be negative", name)
		}
	}
	if p.Weights.Total() == 0 {
		return fmt.Errorf("at least one scoring weight must be positive")
	}
	if p.MinimumScore < 0 || p.MinimumScore > maxTotal {
		return fmt.Errorf("minimum score must be within [0, %d]", maxTotal)
	}
	if p.MaxGeoDistance < 0 {
		return fmt.Errorf("max geo distance must not be negative")
	}
	return nil
}

// Distance returns the zone distance between two regions. Same region is
// always distance zero; regions missing from the zone map are maximally far.
func (p Policy) Distance(a, b domain.Region) int {
	if a == b {
		return 0
	}
	za, okA := p.RegionZones[a]
	zb, okB := p.RegionZones[b]
	if !okA || !okB {
		return p.MaxGeoDistance
	}
	d := za - zb
	if d < 0 {
		d = -d
	}
	// Distinct regions in one zone are near, not colocated.
	if d == 0 {
		d = 1
	}
	return d
}
