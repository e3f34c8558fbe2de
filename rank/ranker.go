// Package rank turns per-crop probabilities into a recommendation list.
package rank

import (
	"math"
	"sort"
)

// Scored is a crop with the probability a classifier assigned it.
type Scored struct {
	Crop        string
	Probability float64
}

// Policy decides which scored crops are recommended. Crops with a probability at or below Threshold are dropped, the
// rest are ordered by descending probability with ties broken by ascending crop name, and at most Limit are kept.
// A negative Limit keeps every crop above the threshold.
type Policy struct {
	Threshold float64
	Limit     int
}

// DefaultPolicy recommends up to eight crops with more than a 5% probability.
var DefaultPolicy = Policy{
	Threshold: 0.05,
	Limit:     8,
}

// Apply ranks scores under the policy. The input is not modified.
func (p Policy) Apply(scores []Scored) []Scored {
	ranked := make([]Scored, 0, len(scores))
	for _, s := range scores {
		if math.IsNaN(s.Probability) || math.IsInf(s.Probability, 0) {
			continue
		}
		if s.Probability > p.Threshold {
			ranked = append(ranked, s)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Probability != ranked[j].Probability {
			return ranked[i].Probability > ranked[j].Probability
		}
		return ranked[i].Crop < ranked[j].Crop
	})
	if p.Limit >= 0 && len(ranked) > p.Limit {
		ranked = ranked[:p.Limit]
	}
	return ranked
}

// Names returns the crops of a ranking, in order.
func Names(scores []Scored) []string {
	names := make([]string, len(scores))
	for i, s := range scores {
		names[i] = s.Crop
	}
	return names
}
