package rank_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/hscells/cropsuit/rank"
	"github.com/stretchr/testify/assert"
)

func TestApplyThreshold(t *testing.T) {
	ranked := rank.DefaultPolicy.Apply([]rank.Scored{
		{Crop: "Maize", Probability: 0.02},
		{Crop: "Wheat", Probability: 0.48},
		{Crop: "Rice", Probability: 0.5},
	})
	assert.Equal(t, []string{"Rice", "Wheat"}, rank.Names(ranked))
}

func TestApplyThresholdIsExclusive(t *testing.T) {
	ranked := rank.DefaultPolicy.Apply([]rank.Scored{
		{Crop: "a", Probability: 0.05},
		{Crop: "b", Probability: 0.0500001},
	})
	assert.Equal(t, []string{"b"}, rank.Names(ranked))
}

func TestApplyTies(t *testing.T) {
	ranked := rank.DefaultPolicy.Apply([]rank.Scored{
		{Crop: "mango", Probability: 0.3},
		{Crop: "apple", Probability: 0.3},
		{Crop: "banana", Probability: 0.4},
	})
	assert.Equal(t, []string{"banana", "apple", "mango"}, rank.Names(ranked))
}

func TestApplyDropsNonFinite(t *testing.T) {
	ranked := rank.DefaultPolicy.Apply([]rank.Scored{
		{Crop: "a", Probability: math.NaN()},
		{Crop: "b", Probability: math.Inf(1)},
		{Crop: "c", Probability: 0.2},
	})
	assert.Equal(t, []string{"c"}, rank.Names(ranked))
}

func TestApplyLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		scores := make([]rank.Scored, rng.Intn(30))
		for i := range scores {
			scores[i] = rank.Scored{Crop: fmt.Sprintf("crop%02d", i), Probability: rng.Float64() / 4}
		}
		ranked := rank.DefaultPolicy.Apply(scores)
		assert.LessOrEqual(t, len(ranked), 8)
		for i, s := range ranked {
			assert.Greater(t, s.Probability, 0.05)
			if i > 0 {
				assert.GreaterOrEqual(t, ranked[i-1].Probability, s.Probability)
			}
		}
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	scores := []rank.Scored{{Crop: "b", Probability: 0.1}, {Crop: "a", Probability: 0.9}}
	rank.DefaultPolicy.Apply(scores)
	assert.Equal(t, "b", scores[0].Crop)
}

func TestApplyCustomPolicy(t *testing.T) {
	p := rank.Policy{Threshold: 0, Limit: 1}
	ranked := p.Apply([]rank.Scored{{Crop: "b", Probability: 0.1}, {Crop: "a", Probability: 0.9}})
	assert.Equal(t, []string{"a"}, rank.Names(ranked))
	assert.Empty(t, p.Apply(nil))
}
