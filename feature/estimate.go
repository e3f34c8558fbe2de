package feature

import (
	"math/rand"
	"sync"
)

// Weather holds live readings that take precedence over estimated values.
type Weather struct {
	Temperature float64
	Humidity    float64
}

// Estimator produces plausible feature records for a location when no soil measurements are available. Nutrient
// levels, pH and annual rainfall are drawn from typical agricultural ranges; temperature and humidity come from live
// weather when supplied.
type Estimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEstimator creates an estimator. Equal seeds produce equal sequences of records.
func NewEstimator(seed int64) *Estimator {
	return &Estimator{rng: rand.New(rand.NewSource(seed))}
}

// Estimate returns an estimated record. Weather, when non-nil, replaces the estimated temperature and humidity.
func (e *Estimator) Estimate(weather *Weather) Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := Record{
		N:           float64(50 + e.rng.Intn(51)),
		P:           float64(30 + e.rng.Intn(31)),
		K:           float64(20 + e.rng.Intn(31)),
		Temperature: e.uniform(20, 35),
		Humidity:    e.uniform(50, 90),
		PH:          e.uniform(5.5, 7.5),
		Rainfall:    e.uniform(100, 200),
	}
	if weather != nil {
		r.Temperature = weather.Temperature
		r.Humidity = weather.Humidity
	}
	return r
}

func (e *Estimator) uniform(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}
