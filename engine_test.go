package cropsuit_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/hscells/cropsuit"
	"github.com/hscells/cropsuit/dataset"
	"github.com/hscells/cropsuit/feature"
	"github.com/hscells/cropsuit/label"
	"github.com/hscells/cropsuit/learning"
	"github.com/hscells/cropsuit/metrics"
	"github.com/hscells/cropsuit/rank"
	"github.com/hscells/cropsuit/store"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var rice = feature.Record{N: 90, P: 42, K: 43, Temperature: 20.8, Humidity: 82, PH: 6.5, Rainfall: 202.9}

// fixed is a classifier that always returns the same output.
type fixed struct {
	classes []int
	probs   []float64
	err     error
	panics  bool
}

func (f fixed) PredictProba([]float64) ([]float64, error) {
	if f.panics {
		var m map[string]int
		m["boom"]++
	}
	return f.probs, f.err
}

func (f fixed) Classes() []int {
	return f.classes
}

func codec(t *testing.T, crops ...string) *label.Codec {
	c, err := label.Fit(crops)
	require.NoError(t, err)
	return c
}

func engine(t *testing.T, options ...cropsuit.Option) *cropsuit.Engine {
	e, err := cropsuit.NewEngine(append([]cropsuit.Option{cropsuit.Logger(zaptest.NewLogger(t))}, options...)...)
	require.NoError(t, err)
	return e
}

func load(t *testing.T, e *cropsuit.Engine, c learning.Classifier, codec *label.Codec) {
	m, err := cropsuit.NewModel(c, codec)
	require.NoError(t, err)
	e.Load(m)
}

func TestPredictThreshold(t *testing.T) {
	e := engine(t)
	// Codec order is Maize=0, Rice=1, Wheat=2.
	load(t, e, fixed{classes: []int{1, 2, 0}, probs: []float64{0.5, 0.48, 0.02}}, codec(t, "Rice", "Wheat", "Maize"))

	crops, err := e.Predict(context.Background(), rice.Vector())
	require.NoError(t, err)
	assert.Equal(t, []string{"Rice", "Wheat"}, crops)
}

func TestPredictUsesClassifierClassOrder(t *testing.T) {
	e := engine(t)
	// The classifier only knows two of the three crops, in reverse codec order.
	load(t, e, fixed{classes: []int{2, 0}, probs: []float64{0.9, 0.1}}, codec(t, "apple", "banana", "coconut"))

	rec, err := e.Recommend(context.Background(), rice.Vector())
	require.NoError(t, err)
	assert.Equal(t, []rank.Scored{{Crop: "coconut", Probability: 0.9}, {Crop: "apple", Probability: 0.1}}, rec.Crops)
	assert.False(t, rec.Fault)
}

func TestNewModelRejectsMismatchedPair(t *testing.T) {
	_, err := cropsuit.NewModel(fixed{classes: []int{0, 3}}, codec(t, "a", "b"))
	assert.ErrorIs(t, err, label.ErrUnknownID)

	_, err = cropsuit.NewModel(fixed{classes: []int{0, 0}}, codec(t, "a", "b"))
	assert.Error(t, err)
}

func TestPredictModelNotLoaded(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.New(reg)
	e := engine(t, cropsuit.Metrics(r))

	crops, err := e.Predict(context.Background(), rice.Vector())
	assert.ErrorIs(t, err, cropsuit.ErrModelNotLoaded)
	assert.Nil(t, crops)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Predictions.WithLabelValues(metrics.OutcomeUnavailable)))

	_, err = e.Crops(context.Background())
	assert.ErrorIs(t, err, cropsuit.ErrModelNotLoaded)
}

func TestPredictInvalidRecord(t *testing.T) {
	e := engine(t)
	load(t, e, fixed{classes: []int{0}, probs: []float64{1}}, codec(t, "rice"))

	for i := range feature.Names {
		v := rice.Vector()
		v = append(v[:i:i], v[i+1:]...)
		crops, err := e.Predict(context.Background(), v)
		assert.ErrorIs(t, err, feature.ErrInvalidRecord)
		assert.Nil(t, crops)
	}
}

func TestPredictInferenceFaults(t *testing.T) {
	for name, c := range map[string]fixed{
		"error":  {classes: []int{0, 1}, err: errors.New("library fault")},
		"panic":  {classes: []int{0, 1}, panics: true},
		"length": {classes: []int{0, 1}, probs: []float64{1}},
		"nan":    {classes: []int{0, 1}, probs: []float64{0.5, math.NaN()}},
	} {
		t.Run(name, func(t *testing.T) {
			r := metrics.New(nil)
			e := engine(t, cropsuit.Metrics(r))
			load(t, e, c, codec(t, "maize", "rice"))

			rec, err := e.Recommend(context.Background(), rice.Vector())
			require.NoError(t, err)
			assert.True(t, rec.Fault)
			assert.Empty(t, rec.Crops)

			crops, err := e.Predict(context.Background(), rice.Vector())
			require.NoError(t, err)
			assert.NotNil(t, crops)
			assert.Empty(t, crops)
			assert.Equal(t, 2.0, testutil.ToFloat64(r.InferenceFaults))
		})
	}
}

func TestPredictEmptyIsNotFault(t *testing.T) {
	r := metrics.New(nil)
	e := engine(t, cropsuit.Metrics(r))
	load(t, e, fixed{classes: []int{0, 1}, probs: []float64{0.03, 0.04}}, codec(t, "maize", "rice"))

	rec, err := e.Recommend(context.Background(), rice.Vector())
	require.NoError(t, err)
	assert.False(t, rec.Fault)
	assert.Empty(t, rec.Crops)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.InferenceFaults))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Predictions.WithLabelValues(metrics.OutcomeEmpty)))
}

func TestPredictCache(t *testing.T) {
	r := metrics.New(nil)
	e := engine(t, cropsuit.Metrics(r), cropsuit.CacheSize(8))
	load(t, e, fixed{classes: []int{0, 1}, probs: []float64{0.3, 0.7}}, codec(t, "maize", "rice"))

	first, err := e.Predict(context.Background(), rice.Vector())
	require.NoError(t, err)
	first[0] = "mutated"
	second, err := e.Predict(context.Background(), rice.Vector())
	require.NoError(t, err)
	assert.Equal(t, []string{"rice", "maize"}, second)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.CacheHits))

	// A new model must not be served stale recommendations.
	load(t, e, fixed{classes: []int{0, 1}, probs: []float64{0.8, 0.2}}, codec(t, "maize", "rice"))
	third, err := e.Predict(context.Background(), rice.Vector())
	require.NoError(t, err)
	assert.Equal(t, []string{"maize", "rice"}, third)
}

func TestPredictCustomPolicy(t *testing.T) {
	e := engine(t, cropsuit.Policy(rank.Policy{Threshold: 0.25, Limit: 1}))
	load(t, e, fixed{classes: []int{0, 1, 2}, probs: []float64{0.3, 0.4, 0.3}}, codec(t, "a", "b", "c"))
	crops, err := e.Predict(context.Background(), rice.Vector())
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, crops)
}

func trainer() *learning.Trainer {
	p := learning.DefaultForestParams
	p.Trees = 30
	return learning.NewTrainer(p)
}

func TestInitTrainsAndRecommendsRice(t *testing.T) {
	dir := t.TempDir()
	examples := dataset.Synthetic(dataset.Profiles, 40, 7)

	e := engine(t)
	require.NoError(t, e.Init(store.New(dir, trainer()), examples))
	require.NoError(t, e.Err())

	crops, err := e.Predict(context.Background(), rice.Vector())
	require.NoError(t, err)
	require.NotEmpty(t, crops)
	assert.Equal(t, "rice", crops[0])
	assert.LessOrEqual(t, len(crops), 8)

	all, err := e.Crops(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"chickpea", "maize", "rice"}, all)

	// A second engine over the same store loads the bundle and agrees.
	reloaded := engine(t)
	require.NoError(t, reloaded.Init(store.New(dir, trainer()), dataset.Static(nil)))
	for _, ex := range dataset.Synthetic(dataset.Profiles, 5, 8) {
		r, err := feature.FromNamed(ex.Features)
		require.NoError(t, err)
		want, err := e.Recommend(context.Background(), r.Vector())
		require.NoError(t, err)
		got, err := reloaded.Recommend(context.Background(), r.Vector())
		require.NoError(t, err)
		assert.Equal(t, want.Crops, got.Crops)
		assert.Equal(t, want.Model, got.Model)
	}
}

func TestInitDeterministic(t *testing.T) {
	examples := dataset.Synthetic(dataset.Profiles, 30, 3)
	a, b := engine(t), engine(t)
	require.NoError(t, a.Init(store.New(t.TempDir(), trainer()), examples))
	require.NoError(t, b.Init(store.New(t.TempDir(), trainer()), examples))

	held := feature.Record{N: 60, P: 55, K: 30, Temperature: 21, Humidity: 70, PH: 6.8, Rainfall: 120}
	for _, r := range []feature.Record{rice, held} {
		pa, err := a.Predict(context.Background(), r.Vector())
		require.NoError(t, err)
		pb, err := b.Predict(context.Background(), r.Vector())
		require.NoError(t, err)
		assert.Equal(t, pa, pb)
	}
}

func TestInitFailure(t *testing.T) {
	e := engine(t)
	err := e.Init(store.New(t.TempDir(), trainer()), dataset.NewCSV("does/not/exist.csv"))
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
	assert.ErrorIs(t, e.Err(), dataset.ErrDataUnavailable)

	_, err = e.Predict(context.Background(), rice.Vector())
	assert.ErrorIs(t, err, cropsuit.ErrModelNotLoaded)
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

// gate blocks Load until it is opened.
type gate struct {
	dataset.Provider
	open chan struct{}
}

func (g gate) Load() ([]dataset.Example, error) {
	<-g.open
	return g.Provider.Load()
}

func TestStartBlocksPredictions(t *testing.T) {
	g := gate{Provider: dataset.Synthetic(dataset.Profiles, 20, 1), open: make(chan struct{})}
	e := engine(t)
	e.Start(store.New(t.TempDir(), trainer()), g)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := e.Predict(ctx, rice.Vector())
	assert.ErrorIs(t, err, cropsuit.ErrModelNotLoaded)

	result := make(chan []string)
	go func() {
		crops, _ := e.Predict(context.Background(), rice.Vector())
		result <- crops
	}()
	close(g.open)

	select {
	case crops := <-result:
		require.NotEmpty(t, crops)
		assert.Equal(t, "rice", crops[0])
	case <-time.After(30 * time.Second):
		t.Fatal("prediction was never released")
	}
	<-e.Ready()
	assert.NoError(t, e.Err())
}

func TestConcurrentPredictionsDuringSwap(t *testing.T) {
	e := engine(t, cropsuit.CacheSize(4))
	c := codec(t, "maize", "rice")
	load(t, e, fixed{classes: []int{0, 1}, probs: []float64{0.3, 0.7}}, c)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				crops, err := e.Predict(context.Background(), rice.Vector())
				assert.NoError(t, err)
				assert.Len(t, crops, 2)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		load(t, e, fixed{classes: []int{1, 0}, probs: []float64{0.6, 0.4}}, c)
	}
	wg.Wait()
}
