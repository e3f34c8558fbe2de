package eval_test

import (
	"testing"

	"github.com/hscells/cropsuit/dataset"
	"github.com/hscells/cropsuit/eval"
	"github.com/hscells/cropsuit/feature"
	"github.com/hscells/cropsuit/label"
	"github.com/hscells/cropsuit/learning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nitrogen predicts "b" for nitrogen-rich soil and "a" otherwise, listing its classes in reverse.
type nitrogen struct{}

func (nitrogen) PredictProba(x []float64) ([]float64, error) {
	if x[feature.Index(feature.Nitrogen)] > 50 {
		return []float64{0.9, 0.1}, nil
	}
	return []float64{0.2, 0.8}, nil
}

func (nitrogen) Classes() []int {
	return []int{1, 0}
}

func example(n float64, crop string) dataset.Example {
	return dataset.NewExample(feature.Record{N: n, P: 40, K: 40, Temperature: 25, Humidity: 70, PH: 6.5, Rainfall: 150}, crop)
}

func TestEvaluate(t *testing.T) {
	codec, err := label.Fit([]string{"a", "b"})
	require.NoError(t, err)

	r, err := eval.Evaluate(nitrogen{}, codec, []dataset.Example{
		example(10, "a"),
		example(80, "a"),
		example(90, "b"),
		example(95, "b"),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, r.Examples)
	assert.InDelta(t, 0.75, r.Accuracy, 1e-9)
	assert.Equal(t, map[string]map[string]int{"a": {"a": 1, "b": 1}, "b": {"b": 2}}, r.Confusion)
	assert.Equal(t, []string{"a", "b"}, r.Crops())

	assert.InDelta(t, 1.0, r.PerCrop["a"].Precision, 1e-9)
	assert.InDelta(t, 0.5, r.PerCrop["a"].Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, r.PerCrop["a"].F1, 1e-9)
	assert.InDelta(t, 0.8, r.PerCrop["b"].F1, 1e-9)
	assert.Equal(t, 2, r.PerCrop["b"].Support)
	assert.InDelta(t, (2.0/3.0+0.8)/2, r.MacroF1, 1e-9)
}

func TestEvaluateErrors(t *testing.T) {
	codec, err := label.Fit([]string{"a", "b"})
	require.NoError(t, err)

	_, err = eval.Evaluate(nitrogen{}, codec, nil)
	assert.Error(t, err)

	bad := example(10, "a")
	delete(bad.Features, feature.Rainfall)
	_, err = eval.Evaluate(nitrogen{}, codec, []dataset.Example{bad})
	assert.ErrorIs(t, err, feature.ErrSchemaMismatch)
}

func TestSplit(t *testing.T) {
	examples := dataset.Synthetic(dataset.Profiles, 10, 3)
	train, test, err := eval.Split(examples, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, test, 6)
	assert.Len(t, train, 24)
	assert.ElementsMatch(t, examples, append(append(dataset.Static{}, train...), test...))

	again, _, err := eval.Split(examples, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train, again)

	for _, ratio := range []float64{0, 1, -0.5} {
		_, _, err := eval.Split(examples, ratio, 42)
		assert.Error(t, err)
	}
}

func TestEvaluateTrainedForest(t *testing.T) {
	train, test, err := eval.Split(dataset.Synthetic(dataset.Profiles, 40, 5), 0.25, 1)
	require.NoError(t, err)
	p := learning.DefaultForestParams
	p.Trees = 20
	forest, codec, err := learning.NewTrainer(p).Train(train)
	require.NoError(t, err)

	r, err := eval.Evaluate(forest, codec, test)
	require.NoError(t, err)
	assert.Equal(t, 30, r.Examples)
	assert.Greater(t, r.Accuracy, 0.9)
	assert.Greater(t, r.MacroF1, 0.9)
}
