// Package eval measures how well a trained classifier recommends crops on held out examples.
package eval

import (
	"math"
	"math/rand"
	"sort"

	"github.com/hscells/cropsuit/dataset"
	"github.com/hscells/cropsuit/feature"
	"github.com/hscells/cropsuit/label"
	"github.com/hscells/cropsuit/learning"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Split shuffles examples with seed and holds out ratio of them for testing. The input is not modified. On a small
// dataset the held out set may be empty.
func Split(examples []dataset.Example, ratio float64, seed int64) (train, test dataset.Static, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.Errorf("holdout ratio must be in (0, 1), got %v", ratio)
	}
	idx := rand.New(rand.NewSource(seed)).Perm(len(examples))
	n := int(math.Round(float64(len(examples)) * ratio))
	test = make(dataset.Static, 0, n)
	train = make(dataset.Static, 0, len(examples)-n)
	for i, j := range idx {
		if i < n {
			test = append(test, examples[j])
		} else {
			train = append(train, examples[j])
		}
	}
	return train, test, nil
}

// Measure is the per-crop outcome of an evaluation.
type Measure struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarises an evaluation. Confusion[actual][predicted] counts examples.
type Report struct {
	Examples  int
	Accuracy  float64
	MacroF1   float64
	PerCrop   map[string]Measure
	Confusion map[string]map[string]int
}

// Crops returns the crops in the report, sorted.
func (r Report) Crops() []string {
	crops := make([]string, 0, len(r.PerCrop))
	for crop := range r.PerCrop {
		crops = append(crops, crop)
	}
	sort.Strings(crops)
	return crops
}

// Evaluate predicts the most probable crop for every example and compares it with the example's label. Labels the
// codec does not know count as misses for that label.
func Evaluate(c learning.Classifier, codec *label.Codec, examples []dataset.Example) (Report, error) {
	r := Report{
		Examples:  len(examples),
		PerCrop:   make(map[string]Measure),
		Confusion: make(map[string]map[string]int),
	}
	if len(examples) == 0 {
		return r, errors.New("no examples to evaluate")
	}

	ids := c.Classes()
	correct := 0
	for i, e := range examples {
		rec, err := feature.FromNamed(e.Features)
		if err != nil {
			return r, errors.Wrapf(err, "example %d", i)
		}
		probs, err := c.PredictProba(rec.Values())
		if err != nil {
			return r, errors.Wrapf(err, "example %d", i)
		}
		if len(probs) != len(ids) {
			return r, errors.Errorf("example %d: classifier returned %d probabilities for %d classes", i, len(probs), len(ids))
		}
		predicted, err := codec.Decode(ids[floats.MaxIdx(probs)])
		if err != nil {
			return r, errors.Wrapf(err, "example %d", i)
		}
		if r.Confusion[e.Label] == nil {
			r.Confusion[e.Label] = make(map[string]int)
		}
		r.Confusion[e.Label][predicted]++
		if predicted == e.Label {
			correct++
		}
	}
	r.Accuracy = float64(correct) / float64(len(examples))

	predicted := make(map[string]int)
	for _, row := range r.Confusion {
		for crop, n := range row {
			predicted[crop] += n
		}
	}
	for crop := range predicted {
		if _, ok := r.Confusion[crop]; !ok {
			r.Confusion[crop] = make(map[string]int)
		}
	}

	f1s := make([]float64, 0, len(r.Confusion))
	for crop, row := range r.Confusion {
		var m Measure
		tp := row[crop]
		for _, n := range row {
			m.Support += n
		}
		if predicted[crop] > 0 {
			m.Precision = float64(tp) / float64(predicted[crop])
		}
		if m.Support > 0 {
			m.Recall = float64(tp) / float64(m.Support)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.PerCrop[crop] = m
		f1s = append(f1s, m.F1)
	}
	r.MacroF1 = stat.Mean(f1s, nil)
	return r, nil
}
