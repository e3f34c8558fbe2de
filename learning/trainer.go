package learning

import (
	"io"
	"math"
	"time"

	"github.com/hscells/cropsuit/dataset"
	"github.com/hscells/cropsuit/feature"
	"github.com/hscells/cropsuit/label"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptyDataset is returned when training on zero examples.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInvalidExample is returned when a training example holds a value that is not a finite number.
	ErrInvalidExample = errors.New("invalid training example")
)

// Trainer fits a label codec and a forest from labelled examples.
type Trainer struct {
	params   ForestParams
	logger   *zap.Logger
	progress io.Writer
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// TrainerLogger sets the logger.
func TrainerLogger(logger *zap.Logger) TrainerOption {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// TrainerProgress displays a progress bar on w while trees are grown.
func TrainerProgress(w io.Writer) TrainerOption {
	return func(t *Trainer) {
		t.progress = w
	}
}

// NewTrainer creates a trainer for the given forest configuration.
func NewTrainer(params ForestParams, options ...TrainerOption) *Trainer {
	t := &Trainer{
		params: params,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// Params returns the forest configuration.
func (t *Trainer) Params() ForestParams {
	return t.params
}

// Train validates every example against the schema, fits the codec over all labels, then fits the forest on the
// encoded labels.
func (t *Trainer) Train(examples []dataset.Example) (*Forest, *label.Codec, error) {
	if len(examples) == 0 {
		return nil, nil, ErrEmptyDataset
	}

	x := make([][]float64, len(examples))
	labels := make([]string, len(examples))
	for i, e := range examples {
		r, err := feature.FromNamed(e.Features)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", i)
		}
		for j, v := range r.Values() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, errors.Wrapf(ErrInvalidExample, "row %d: %s is %v", i, feature.Names[j], v)
			}
		}
		if len(e.Label) == 0 {
			return nil, nil, errors.Errorf("row %d has no label", i)
		}
		x[i] = r.Values()
		labels[i] = e.Label
	}

	codec, err := label.Fit(labels)
	if err != nil {
		return nil, nil, err
	}
	y, err := codec.EncodeAll(labels)
	if err != nil {
		return nil, nil, err
	}

	t.summarise(x, codec)

	start := time.Now()
	forest, err := FitForest(x, y, t.params, t.progress)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fitting forest")
	}
	t.logger.Info("trained forest",
		zap.Int("trees", len(forest.Trees)),
		zap.Int("max_features", forest.Params.MaxFeatures),
		zap.String("criterion", forest.Params.Criterion.String()),
		zap.Int64("seed", forest.Params.Seed),
		zap.Duration("took", time.Since(start)))
	return forest, codec, nil
}

func (t *Trainer) summarise(x [][]float64, codec *label.Codec) {
	if ce := t.logger.Check(zap.DebugLevel, "training data"); ce != nil {
		fields := []zap.Field{zap.Int("rows", len(x)), zap.Strings("classes", codec.Classes())}
		col := make([]float64, len(x))
		for j, name := range feature.Names {
			for i := range x {
				col[i] = x[i][j]
			}
			mean, std := stat.MeanStdDev(col, nil)
			fields = append(fields, zap.Float64s(name, []float64{mean, std}))
		}
		ce.Write(fields...)
		return
	}
	t.logger.Info("training data", zap.Int("rows", len(x)), zap.Int("classes", codec.Len()))
}
