package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/hscells/cropsuit"
	"github.com/hscells/cropsuit/cmd"
	"github.com/hscells/cropsuit/dataset"
	"github.com/hscells/cropsuit/eval"
	"github.com/hscells/cropsuit/learning"
	"github.com/hscells/cropsuit/metrics"
	"github.com/hscells/cropsuit/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	name    = "cropsuit_train"
	version = "17.Oct.2026"
	author  = "Harry Scells"
)

type args struct {
	cmd.Common
	Holdout  float64 `help:"fraction of the dataset held out to report accuracy (0 disables)" arg:"--holdout" default:"0.2"`
	Retrain  bool    `help:"train a new model even if one is stored" arg:"--retrain"`
	Progress bool    `help:"display a progress bar while growing trees" arg:"--progress"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
@ %s
# %s`, name, author, version)
}

func main() {
	var args args
	arg.MustParse(&args)

	c, err := args.Configure()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := c.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	if err := run(args, c, logger, metrics.New(reg)); err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}
	if err := args.WriteMetrics(reg); err != nil {
		logger.Error("could not write metrics", zap.Error(err))
	}
}

func run(args args, c cropsuit.Config, logger *zap.Logger, r *metrics.Recorder) error {
	examples, err := dataset.NewCSV(c.DatasetPath).Load()
	if err != nil {
		return err
	}

	options := []learning.TrainerOption{learning.TrainerLogger(logger)}
	if args.Progress {
		options = append(options, learning.TrainerProgress(os.Stderr))
	}
	trainer := learning.NewTrainer(c.ForestParams(), options...)

	if args.Holdout > 0 {
		report, ok, err := holdout(trainer, examples, args.Holdout, c.Seed)
		if err != nil {
			return err
		}
		if ok {
			logger.Info("holdout evaluation",
				zap.Int("train", len(examples)-report.Examples),
				zap.Int("test", report.Examples),
				zap.Float64("accuracy", report.Accuracy),
				zap.Float64("macro_f1", report.MacroF1))
			for _, crop := range report.Crops() {
				m := report.PerCrop[crop]
				logger.Debug("holdout crop",
					zap.String("crop", crop),
					zap.Float64("precision", m.Precision),
					zap.Float64("recall", m.Recall),
					zap.Float64("f1", m.F1),
					zap.Int("support", m.Support))
			}
			fmt.Printf("accuracy %.4f macro-F1 %.4f on %d held out examples\n", report.Accuracy, report.MacroF1, report.Examples)
		} else {
			logger.Warn("too few examples for a holdout evaluation, skipping it",
				zap.Int("examples", len(examples)),
				zap.Float64("holdout", args.Holdout))
		}
	}

	s := store.New(c.ModelDir, trainer, store.Logger(logger))
	var b *store.Bundle
	if args.Retrain {
		b, err = s.Train(dataset.Static(examples))
	} else {
		b, err = s.LoadOrTrain(dataset.Static(examples))
	}
	if err != nil {
		return err
	}
	if b.Source == store.SourceTrained {
		r.Trained(b.Manifest.TrainingTime)
	}
	r.Loaded(b.Manifest.Trees, len(b.Manifest.Classes))
	fmt.Printf("model %s (%s): %d trees, %d crops, %d examples\n",
		b.Manifest.ID, b.Source, b.Manifest.Trees, len(b.Manifest.Classes), b.Manifest.Examples)
	return nil
}

// holdout trains on part of examples and evaluates on the rest. It reports false when either part would be empty.
func holdout(trainer *learning.Trainer, examples []dataset.Example, ratio float64, seed int64) (eval.Report, bool, error) {
	train, test, err := eval.Split(examples, ratio, seed)
	if err != nil {
		return eval.Report{}, false, err
	}
	if len(train) == 0 || len(test) == 0 {
		return eval.Report{}, false, nil
	}
	forest, codec, err := trainer.Train(train)
	if err != nil {
		return eval.Report{}, false, err
	}
	report, err := eval.Evaluate(forest, codec, test)
	if err != nil {
		return eval.Report{}, false, err
	}
	return report, true, nil
}
