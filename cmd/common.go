package cmd

import (
	"github.com/hscells/cropsuit"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Common are the flags every tool accepts.
type Common struct {
	Config   string `help:"path to a .properties configuration file" arg:"-c,--config"`
	ModelDir string `help:"directory the model bundle is stored in" arg:"--model-dir"`
	Dataset  string `help:"path to the labelled training CSV" arg:"--dataset"`
	Trees    *int   `help:"number of trees in the forest" arg:"--trees"`
	Seed     *int64 `help:"random seed for training" arg:"--seed"`
	LogLevel string `help:"log level (debug, info, warn, error)" arg:"--log-level"`
	Metrics  string `help:"write Prometheus metrics to this file on exit" arg:"--metrics"`
}

// Configure loads the configuration file, if any, and applies the flags on top of it.
func (c Common) Configure() (cropsuit.Config, error) {
	config := cropsuit.DefaultConfig()
	if len(c.Config) > 0 {
		var err error
		config, err = cropsuit.LoadConfig(c.Config)
		if err != nil {
			return config, err
		}
	}
	if len(c.ModelDir) > 0 {
		config.ModelDir = c.ModelDir
	}
	if len(c.Dataset) > 0 {
		config.DatasetPath = c.Dataset
	}
	if c.Trees != nil {
		config.Trees = *c.Trees
	}
	if c.Seed != nil {
		config.Seed = *c.Seed
	}
	if len(c.LogLevel) > 0 {
		config.LogLevel = c.LogLevel
	}
	return config, errors.Wrap(config.Validate(), "invalid configuration")
}

// WriteMetrics writes everything gathered by g to the metrics file, if one was given.
func (c Common) WriteMetrics(g prometheus.Gatherer) error {
	if len(c.Metrics) == 0 {
		return nil
	}
	return prometheus.WriteToTextfile(c.Metrics, g)
}
