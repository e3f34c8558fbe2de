package cropsuit

import (
	"github.com/hscells/cropsuit/learning"
	"github.com/hscells/cropsuit/rank"
	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds everything needed to construct an engine and its model store. It is read from a .properties file;
// every key has a default.
type Config struct {
	ModelDir    string `properties:"model.dir,default=data/model"`
	DatasetPath string `properties:"dataset.path,default=data/Crop_recommendation.csv"`

	Trees           int    `properties:"forest.trees,default=100"`
	Seed            int64  `properties:"forest.seed,default=42"`
	MaxFeatures     int    `properties:"forest.max_features,default=0"`
	MaxDepth        int    `properties:"forest.max_depth,default=0"`
	MinSamplesSplit int    `properties:"forest.min_samples_split,default=2"`
	Criterion       string `properties:"forest.criterion,default=gini"`
	Workers         int    `properties:"forest.workers,default=0"`

	Threshold float64 `properties:"predict.threshold,default=0.05"`
	Limit     int     `properties:"predict.limit,default=8"`
	CacheSize int     `properties:"predict.cache_size,default=1024"`

	LogLevel string `properties:"log.level,default=info"`
	LogEnv   string `properties:"log.env,default=production"`
}

// DefaultConfig returns the configuration with every default applied.
func DefaultConfig() Config {
	c, err := decode(properties.NewProperties())
	if err != nil {
		panic(err)
	}
	return c
}

// LoadConfig reads a configuration file. Keys absent from the file keep their defaults, and ${key} references are
// expanded.
func LoadConfig(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, errors.Wrap(err, "loading configuration")
	}
	return decode(p)
}

func decode(p *properties.Properties) (Config, error) {
	var c Config
	if err := p.Decode(&c); err != nil {
		return Config{}, errors.Wrap(err, "decoding configuration")
	}
	return c, c.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Trees < 1 {
		return errors.Errorf("forest.trees must be positive, got %d", c.Trees)
	}
	if c.MaxFeatures < 0 {
		return errors.Errorf("forest.max_features must not be negative, got %d", c.MaxFeatures)
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("forest.max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Threshold < 0 || c.Threshold >= 1 {
		return errors.Errorf("predict.threshold must be in [0, 1), got %v", c.Threshold)
	}
	if c.Limit == 0 {
		return errors.New("predict.limit must not be zero; use a negative limit to keep every crop")
	}
	if c.CacheSize < 0 {
		return errors.Errorf("predict.cache_size must not be negative, got %d", c.CacheSize)
	}
	if _, err := learning.ParseCriterion(c.Criterion); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}

// ForestParams returns the forest configuration.
func (c Config) ForestParams() learning.ForestParams {
	criterion, _ := learning.ParseCriterion(c.Criterion)
	return learning.ForestParams{
		Trees:           c.Trees,
		MaxFeatures:     c.MaxFeatures,
		MaxDepth:        c.MaxDepth,
		MinSamplesSplit: c.MinSamplesSplit,
		Criterion:       criterion,
		Seed:            c.Seed,
		Workers:         c.Workers,
	}
}

// Policy returns the ranking policy.
func (c Config) Policy() rank.Policy {
	return rank.Policy{Threshold: c.Threshold, Limit: c.Limit}
}

// Logger builds a zap logger: JSON output in production, coloured console output otherwise.
func (c Config) Logger() (*zap.Logger, error) {
	var config zap.Config
	if c.LogEnv == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	return config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}
