package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/hscells/cropsuit"
	"github.com/hscells/cropsuit/cmd"
	"github.com/hscells/cropsuit/dataset"
	"github.com/hscells/cropsuit/feature"
	"github.com/hscells/cropsuit/learning"
	"github.com/hscells/cropsuit/metrics"
	"github.com/hscells/cropsuit/output"
	"github.com/hscells/cropsuit/store"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	name    = "cropsuit"
	version = "17.Oct.2026"
	author  = "Harry Scells"
)

type args struct {
	cmd.Common
	N           *float64      `help:"nitrogen content of the soil" arg:"-n,--nitrogen"`
	P           *float64      `help:"phosphorus content of the soil" arg:"-p,--phosphorus"`
	K           *float64      `help:"potassium content of the soil" arg:"-k,--potassium"`
	Temperature *float64      `help:"temperature in degrees Celsius" arg:"--temperature"`
	Humidity    *float64      `help:"relative humidity in percent" arg:"--humidity"`
	PH          *float64      `help:"soil pH" arg:"--ph"`
	Rainfall    *float64      `help:"rainfall in mm" arg:"--rainfall"`
	Location    string        `help:"location the recommendation is for; conditions not given are estimated" arg:"-l,--location"`
	Estimates   int           `help:"number of estimated records to recommend for when soil is not measured" arg:"--estimates" default:"1"`
	Threshold   *float64      `help:"minimum probability for a crop to be recommended" arg:"--threshold"`
	Limit       *int          `help:"maximum number of crops to recommend" arg:"--limit"`
	Format      string        `help:"output format (text, json, csv)" arg:"-f,--format" default:"text"`
	Timeout     time.Duration `help:"how long to wait for the model" arg:"--timeout" default:"5m"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
@ %s
# %s`, name, author, version)
}

// soil returns the measured soil values, or false when none were given.
func (a args) soil() ([]*float64, bool, error) {
	values := []*float64{a.N, a.P, a.K, a.PH, a.Rainfall}
	given := 0
	for _, v := range values {
		if v != nil {
			given++
		}
	}
	if given > 0 && given < len(values) {
		return nil, false, errors.New("either all or none of --nitrogen, --phosphorus, --potassium, --ph and --rainfall must be given")
	}
	return values, given > 0, nil
}

// weather returns the live readings, or nil when they were not both given.
func (a args) weather() (*feature.Weather, error) {
	if (a.Temperature == nil) != (a.Humidity == nil) {
		return nil, errors.New("--temperature and --humidity must be given together")
	}
	if a.Temperature == nil {
		return nil, nil
	}
	return &feature.Weather{Temperature: *a.Temperature, Humidity: *a.Humidity}, nil
}

func (a args) records(seed int64) ([]feature.Record, error) {
	soil, measured, err := a.soil()
	if err != nil {
		return nil, err
	}
	weather, err := a.weather()
	if err != nil {
		return nil, err
	}
	if measured {
		if weather == nil {
			return nil, errors.New("--temperature and --humidity are required with measured soil")
		}
		return []feature.Record{{
			N:           *soil[0],
			P:           *soil[1],
			K:           *soil[2],
			Temperature: weather.Temperature,
			Humidity:    weather.Humidity,
			PH:          *soil[3],
			Rainfall:    *soil[4],
		}}, nil
	}
	if a.Estimates < 1 {
		return nil, errors.Errorf("--estimates must be positive, got %d", a.Estimates)
	}
	estimator := feature.NewEstimator(seed)
	records := make([]feature.Record, a.Estimates)
	for i := range records {
		records[i] = estimator.Estimate(weather)
	}
	return records, nil
}

func main() {
	var args args
	arg.MustParse(&args)

	c, err := args.Configure()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if args.Threshold != nil {
		c.Threshold = *args.Threshold
	}
	if args.Limit != nil {
		c.Limit = *args.Limit
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	format, err := output.Lookup(args.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	records, err := args.records(time.Now().UnixNano())
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
	e, err := cropsuit.NewEngine(
		cropsuit.Policy(c.Policy()),
		cropsuit.Logger(logger),
		cropsuit.Metrics(metrics.New(reg)),
		cropsuit.CacheSize(c.CacheSize),
	)
	if err != nil {
		logger.Fatal("could not create engine", zap.Error(err))
	}
	trainer := learning.NewTrainer(c.ForestParams(), learning.TrainerLogger(logger))
	e.Start(store.New(c.ModelDir, trainer, store.Logger(logger)), dataset.NewCSV(c.DatasetPath))

	ctx, cancel := context.WithTimeout(context.Background(), args.Timeout)
	defer cancel()

	recs := make(output.Recommendations, 0, len(records))
	for _, r := range records {
		rec, err := e.Recommend(ctx, r.Vector())
		if err != nil {
			logger.Fatal("recommendation failed", zap.Error(err))
		}
		recs = append(recs, output.FromRecommendation(rec, r, args.Location))
	}

	s, err := format(recs)
	if err != nil {
		logger.Fatal("could not format recommendations", zap.Error(err))
	}
	if _, err := os.Stdout.WriteString(s); err != nil {
		logger.Fatal("could not write recommendations", zap.Error(err))
	}
	if err := args.WriteMetrics(reg); err != nil {
		logger.Error("could not write metrics", zap.Error(err))
	}
}
