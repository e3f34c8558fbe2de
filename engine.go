// Package cropsuit recommends crops suited to a set of soil and weather conditions using a random forest trained
// on labelled growing conditions.
package cropsuit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/hashicorp/golang-lru"
	"github.com/hscells/cropsuit/dataset"
	"github.com/hscells/cropsuit/feature"
	"github.com/hscells/cropsuit/label"
	"github.com/hscells/cropsuit/learning"
	"github.com/hscells/cropsuit/metrics"
	"github.com/hscells/cropsuit/rank"
	"github.com/hscells/cropsuit/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrModelNotLoaded is returned when a prediction is requested from an engine without a model.
var ErrModelNotLoaded = errors.New("model not loaded")

// Model is an immutable classifier and codec pair, with the mapping from the classifier's own class order to crop
// names resolved up front.
type Model struct {
	id         string
	classifier learning.Classifier
	codec      *label.Codec
	crops      []string // crops[i] is the crop for probability i
}

// NewModel pairs a classifier with the codec its class IDs were encoded with. Every class the classifier can emit
// must decode, so that a mismatched pair is rejected here rather than at prediction time.
func NewModel(classifier learning.Classifier, codec *label.Codec) (*Model, error) {
	ids := classifier.Classes()
	crops := make([]string, len(ids))
	seen := make(map[int]bool, len(ids))
	for i, id := range ids {
		if seen[id] {
			return nil, errors.Errorf("classifier lists class %d twice", id)
		}
		seen[id] = true
		crop, err := codec.Decode(id)
		if err != nil {
			return nil, errors.Wrap(err, "classifier and label codec disagree")
		}
		crops[i] = crop
	}
	return &Model{classifier: classifier, codec: codec, crops: crops}, nil
}

// ModelFromBundle builds a model from a stored or freshly trained bundle.
func ModelFromBundle(b *store.Bundle) (*Model, error) {
	m, err := NewModel(b.Classifier, b.Codec)
	if err != nil {
		return nil, err
	}
	m.id = b.Manifest.ID
	return m, nil
}

// ID identifies the bundle the model was built from, if any.
func (m *Model) ID() string {
	return m.id
}

// Crops returns every crop the codec knows, in ID order.
func (m *Model) Crops() []string {
	return m.codec.Classes()
}

// score runs the classifier on x and pairs each probability with its crop. Errors, panics and malformed output
// from the classifier are all returned as a fault carrying a stack trace.
func (m *Model) score(x []float64) (scores []rank.Scored, fault *goerrors.Error) {
	defer func() {
		if r := recover(); r != nil {
			scores, fault = nil, goerrors.Wrap(r, 2)
		}
	}()
	probs, err := m.classifier.PredictProba(x)
	if err != nil {
		return nil, goerrors.Wrap(err, 1)
	}
	if len(probs) != len(m.crops) {
		return nil, goerrors.Errorf("classifier returned %d probabilities for %d classes", len(probs), len(m.crops))
	}
	scores = make([]rank.Scored, len(probs))
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, goerrors.Errorf("classifier returned %v for %s", p, m.crops[i])
		}
		scores[i] = rank.Scored{Crop: m.crops[i], Probability: p}
	}
	return scores, nil
}

// Recommendation is the outcome of a prediction. Fault is set when inference failed; Crops is then empty, as it is
// when no crop is likely enough to recommend.
type Recommendation struct {
	Crops []rank.Scored
	Model string
	Fault bool
}

type cacheKey struct {
	model  *Model
	record feature.Record
}

// Engine serves predictions from one model at a time. Models are immutable and swapped atomically, so an engine is
// safe for concurrent use without locking on the prediction path.
type Engine struct {
	model atomic.Pointer[Model]

	mu        sync.Mutex
	started   bool
	ready     chan struct{}
	readyOnce sync.Once
	initErr   error

	policy    rank.Policy
	logger    *zap.Logger
	metrics   *metrics.Recorder
	cacheSize int
	cache     *lru.Cache
}

// Option configures an Engine.
type Option func(*Engine)

// Policy sets the ranking policy.
func Policy(p rank.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// Logger sets the logger.
func Logger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Metrics sets the metrics recorder.
func Metrics(r *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// CacheSize keeps the last n recommendations in memory. Zero disables the cache.
func CacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// NewEngine creates an engine without a model. Call Init, Start or Load before serving predictions.
func NewEngine(options ...Option) (*Engine, error) {
	e := &Engine{
		ready:   make(chan struct{}),
		policy:  rank.DefaultPolicy,
		logger:  zap.NewNop(),
		metrics: metrics.New(nil),
	}
	for _, option := range options {
		option(e)
	}
	if e.cacheSize > 0 {
		cache, err := lru.New(e.cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "creating recommendation cache")
		}
		e.cache = cache
	}
	return e, nil
}

// Load installs m, replacing any current model, and releases predictions waiting on initialisation.
func (e *Engine) Load(m *Model) {
	e.model.Store(m)
	if e.cache != nil {
		e.cache.Purge()
	}
	e.metrics.Loaded(e.trees(m), len(m.crops))
	e.logger.Info("model loaded", zap.String("model", m.id), zap.Strings("crops", m.crops))
	e.begin()
	e.finish(nil)
}

func (e *Engine) trees(m *Model) int {
	if f, ok := m.classifier.(*learning.Forest); ok {
		return len(f.Trees)
	}
	return 0
}

// Init loads the stored model, training and storing one first if needed. It blocks until the model is loaded.
func (e *Engine) Init(s *store.Store, p dataset.Provider) error {
	e.begin()
	b, err := s.LoadOrTrain(p)
	if err != nil {
		e.finish(err)
		return err
	}
	if b.Source == store.SourceTrained {
		e.metrics.Trained(b.Manifest.TrainingTime)
	}
	m, err := ModelFromBundle(b)
	if err != nil {
		e.finish(err)
		return err
	}
	e.Load(m)
	return nil
}

// Start runs Init in the background. Predictions made before it finishes wait for it.
func (e *Engine) Start(s *store.Store, p dataset.Provider) {
	e.begin()
	go func() {
		if err := e.Init(s, p); err != nil {
			e.logger.Error("model initialisation failed", zap.Error(err))
		}
	}()
}

// Ready is closed once initialisation has finished, successfully or not.
func (e *Engine) Ready() <-chan struct{} {
	return e.ready
}

// Err returns the initialisation error, if initialisation has finished and failed.
func (e *Engine) Err() error {
	select {
	case <-e.ready:
		return e.initErr
	default:
		return nil
	}
}

func (e *Engine) begin() {
	e.mu.Lock()
	e.started = true
	e.mu.Unlock()
}

func (e *Engine) finish(err error) {
	e.readyOnce.Do(func() {
		e.initErr = err
		close(e.ready)
	})
}

// current returns the installed model, waiting for an initialisation in progress.
func (e *Engine) current(ctx context.Context) (*Model, error) {
	if m := e.model.Load(); m != nil {
		return m, nil
	}
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if !started {
		return nil, ErrModelNotLoaded
	}
	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, errors.Wrap(ErrModelNotLoaded, ctx.Err().Error())
	}
	if m := e.model.Load(); m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("%w: initialisation failed: %w", ErrModelNotLoaded, e.initErr)
}

// Crops returns every crop the current model knows.
func (e *Engine) Crops(ctx context.Context) ([]string, error) {
	m, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	return m.Crops(), nil
}

// Recommend ranks crops for v. It fails with ErrModelNotLoaded when there is no model and with
// feature.ErrInvalidRecord when v does not match the schema. A classifier failure is not an error: it is logged,
// counted, and returned as an empty recommendation with Fault set.
func (e *Engine) Recommend(ctx context.Context, v feature.Vector) (Recommendation, error) {
	start := time.Now()
	m, err := e.current(ctx)
	if err != nil {
		e.metrics.Observe(metrics.OutcomeUnavailable, start)
		return Recommendation{}, err
	}
	r, err := v.Record()
	if err != nil {
		e.metrics.Observe(metrics.OutcomeInvalid, start)
		return Recommendation{}, err
	}

	key := cacheKey{model: m, record: r}
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			e.metrics.CacheHits.Inc()
			rec := cached.(Recommendation)
			rec.Crops = append([]rank.Scored(nil), rec.Crops...)
			e.metrics.Observe(outcome(rec), start)
			return rec, nil
		}
	}

	x := r.Values()
	scores, fault := m.score(x)
	if fault != nil {
		e.logger.Error("inference fault",
			zap.String("model", m.id),
			zap.Float64s("features", x),
			zap.Error(fault),
			zap.String("stack", string(fault.Stack())))
		e.metrics.Observe(metrics.OutcomeFault, start)
		return Recommendation{Crops: []rank.Scored{}, Model: m.id, Fault: true}, nil
	}

	rec := Recommendation{Crops: e.policy.Apply(scores), Model: m.id}
	if e.cache != nil {
		e.cache.Add(key, Recommendation{Crops: append([]rank.Scored(nil), rec.Crops...), Model: rec.Model})
	}
	e.metrics.Observe(outcome(rec), start)
	return rec, nil
}

// Predict returns the names of the recommended crops for v, most suitable first. An empty list means no crop is
// likely enough to recommend.
func (e *Engine) Predict(ctx context.Context, v feature.Vector) ([]string, error) {
	rec, err := e.Recommend(ctx, v)
	if err != nil {
		return nil, err
	}
	return rank.Names(rec.Crops), nil
}

func outcome(rec Recommendation) string {
	if len(rec.Crops) == 0 {
		return metrics.OutcomeEmpty
	}
	return metrics.OutcomeRecommended
}
