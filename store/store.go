// Package store persists a trained classifier together with its label codec, training one when none is stored.
package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hscells/cropsuit/dataset"
	"github.com/hscells/cropsuit/feature"
	"github.com/hscells/cropsuit/label"
	"github.com/hscells/cropsuit/learning"
	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Keys of the artifacts that make up a bundle. The manifest is written last and is what makes a bundle complete.
const (
	ClassifierKey = "classifier"
	CodecKey      = "codec"
	ManifestKey   = "manifest"
)

var (
	// ErrNotFound is returned by Load when no complete bundle is stored.
	ErrNotFound = errors.New("model bundle not found")
	// ErrCorruptBundle is returned when stored artifacts do not match the checksums in their manifest.
	ErrCorruptBundle = errors.New("corrupt model bundle")
	// ErrIncompatibleBundle is returned when a stored bundle was trained against a different schema or label set.
	ErrIncompatibleBundle = errors.New("incompatible model bundle")
)

// Source records where a bundle came from.
type Source int

const (
	// SourceDisk bundles were read from the store.
	SourceDisk Source = iota
	// SourceTrained bundles were trained in this process.
	SourceTrained
)

func (s Source) String() string {
	if s == SourceTrained {
		return "trained"
	}
	return "disk"
}

// Manifest ties a classifier and a codec together. Both artifacts are only valid as the pair it describes.
type Manifest struct {
	ID            string
	Fingerprint   string
	Schema        []string
	Classes       []string
	ClassifierSum string
	CodecSum      string
	Trees         int
	Seed          int64
	Examples      int
	TrainingTime  time.Duration
	CreatedAt     time.Time
}

// Bundle is a classifier and the codec it was trained with.
type Bundle struct {
	Classifier *learning.Forest
	Codec      *label.Codec
	Manifest   Manifest
	Source     Source
}

// Store is a diskv backed bundle store. Every artifact is written to a temporary file and renamed into place.
type Store struct {
	d       *diskv.Diskv
	trainer *learning.Trainer
	logger  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// Logger sets the logger.
func Logger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store rooted at dir. trainer is used by LoadOrTrain when no bundle is stored.
func New(dir string, trainer *learning.Trainer, options ...Option) *Store {
	s := &Store{
		d: diskv.New(diskv.Options{
			BasePath: filepath.Join(dir, "bundle"),
			TempDir:  filepath.Join(dir, "tmp"),
			Transform: func(string) []string {
				return []string{}
			},
		}),
		trainer: trainer,
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Exists reports whether a complete bundle is stored.
func (s *Store) Exists() bool {
	return s.d.Has(ClassifierKey) && s.d.Has(CodecKey) && s.d.Has(ManifestKey)
}

// LoadOrTrain returns the stored bundle, or trains, saves and returns a new one when either artifact is missing.
// A bundle that exists but fails validation is an error rather than a reason to retrain.
func (s *Store) LoadOrTrain(p dataset.Provider) (*Bundle, error) {
	if s.Exists() {
		b, err := s.Load()
		if err != nil {
			return nil, err
		}
		s.logger.Info("loaded model bundle",
			zap.String("id", b.Manifest.ID),
			zap.Int("classes", b.Codec.Len()),
			zap.Time("created", b.Manifest.CreatedAt))
		return b, nil
	}
	s.logger.Info("no stored model bundle, training")
	return s.Train(p)
}

// Train trains a bundle on the examples p provides and saves it, replacing any stored bundle.
func (s *Store) Train(p dataset.Provider) (*Bundle, error) {
	examples, err := p.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading training data")
	}
	start := time.Now()
	forest, codec, err := s.trainer.Train(examples)
	if err != nil {
		return nil, err
	}
	b := &Bundle{
		Classifier: forest,
		Codec:      codec,
		Manifest: Manifest{
			Examples:     len(examples),
			TrainingTime: time.Since(start),
		},
		Source: SourceTrained,
	}
	if err := s.Save(b); err != nil {
		return nil, err
	}
	s.logger.Info("saved model bundle",
		zap.String("id", b.Manifest.ID),
		zap.Int("examples", len(examples)),
		zap.Duration("took", b.Manifest.TrainingTime))
	return b, nil
}

// Save writes a bundle and fills in its manifest. The previous manifest is erased first, so a crash part way leaves
// an incomplete bundle that Exists reports as missing.
func (s *Store) Save(b *Bundle) error {
	classifier, err := encode(b.Classifier)
	if err != nil {
		return errors.Wrap(err, "encoding classifier")
	}
	codec, err := b.Codec.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "encoding label codec")
	}

	classes := b.Codec.Classes()
	m := b.Manifest
	m.ID = uuid.New().String()
	m.Fingerprint = feature.Fingerprint(classes)
	m.Schema = append([]string(nil), feature.Names...)
	m.Classes = classes
	m.ClassifierSum = checksum(classifier)
	m.CodecSum = checksum(codec)
	m.Trees = len(b.Classifier.Trees)
	m.Seed = b.Classifier.Params.Seed
	m.CreatedAt = time.Now().UTC()
	manifest, err := encode(m)
	if err != nil {
		return errors.Wrap(err, "encoding manifest")
	}

	if s.d.Has(ManifestKey) {
		if err := s.d.Erase(ManifestKey); err != nil {
			return errors.Wrap(err, "erasing manifest")
		}
	}
	for _, kv := range []struct {
		key string
		val []byte
	}{
		{ClassifierKey, classifier},
		{CodecKey, codec},
		{ManifestKey, manifest},
	} {
		if err := s.d.WriteStream(kv.key, bytes.NewReader(kv.val), true); err != nil {
			return errors.Wrapf(err, "writing %s", kv.key)
		}
	}
	b.Manifest = m
	return nil
}

// Load reads and validates the stored bundle.
func (s *Store) Load() (*Bundle, error) {
	if !s.Exists() {
		return nil, ErrNotFound
	}
	manifestBytes, err := s.d.Read(ManifestKey)
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}
	var m Manifest
	if err := decode(manifestBytes, &m); err != nil {
		return nil, errors.Wrapf(ErrCorruptBundle, "manifest: %v", err)
	}
	classifierBytes, err := s.d.Read(ClassifierKey)
	if err != nil {
		return nil, errors.Wrap(err, "reading classifier")
	}
	codecBytes, err := s.d.Read(CodecKey)
	if err != nil {
		return nil, errors.Wrap(err, "reading label codec")
	}
	if checksum(classifierBytes) != m.ClassifierSum {
		return nil, errors.Wrap(ErrCorruptBundle, "classifier checksum mismatch")
	}
	if checksum(codecBytes) != m.CodecSum {
		return nil, errors.Wrap(ErrCorruptBundle, "label codec checksum mismatch")
	}

	var forest learning.Forest
	if err := decode(classifierBytes, &forest); err != nil {
		return nil, errors.Wrapf(ErrCorruptBundle, "classifier: %v", err)
	}
	codec := new(label.Codec)
	if err := codec.UnmarshalBinary(codecBytes); err != nil {
		return nil, errors.Wrapf(ErrCorruptBundle, "label codec: %v", err)
	}
	if err := validate(m, &forest, codec); err != nil {
		return nil, err
	}
	return &Bundle{
		Classifier: &forest,
		Codec:      codec,
		Manifest:   m,
		Source:     SourceDisk,
	}, nil
}

// validate checks a bundle against the schema compiled into this binary.
func validate(m Manifest, forest *learning.Forest, codec *label.Codec) error {
	if len(m.Schema) != len(feature.Names) {
		return errors.Wrapf(ErrIncompatibleBundle, "trained on schema %v", m.Schema)
	}
	for i, name := range feature.Names {
		if m.Schema[i] != name {
			return errors.Wrapf(ErrIncompatibleBundle, "trained on schema %v", m.Schema)
		}
	}
	if m.Fingerprint != feature.Fingerprint(codec.Classes()) {
		return errors.Wrap(ErrIncompatibleBundle, "fingerprint does not match schema and labels")
	}
	if forest.NFeatures != feature.Len {
		return errors.Wrapf(ErrIncompatibleBundle, "classifier expects %d features", forest.NFeatures)
	}
	for _, id := range forest.ClassIDs {
		if _, err := codec.Decode(id); err != nil {
			return errors.Wrap(ErrIncompatibleBundle, err.Error())
		}
	}
	return nil
}

func encode(v interface{}) ([]byte, error) {
	var buff bytes.Buffer
	if err := gob.NewEncoder(&buff).Encode(v); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func decode(b []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(b)).Decode(v)
}

func checksum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
