// Package feature defines the fixed feature schema every classifier in cropsuit is trained and queried with.
package feature

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRecord is returned when a caller supplied vector does not match the schema exactly.
	ErrInvalidRecord = errors.New("invalid feature record")
	// ErrSchemaMismatch is returned when a set of named features is missing or has extra fields.
	ErrSchemaMismatch = errors.New("feature schema mismatch")
)

// Feature names, in schema order.
const (
	Nitrogen    = "N"
	Phosphorus  = "P"
	Potassium   = "K"
	Temperature = "temperature"
	Humidity    = "humidity"
	PH          = "ph"
	Rainfall    = "rainfall"
)

// Names is the ordered schema. A model trained with one ordering is meaningless under any other.
var Names = []string{Nitrogen, Phosphorus, Potassium, Temperature, Humidity, PH, Rainfall}

// Len is the number of features in the schema.
const Len = 7

// Record is a complete feature record in schema order.
type Record struct {
	N           float64
	P           float64
	K           float64
	Temperature float64 // °C
	Humidity    float64 // %
	PH          float64
	Rainfall    float64 // mm
}

// Field is a single named feature value.
type Field struct {
	Name  string
	Value float64
}

// Vector is an ordered list of named values as received from a feature source.
type Vector []Field

// Values returns the record as a slice in schema order.
func (r Record) Values() []float64 {
	return []float64{r.N, r.P, r.K, r.Temperature, r.Humidity, r.PH, r.Rainfall}
}

// Vector returns the named form of the record.
func (r Record) Vector() Vector {
	values := r.Values()
	v := make(Vector, Len)
	for i, name := range Names {
		v[i] = Field{Name: name, Value: values[i]}
	}
	return v
}

// Map returns the record keyed by feature name.
func (r Record) Map() map[string]float64 {
	values := r.Values()
	m := make(map[string]float64, Len)
	for i, name := range Names {
		m[name] = values[i]
	}
	return m
}

// Record validates the vector strictly against the schema: exactly seven fields, in schema order, with finite values.
func (v Vector) Record() (Record, error) {
	if len(v) != Len {
		return Record{}, errors.Wrapf(ErrInvalidRecord, "expected %d fields, got %d", Len, len(v))
	}
	values := make([]float64, Len)
	for i, f := range v {
		if f.Name != Names[i] {
			return Record{}, errors.Wrapf(ErrInvalidRecord, "field %d is %q, expected %q", i, f.Name, Names[i])
		}
		if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
			return Record{}, errors.Wrapf(ErrInvalidRecord, "field %q is not a finite number", f.Name)
		}
		values[i] = f.Value
	}
	return fromValues(values), nil
}

// FromNamed builds a record from features keyed by name. Order does not matter here, but the set of names must equal
// the schema.
func FromNamed(m map[string]float64) (Record, error) {
	values := make([]float64, Len)
	for i, name := range Names {
		value, ok := m[name]
		if !ok {
			return Record{}, errors.Wrapf(ErrSchemaMismatch, "missing field %q", name)
		}
		values[i] = value
	}
	if len(m) != Len {
		for name := range m {
			if Index(name) < 0 {
				return Record{}, errors.Wrapf(ErrSchemaMismatch, "unexpected field %q", name)
			}
		}
	}
	return fromValues(values), nil
}

// FromValues builds a record from a slice already in schema order.
func FromValues(values []float64) (Record, error) {
	if len(values) != Len {
		return Record{}, errors.Wrapf(ErrInvalidRecord, "expected %d values, got %d", Len, len(values))
	}
	return fromValues(values), nil
}

func fromValues(v []float64) Record {
	return Record{N: v[0], P: v[1], K: v[2], Temperature: v[3], Humidity: v[4], PH: v[5], Rainfall: v[6]}
}

// Index returns the schema position of a feature name, or -1.
func Index(name string) int {
	for i, n := range Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Fingerprint identifies a schema together with the label set a model was trained against. Two bundles with equal
// fingerprints can be decoded by the same code.
func Fingerprint(classes []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(Names, ",")))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(classes, "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}
