// Package dataset provides sources of labelled training examples.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/hscells/cropsuit/feature"
	"github.com/pkg/errors"
)

// LabelColumn is the name of the column holding the crop label.
const LabelColumn = "label"

var (
	// ErrDataUnavailable is returned when a dataset cannot be located or read.
	ErrDataUnavailable = errors.New("dataset unavailable")
	// ErrMalformedRow is returned when a row cannot be parsed.
	ErrMalformedRow = errors.New("malformed dataset row")
)

// Example is a single labelled row. Features are keyed by name so that schema validation happens at training time.
type Example struct {
	Features map[string]float64
	Label    string
}

// NewExample creates an example from a complete record.
func NewExample(r feature.Record, label string) Example {
	return Example{Features: r.Map(), Label: label}
}

// Provider represents a source of training examples and how to read them.
type Provider interface {
	// Load reads every example. A source that cannot be read at all must return an error matching ErrDataUnavailable.
	Load() ([]Example, error)
}

// CSV reads examples from a comma separated file with a header row naming the columns
// N,P,K,temperature,humidity,ph,rainfall,label in any order.
type CSV struct {
	Path string
}

// NewCSV creates a provider for the file at path.
func NewCSV(path string) CSV {
	return CSV{Path: path}
}

// Load opens and parses the file.
func (c CSV) Load() ([]Example, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, errors.Wrapf(ErrDataUnavailable, "%v", err)
	}
	defer f.Close()
	examples, err := Read(f)
	if err != nil {
		return nil, errors.Wrap(err, c.Path)
	}
	return examples, nil
}

// Read parses examples from r.
func Read(r io.Reader) ([]Example, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(ErrDataUnavailable, "reading header: %v", err)
	}
	labelCol, columns, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var examples []Example
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				return nil, errors.Wrapf(ErrMalformedRow, "%v", err)
			}
			return nil, errors.Wrapf(ErrDataUnavailable, "%v", err)
		}
		e := Example{
			Features: make(map[string]float64, feature.Len),
			Label:    strings.TrimSpace(row[labelCol]),
		}
		if len(e.Label) == 0 {
			return nil, errors.Wrapf(ErrMalformedRow, "line %d: empty label", line)
		}
		for i, name := range columns {
			if i == labelCol {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedRow, "line %d: column %s: %v", line, name, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Wrapf(ErrMalformedRow, "line %d: column %s: %v is not a finite number", line, name, v)
			}
			e.Features[name] = v
		}
		examples = append(examples, e)
	}
	return examples, nil
}

func parseHeader(header []string) (int, []string, error) {
	labelCol := -1
	seen := make(map[string]bool)
	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if seen[h] {
			return 0, nil, errors.Wrapf(feature.ErrSchemaMismatch, "duplicate column %q", h)
		}
		seen[h] = true
		columns[i] = h
		if h == LabelColumn {
			labelCol = i
			continue
		}
		if feature.Index(h) < 0 {
			return 0, nil, errors.Wrapf(feature.ErrSchemaMismatch, "unexpected column %q", h)
		}
	}
	if labelCol < 0 {
		return 0, nil, errors.Wrapf(feature.ErrSchemaMismatch, "missing %q column", LabelColumn)
	}
	for _, name := range feature.Names {
		if !seen[name] {
			return 0, nil, errors.Wrapf(feature.ErrSchemaMismatch, "missing column %q", name)
		}
	}
	return labelCol, columns, nil
}

// Static serves examples held in memory.
type Static []Example

// Load returns the examples.
func (s Static) Load() ([]Example, error) {
	return s, nil
}

// Labels extracts the label of every example.
func Labels(examples []Example) []string {
	labels := make([]string, len(examples))
	for i, e := range examples {
		labels[i] = e.Label
	}
	return labels
}
