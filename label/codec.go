// Package label maps crop names to dense integer class IDs and back.
package label

import (
	"bytes"
	"encoding/gob"
	"sort"

	"github.com/pkg/errors"
	"github.com/xtgo/set"
)

var (
	// ErrUnknownLabel is returned when encoding a label that was not seen during Fit.
	ErrUnknownLabel = errors.New("unknown label")
	// ErrUnknownID is returned when decoding an ID outside the fitted range.
	ErrUnknownID = errors.New("unknown label id")
	// ErrNoLabels is returned when fitting a codec over no labels.
	ErrNoLabels = errors.New("no labels to fit")
)

// Codec is an immutable bidirectional mapping between labels and IDs. The ID of a label is its index in the sorted
// set of distinct labels it was fitted on.
type Codec struct {
	classes []string
	ids     map[string]int
}

// Fit builds a codec from every label observed in a dataset. Duplicates are expected.
func Fit(labels []string) (*Codec, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	classes := make([]string, len(labels))
	copy(classes, labels)
	sort.Strings(classes)
	n := set.Uniq(sort.StringSlice(classes))
	return newCodec(classes[:n:n]), nil
}

func newCodec(classes []string) *Codec {
	ids := make(map[string]int, len(classes))
	for i, c := range classes {
		ids[c] = i
	}
	return &Codec{classes: classes, ids: ids}
}

// Encode returns the ID of label.
func (c *Codec) Encode(label string) (int, error) {
	id, ok := c.ids[label]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownLabel, "%q", label)
	}
	return id, nil
}

// EncodeAll encodes a sequence of labels, stopping at the first unknown one.
func (c *Codec) EncodeAll(labels []string) ([]int, error) {
	ids := make([]int, len(labels))
	for i, l := range labels {
		id, err := c.Encode(l)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// Decode returns the label for id.
func (c *Codec) Decode(id int) (string, error) {
	if id < 0 || id >= len(c.classes) {
		return "", errors.Wrapf(ErrUnknownID, "%d not in [0, %d)", id, len(c.classes))
	}
	return c.classes[id], nil
}

// Classes returns every known label; the index of a label is its ID.
func (c *Codec) Classes() []string {
	classes := make([]string, len(c.classes))
	copy(classes, c.classes)
	return classes
}

// Len is the number of known labels.
func (c *Codec) Len() int {
	return len(c.classes)
}

// MarshalBinary encodes the codec for persistence.
func (c *Codec) MarshalBinary() ([]byte, error) {
	var buff bytes.Buffer
	if err := gob.NewEncoder(&buff).Encode(c.classes); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// UnmarshalBinary restores a codec written by MarshalBinary. The stored class list must still be sorted and
// distinct, otherwise IDs would silently shift.
func (c *Codec) UnmarshalBinary(b []byte) error {
	var classes []string
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&classes); err != nil {
		return errors.Wrap(err, "decoding label codec")
	}
	if len(classes) == 0 {
		return ErrNoLabels
	}
	for i := 1; i < len(classes); i++ {
		if classes[i-1] >= classes[i] {
			return errors.Errorf("label codec classes out of order at %d (%q >= %q)", i, classes[i-1], classes[i])
		}
	}
	*c = *newCodec(classes)
	return nil
}
