package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hscells/cropsuit/feature"
	"github.com/mailru/easyjson"
	"github.com/pkg/errors"
)

// Formatter renders recommendations.
type Formatter func(recs Recommendations) (string, error)

// Formatters are the available formatters by name.
var Formatters = map[string]Formatter{
	"json": JSONFormatter,
	"text": TextFormatter,
	"csv":  CSVFormatter,
}

// Lookup returns the formatter called name.
func Lookup(name string) (Formatter, error) {
	f, ok := Formatters[name]
	if !ok {
		names := make([]string, 0, len(Formatters))
		for n := range Formatters {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, errors.Errorf("unknown output format %q, expected one of %s", name, strings.Join(names, ", "))
	}
	return f, nil
}

// JSONFormatter outputs recommendations as a JSON array.
func JSONFormatter(recs Recommendations) (string, error) {
	if recs == nil {
		recs = Recommendations{}
	}
	v, err := easyjson.Marshal(recs)
	if err != nil {
		return "", err
	}
	return string(v) + "\n", nil
}

// TextFormatter outputs recommendations for a person to read.
func TextFormatter(recs Recommendations) (string, error) {
	var b strings.Builder
	for i, rec := range recs {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(rec.Location) > 0 {
			fmt.Fprintf(&b, "Location:   %s\n", rec.Location)
		}
		values := rec.Conditions.Record().Values()
		conditions := make([]string, len(values))
		for j, name := range feature.Names {
			conditions[j] = fmt.Sprintf("%s=%s", name, strconv.FormatFloat(values[j], 'f', -1, 64))
		}
		fmt.Fprintf(&b, "Conditions: %s\n", strings.Join(conditions, " "))
		switch {
		case rec.Fault:
			b.WriteString("The model could not make a recommendation.\n")
		case len(rec.Crops) == 0:
			b.WriteString("No crop is suited to these conditions.\n")
		default:
			for j, c := range rec.Crops {
				fmt.Fprintf(&b, "%3d. %-16s %5.1f%%\n", j+1, c.Name, c.Probability*100)
			}
		}
	}
	return b.String(), nil
}

// CSVFormatter outputs one row per recommended crop.
func CSVFormatter(recs Recommendations) (string, error) {
	b := bytes.NewBufferString("")
	w := csv.NewWriter(b)
	if err := w.Write([]string{"location", "model", "rank", "crop", "probability"}); err != nil {
		return "", err
	}
	for _, rec := range recs {
		for i, c := range rec.Crops {
			err := w.Write([]string{
				rec.Location,
				rec.Model,
				strconv.Itoa(i + 1),
				c.Name,
				strconv.FormatFloat(c.Probability, 'f', -1, 64),
			})
			if err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	return b.String(), w.Error()
}
