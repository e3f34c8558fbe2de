package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hscells/cropsuit/dataset"
	"github.com/hscells/cropsuit/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `N,P,K,temperature,humidity,ph,rainfall,label
90,42,43,20.87974371,82.00274423,6.502985292,202.9355362,rice
85,58,41,21.77046169,80.31964408,7.038096361,226.6555374,rice
71,54,16,22.61359953,63.69070564,5.749914421,87.75953857,maize
`

func TestRead(t *testing.T) {
	examples, err := dataset.Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, examples, 3)
	assert.Equal(t, "rice", examples[0].Label)
	assert.Equal(t, 90.0, examples[0].Features[feature.Nitrogen])
	assert.Equal(t, 87.75953857, examples[2].Features[feature.Rainfall])
	assert.Equal(t, []string{"rice", "rice", "maize"}, dataset.Labels(examples))

	r, err := feature.FromNamed(examples[2].Features)
	require.NoError(t, err)
	assert.Equal(t, 71.0, r.N)
}

func TestReadReorderedColumns(t *testing.T) {
	examples, err := dataset.Read(strings.NewReader("label,rainfall,ph,humidity,temperature,K,P,N\nrice,200,6.5,80,21,43,42,90\n"))
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, 90.0, examples[0].Features[feature.Nitrogen])
	assert.Equal(t, 200.0, examples[0].Features[feature.Rainfall])
}

func TestReadEmpty(t *testing.T) {
	examples, err := dataset.Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, examples)

	examples, err = dataset.Read(strings.NewReader("N,P,K,temperature,humidity,ph,rainfall,label\n"))
	require.NoError(t, err)
	assert.Empty(t, examples)
}

func TestReadHeaderMismatch(t *testing.T) {
	for _, header := range []string{
		"N,P,K,temperature,humidity,ph,label",
		"N,P,K,temperature,humidity,ph,rainfall",
		"N,P,K,temperature,humidity,ph,rainfall,elevation,label",
		"N,N,K,temperature,humidity,ph,rainfall,label",
	} {
		_, err := dataset.Read(strings.NewReader(header + "\n"))
		assert.ErrorIs(t, err, feature.ErrSchemaMismatch, header)
	}
}

func TestReadMalformed(t *testing.T) {
	_, err := dataset.Read(strings.NewReader("N,P,K,temperature,humidity,ph,rainfall,label\n90,x,43,20,82,6.5,202,rice\n"))
	assert.ErrorIs(t, err, dataset.ErrMalformedRow)

	_, err = dataset.Read(strings.NewReader("N,P,K,temperature,humidity,ph,rainfall,label\n90,42,43,20,82,6.5,202\n"))
	assert.ErrorIs(t, err, dataset.ErrMalformedRow)

	_, err = dataset.Read(strings.NewReader("N,P,K,temperature,humidity,ph,rainfall,label\n90,42,43,20,82,6.5,202, \n"))
	assert.ErrorIs(t, err, dataset.ErrMalformedRow)
}

func TestReadNonFinite(t *testing.T) {
	for _, row := range []string{
		"NaN,42,43,20,82,6.5,202,rice",
		"Inf,42,43,20,82,6.5,202,maize",
		"90,42,43,20,82,6.5,-Inf,maize",
	} {
		_, err := dataset.Read(strings.NewReader("N,P,K,temperature,humidity,ph,rainfall,label\n" + row + "\n"))
		assert.ErrorIs(t, err, dataset.ErrMalformedRow, row)
		assert.Contains(t, err.Error(), "line 2", row)
	}
}

func TestCSVMissingFile(t *testing.T) {
	_, err := dataset.NewCSV(filepath.Join(t.TempDir(), "missing.csv")).Load()
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestCSVLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))
	examples, err := dataset.NewCSV(path).Load()
	require.NoError(t, err)
	assert.Len(t, examples, 3)
}
