package dataset

import (
	"math/rand"

	"github.com/hscells/cropsuit/feature"
)

// Profile describes the typical growing conditions of a crop: a centre record and the spread around it.
type Profile struct {
	Label  string
	Centre feature.Record
	Spread feature.Record
}

// Profiles are well separated conditions for three common crops, modelled on the public crop recommendation dataset.
var Profiles = []Profile{
	{
		Label:  "rice",
		Centre: feature.Record{N: 80, P: 48, K: 40, Temperature: 23.7, Humidity: 82.3, PH: 6.4, Rainfall: 236.2},
		Spread: feature.Record{N: 10, P: 6, K: 3, Temperature: 1.5, Humidity: 1.5, PH: 0.4, Rainfall: 25},
	},
	{
		Label:  "maize",
		Centre: feature.Record{N: 77.8, P: 48.4, K: 19.8, Temperature: 22.4, Humidity: 65.1, PH: 6.2, Rainfall: 84.8},
		Spread: feature.Record{N: 10, P: 6, K: 3, Temperature: 1.5, Humidity: 3, PH: 0.4, Rainfall: 10},
	},
	{
		Label:  "chickpea",
		Centre: feature.Record{N: 40, P: 67.8, K: 79.9, Temperature: 18.9, Humidity: 16.9, PH: 7.3, Rainfall: 80.1},
		Spread: feature.Record{N: 8, P: 6, K: 3, Temperature: 1.5, Humidity: 1.5, PH: 0.4, Rainfall: 8},
	},
}

// Synthetic generates perClass examples for each profile, interleaved, drawn from normal distributions around each
// profile centre. Equal seeds generate equal datasets.
func Synthetic(profiles []Profile, perClass int, seed int64) Static {
	rng := rand.New(rand.NewSource(seed))
	examples := make(Static, 0, perClass*len(profiles))
	for i := 0; i < perClass; i++ {
		for _, p := range profiles {
			c, s := p.Centre.Values(), p.Spread.Values()
			v := make([]float64, feature.Len)
			for j := range v {
				v[j] = c[j] + rng.NormFloat64()*s[j]
				if v[j] < 0 {
					v[j] = 0
				}
			}
			r, _ := feature.FromValues(v)
			examples = append(examples, NewExample(r, p.Label))
		}
	}
	return examples
}
