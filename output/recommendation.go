// Package output formats crop recommendations for people and for other programs.
package output

import (
	"github.com/hscells/cropsuit"
	"github.com/hscells/cropsuit/feature"
)

//go:generate easyjson -all recommendation.go

// Conditions are the growing conditions a recommendation was made for.
type Conditions struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// Crop is a recommended crop.
type Crop struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// Recommendation is the serialisable form of a cropsuit.Recommendation.
type Recommendation struct {
	Location   string     `json:"location,omitempty"`
	Model      string     `json:"model"`
	Fault      bool       `json:"fault,omitempty"`
	Conditions Conditions `json:"conditions"`
	Crops      []Crop     `json:"crops"`
}

// Recommendations is a list of recommendations, one per request.
//easyjson:json
type Recommendations []Recommendation

// FromRecommendation converts an engine recommendation for record r. The location is optional.
func FromRecommendation(rec cropsuit.Recommendation, r feature.Record, location string) Recommendation {
	crops := make([]Crop, len(rec.Crops))
	for i, c := range rec.Crops {
		crops[i] = Crop{Name: c.Crop, Probability: c.Probability}
	}
	return Recommendation{
		Location: location,
		Model:    rec.Model,
		Fault:    rec.Fault,
		Conditions: Conditions{
			N:           r.N,
			P:           r.P,
			K:           r.K,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			PH:          r.PH,
			Rainfall:    r.Rainfall,
		},
		Crops: crops,
	}
}

// Record returns the conditions as a feature record.
func (c Conditions) Record() feature.Record {
	return feature.Record{
		N:           c.N,
		P:           c.P,
		K:           c.K,
		Temperature: c.Temperature,
		Humidity:    c.Humidity,
		PH:          c.PH,
		Rainfall:    c.Rainfall,
	}
}
