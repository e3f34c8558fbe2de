// Package learning contains the classifier cropsuit is trained with and the trainer that fits it.
package learning

// Classifier is an abstract representation of a fitted multi-class probabilistic model.
type Classifier interface {
	// PredictProba must return one probability per class for a single sample.
	PredictProba(x []float64) ([]float64, error)
	// Classes must return the class IDs in the order PredictProba indexes them. This need not be ascending, nor
	// contain every ID known to the label codec.
	Classes() []int
}

var _ Classifier = (*Forest)(nil)
