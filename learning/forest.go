package learning

import (
	"io"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ForestParams is the configuration of a random forest.
type ForestParams struct {
	// Trees is the size of the ensemble.
	Trees int
	// MaxFeatures is the number of features considered per split; zero means floor(sqrt(features)).
	MaxFeatures     int
	MaxDepth        int
	MinSamplesSplit int
	Criterion       Criterion
	// Seed fixes every random choice made while fitting.
	Seed int64
	// Workers is the number of trees grown concurrently; zero means GOMAXPROCS. It does not affect the result.
	Workers int
}

// DefaultForestParams is the reference configuration.
var DefaultForestParams = ForestParams{
	Trees:           100,
	MinSamplesSplit: 2,
	Criterion:       Gini,
	Seed:            42,
}

// Forest is a bagged ensemble of decision trees whose averaged leaf distributions give class probabilities.
type Forest struct {
	Trees []Tree
	// ClassIDs lists the class IDs in the order used to index probability vectors: the order in which each ID was
	// first seen in the training targets.
	ClassIDs  []int
	NFeatures int
	Params    ForestParams
}

// FitForest grows a forest over x with targets y. Results depend only on the data and params.Seed.
func FitForest(x [][]float64, y []int, params ForestParams, progress io.Writer) (*Forest, error) {
	if len(x) == 0 {
		return nil, errors.New("cannot fit a forest without samples")
	}
	if len(x) != len(y) {
		return nil, errors.Errorf("%d samples but %d targets", len(x), len(y))
	}
	if params.Trees <= 0 {
		return nil, errors.Errorf("forest needs at least one tree, got %d", params.Trees)
	}
	nFeatures := len(x[0])
	for i, row := range x {
		if len(row) != nFeatures {
			return nil, errors.Errorf("sample %d has %d features, expected %d", i, len(row), nFeatures)
		}
	}
	if params.MaxFeatures <= 0 || params.MaxFeatures > nFeatures {
		params.MaxFeatures = int(math.Max(1, math.Floor(math.Sqrt(float64(nFeatures)))))
	}
	if params.MinSamplesSplit < 2 {
		params.MinSamplesSplit = 2
	}

	// Map class IDs to their position in the probability vector.
	var classIDs []int
	position := make(map[int]int)
	pos := make([]int, len(y))
	for i, id := range y {
		p, ok := position[id]
		if !ok {
			p = len(classIDs)
			position[id] = p
			classIDs = append(classIDs, id)
		}
		pos[i] = p
	}

	// Seeds are drawn up front so that trees grown on different workers are identical to a sequential fit.
	master := rand.New(rand.NewSource(params.Seed))
	seeds := make([]int64, params.Trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	var bar *pb.ProgressBar
	if progress != nil {
		bar = pb.New(params.Trees).SetWriter(progress).Start()
	}

	workers := params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	tp := TreeParams{
		MaxFeatures:     params.MaxFeatures,
		MaxDepth:        params.MaxDepth,
		MinSamplesSplit: params.MinSamplesSplit,
		Criterion:       params.Criterion,
	}
	trees := make([]Tree, params.Trees)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				rng := rand.New(rand.NewSource(seeds[t]))
				trees[t] = growTree(x, pos, len(classIDs), bootstrap(len(x), rng), tp, rng)
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}
	for t := range trees {
		jobs <- t
	}
	close(jobs)
	wg.Wait()
	if bar != nil {
		bar.Finish()
	}

	return &Forest{
		Trees:     trees,
		ClassIDs:  classIDs,
		NFeatures: nFeatures,
		Params:    params,
	}, nil
}

func bootstrap(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

// PredictProba averages the leaf distributions of every tree for x.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.NFeatures {
		return nil, errors.Errorf("expected %d features, got %d", f.NFeatures, len(x))
	}
	if len(f.Trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	probs := make([]float64, len(f.ClassIDs))
	for _, t := range f.Trees {
		floats.Add(probs, t.distribution(x))
	}
	floats.Scale(1/float64(len(f.Trees)), probs)
	return probs, nil
}

// Predict returns the class ID with the highest probability.
func (f *Forest) Predict(x []float64) (int, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return f.ClassIDs[floats.MaxIdx(probs)], nil
}

// Classes returns a copy of the class ID order used by PredictProba.
func (f *Forest) Classes() []int {
	c := make([]int, len(f.ClassIDs))
	copy(c, f.ClassIDs)
	return c
}
