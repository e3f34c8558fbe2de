package learning

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// Criterion measures the impurity of a node when choosing splits.
type Criterion int

const (
	// Gini impurity.
	Gini Criterion = iota
	// Entropy is the information gain criterion.
	Entropy
)

func (c Criterion) String() string {
	switch c {
	case Gini:
		return "gini"
	case Entropy:
		return "entropy"
	}
	return "unknown"
}

// ParseCriterion parses the name of a criterion.
func ParseCriterion(s string) (Criterion, error) {
	switch s {
	case "gini", "":
		return Gini, nil
	case "entropy":
		return Entropy, nil
	}
	return Gini, errors.Errorf("unknown split criterion %q", s)
}

func (c Criterion) impurity(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	switch c {
	case Entropy:
		e := 0.0
		for _, count := range counts {
			if count == 0 {
				continue
			}
			p := count / n
			e -= p * math.Log2(p)
		}
		return e
	default:
		g := 1.0
		for _, count := range counts {
			p := count / n
			g -= p * p
		}
		return g
	}
}

// Node is a single node of a tree. Leaves have a negative Feature and carry the class distribution of the training
// samples that reached them.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Dist      []float64
}

// Tree is a binary decision tree stored as a flat node slice rooted at index 0.
type Tree struct {
	Nodes []Node
}

// distribution walks x down to a leaf. Samples with a value less than or equal to a node's threshold go left.
func (t Tree) distribution(x []float64) []float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Dist
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Depth is the length of the longest root to leaf path.
func (t Tree) Depth() int {
	var depth func(i int) int
	depth = func(i int) int {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return 0
		}
		l, r := depth(n.Left), depth(n.Right)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return depth(0)
}

// TreeParams controls how a single tree is grown.
type TreeParams struct {
	// MaxFeatures is the number of randomly chosen features considered at each split.
	MaxFeatures int
	// MaxDepth stops growth at this depth; zero means unlimited.
	MaxDepth int
	// MinSamplesSplit is the minimum number of samples a node needs to be split.
	MinSamplesSplit int
	Criterion       Criterion
}

type treeBuilder struct {
	x      [][]float64
	y      []int // position of each sample's class in the forest class list
	k      int
	params TreeParams
	rng    *rand.Rand
	nodes  []Node
}

type split struct {
	feature   int
	threshold float64
	score     float64
	left      []int
	right     []int
}

// growTree fits a tree on the samples in idx. Duplicated indices act as sample weights.
func growTree(x [][]float64, y []int, k int, idx []int, params TreeParams, rng *rand.Rand) Tree {
	b := &treeBuilder{x: x, y: y, k: k, params: params, rng: rng}
	b.build(idx, 0)
	return Tree{Nodes: b.nodes}
}

func (b *treeBuilder) counts(idx []int) []float64 {
	c := make([]float64, b.k)
	for _, i := range idx {
		c[b.y[i]]++
	}
	return c
}

func (b *treeBuilder) leaf(counts []float64, n float64) int {
	dist := make([]float64, len(counts))
	for i, c := range counts {
		dist[i] = c / n
	}
	b.nodes = append(b.nodes, Node{Feature: -1, Left: -1, Right: -1, Dist: dist})
	return len(b.nodes) - 1
}

func (b *treeBuilder) build(idx []int, depth int) int {
	counts := b.counts(idx)
	n := float64(len(idx))
	impurity := b.params.Criterion.impurity(counts, n)

	if impurity == 0 ||
		len(idx) < b.params.MinSamplesSplit ||
		(b.params.MaxDepth > 0 && depth >= b.params.MaxDepth) {
		return b.leaf(counts, n)
	}

	s, ok := b.bestSplit(idx)
	if !ok {
		return b.leaf(counts, n)
	}

	// Reserve this node before growing children so the root stays at index 0.
	b.nodes = append(b.nodes, Node{Feature: s.feature, Threshold: s.threshold})
	self := len(b.nodes) - 1
	left := b.build(s.left, depth+1)
	right := b.build(s.right, depth+1)
	b.nodes[self].Left = left
	b.nodes[self].Right = right
	return self
}

// bestSplit draws features in random order and evaluates at least MaxFeatures of them, continuing past that only
// while no valid split has been found.
func (b *treeBuilder) bestSplit(idx []int) (split, bool) {
	nFeatures := len(b.x[idx[0]])
	best := split{score: math.Inf(1)}
	found := false
	for tried, f := range b.rng.Perm(nFeatures) {
		if tried >= b.params.MaxFeatures && found {
			break
		}
		if s, ok := b.splitOn(idx, f); ok && s.score < best.score {
			best = s
			found = true
		}
	}
	if !found {
		return split{}, false
	}
	best.left, best.right = best.left[:0:0], best.right[:0:0]
	for _, i := range idx {
		if b.x[i][best.feature] <= best.threshold {
			best.left = append(best.left, i)
		} else {
			best.right = append(best.right, i)
		}
	}
	return best, true
}

// splitOn finds the threshold on feature f minimising the weighted impurity of the two children.
func (b *treeBuilder) splitOn(idx []int, f int) (split, bool) {
	sorted := make([]int, len(idx))
	copy(sorted, idx)
	sort.SliceStable(sorted, func(i, j int) bool {
		return b.x[sorted[i]][f] < b.x[sorted[j]][f]
	})

	n := float64(len(sorted))
	left := make([]float64, b.k)
	right := b.counts(sorted)
	best := split{feature: f, score: math.Inf(1)}
	found := false
	for i := 0; i < len(sorted)-1; i++ {
		c := b.y[sorted[i]]
		left[c]++
		right[c]--
		lo, hi := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
		if lo == hi {
			continue
		}
		nl := float64(i + 1)
		nr := n - nl
		score := (nl*b.params.Criterion.impurity(left, nl) + nr*b.params.Criterion.impurity(right, nr)) / n
		if score < best.score {
			best.score = score
			best.threshold = lo + (hi-lo)/2
			if best.threshold >= hi {
				best.threshold = lo
			}
			found = true
		}
	}
	return best, found
}
