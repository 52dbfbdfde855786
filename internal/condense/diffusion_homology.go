package condense

import (
	"gonum.org/v1/gonum/mat"
)

// DiffusionHomologyKey is the Result key holding the merge pairs as an
// m x 2 tensor of (birth, death) iteration indices.
const DiffusionHomologyKey = "diffusion_homology_persistence_pairs"

// DiffusionHomology tracks connected-component merges as the cloud
// contracts. Filtration time is the iteration index: every component
// exists from the start, so each merge at iteration t emits the pair
// (0, t). Proximity is re-evaluated against the current distance matrix
// on every step, since points keep moving between iterations.
type DiffusionHomology struct {
	threshold float64
	uf        *UnionFind
	pairs     [][2]int
}

// NewDiffusionHomology creates the callback for a run over n points.
// The union-find is sized here, at registration time, rather than on
// first invocation. threshold is the merge distance.
func NewDiffusionHomology(n int, threshold float64) *DiffusionHomology {
	return &DiffusionHomology{
		threshold: threshold,
		uf:        NewUnionFind(n),
	}
}

// Step merges every pair of points closer than the threshold that is
// not yet in the same component. Pairs are enumerated in ascending
// (i, j) order; the resulting component partition is independent of
// that order, and within a deterministic run the recorded death indices
// are non-decreasing.
func (dh *DiffusionHomology) Step(t int, _, _, D *mat.Dense) {
	n, _ := D.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if D.At(i, j) < dh.threshold && dh.uf.Merge(i, j) {
				dh.pairs = append(dh.pairs, [2]int{0, t})
			}
		}
	}
}

// Finalize stores all recorded pairs under DiffusionHomologyKey.
func (dh *DiffusionHomology) Finalize(data Result) {
	t := NewTensor(len(dh.pairs), 2)
	for i, p := range dh.pairs {
		t.Data[2*i] = float64(p[0])
		t.Data[2*i+1] = float64(p[1])
	}
	data[DiffusionHomologyKey] = t
}

// Pairs returns the merge pairs recorded so far as (birth, death)
// iteration indices.
func (dh *DiffusionHomology) Pairs() [][2]int {
	return dh.pairs
}

// Components returns the current number of connected components.
func (dh *DiffusionHomology) Components() int {
	return dh.uf.Count()
}

var _ Callback = (*DiffusionHomology)(nil)
