package condense

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/topodyn/condense/internal/homology"
	"github.com/topodyn/condense/internal/monitoring"
)

// Result key formats used by PersistentHomology, one entry per
// iteration that produced a diagram.
const (
	// PersistencePairsKeyFormat holds the m x 2 tensor of
	// (birth, death) filtration scales for iteration t.
	PersistencePairsKeyFormat = "persistence_pairs_t_%d"

	// PersistencePointsKeyFormat holds the m x 3 tensor of
	// (birth, death, dimension) diagram points for iteration t.
	PersistencePointsKeyFormat = "persistence_points_t_%d"
)

// PersistentHomology computes a Vietoris-Rips persistence diagram from
// the distance matrix of every step, treating the condensation process
// as a dynamic metric space. Clouds larger than the cardinality cap are
// skipped, and a missing or failing homology engine degrades to a no-op
// for that step rather than aborting the run.
type PersistentHomology struct {
	engine         homology.Engine
	maxDimension   int
	maxCardinality int

	steps  []int
	pairs  map[int][]homology.Pair
	warned bool
}

// NewPersistentHomology creates the callback. maxDimension bounds the
// homological dimension of the filtration; maxCardinality bounds the
// cloud size for which diagrams are computed at all.
func NewPersistentHomology(engine homology.Engine, maxDimension, maxCardinality int) *PersistentHomology {
	return &PersistentHomology{
		engine:         engine,
		maxDimension:   maxDimension,
		maxCardinality: maxCardinality,
		pairs:          make(map[int][]homology.Pair),
	}
}

// Step computes the diagram for iteration t, if the cloud is small
// enough and the engine cooperates.
func (ph *PersistentHomology) Step(t int, X, _, D *mat.Dense) {
	n, _ := X.Dims()
	if n > ph.maxCardinality {
		return
	}

	pairs, err := ph.engine.Diagram(D, ph.maxDimension)
	if err != nil {
		if !ph.warned {
			monitoring.Logf("persistent homology unavailable, skipping: %v", err)
			ph.warned = true
		}
		return
	}
	if len(pairs) == 0 {
		return
	}

	ph.steps = append(ph.steps, t)
	ph.pairs[t] = pairs
}

// Finalize flattens the per-step diagrams into individually keyed
// tensors: pairs and points, one entry per iteration that produced
// data.
func (ph *PersistentHomology) Finalize(data Result) {
	for _, t := range ph.steps {
		pairs := ph.pairs[t]

		pt := NewTensor(len(pairs), 2)
		points := NewTensor(len(pairs), 3)
		for i, p := range pairs {
			pt.Data[2*i] = p.Birth
			pt.Data[2*i+1] = p.Death
			points.Data[3*i] = p.Birth
			points.Data[3*i+1] = p.Death
			points.Data[3*i+2] = float64(p.Dimension)
		}
		data[fmt.Sprintf(PersistencePairsKeyFormat, t)] = pt
		data[fmt.Sprintf(PersistencePointsKeyFormat, t)] = points
	}
}

var _ Callback = (*PersistentHomology)(nil)
