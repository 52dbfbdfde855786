// Package homology computes persistent homology of finite metric
// spaces via a Vietoris-Rips filtration. The Engine interface separates
// the condensation observers from the concrete computation: a pure-Go
// engine covers dimensions 0 and 1, and an adapter shells out to an
// external ripser binary for higher dimensions or larger inputs.
package homology

import (
	"gonum.org/v1/gonum/mat"
)

// Pair is one point of a persistence diagram: a homology class of the
// given dimension born at filtration scale Birth and destroyed at scale
// Death. Essential classes carry Death = +Inf. Birth <= Death always
// holds.
type Pair struct {
	Birth     float64
	Death     float64
	Dimension int
}

// Engine computes Vietoris-Rips persistence diagrams.
type Engine interface {
	// Diagram computes the persistence diagram of the metric space
	// described by the n x n distance matrix D, for all homological
	// dimensions up to and including maxDim. Pairs are returned sorted
	// by (dimension, birth, death).
	Diagram(D mat.Matrix, maxDim int) ([]Pair, error)
}
