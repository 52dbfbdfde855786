package condense

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DistanceMatrix computes the n x n matrix of pairwise Euclidean
// distances between the rows of X. The result is symmetric, nonnegative
// and has a zero diagonal.
func DistanceMatrix(X *mat.Dense) *mat.Dense {
	n, _ := X.Dims()
	D := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		ri := X.RawRowView(i)
		for j := i + 1; j < n; j++ {
			d := floats.Distance(ri, X.RawRowView(j), 2)
			D.Set(i, j, d)
			D.Set(j, i, d)
		}
	}
	return D
}

// Diameter returns the largest pairwise distance in D.
func Diameter(D *mat.Dense) float64 {
	n, _ := D.Dims()
	max := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := D.At(i, j); d > max {
				max = d
			}
		}
	}
	return max
}

// HausdorffDistance computes the Hausdorff distance between two finite
// point clouds with the same dimensionality.
func HausdorffDistance(X, Y *mat.Dense) float64 {
	nx, _ := X.Dims()
	ny, _ := Y.Dims()
	dXY := 0.0
	for i := 0; i < nx; i++ {
		best := math.Inf(1)
		for j := 0; j < ny; j++ {
			if d := floats.Distance(X.RawRowView(i), Y.RawRowView(j), 2); d < best {
				best = d
			}
		}
		if best > dXY {
			dXY = best
		}
	}
	dYX := 0.0
	for j := 0; j < ny; j++ {
		best := math.Inf(1)
		for i := 0; i < nx; i++ {
			if d := floats.Distance(X.RawRowView(i), Y.RawRowView(j), 2); d < best {
				best = d
			}
		}
		if best > dYX {
			dYX = best
		}
	}
	return math.Max(dXY, dYX)
}
