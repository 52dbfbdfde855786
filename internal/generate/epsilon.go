package generate

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/topodyn/condense/internal/condense"
)

// EpsilonNeighbors is the neighbor rank used by EstimateEpsilon.
const EpsilonNeighbors = 8

// EstimateEpsilon picks a diffusion scale from the data when the caller
// leaves it unset: the median, over all points, of the squared distance
// to the k-th nearest neighbor. k is EpsilonNeighbors, clamped to n-1.
func EstimateEpsilon(X *mat.Dense) float64 {
	return estimateEpsilon(X, EpsilonNeighbors)
}

func estimateEpsilon(X *mat.Dense, k int) float64 {
	n, _ := X.Dims()
	if n < 2 {
		return 1
	}
	if k > n-1 {
		k = n - 1
	}

	D := condense.DistanceMatrix(X)
	kth := make([]float64, n)
	row := make([]float64, 0, n-1)
	for i := 0; i < n; i++ {
		row = row[:0]
		for j := 0; j < n; j++ {
			if j != i {
				row = append(row, D.At(i, j))
			}
		}
		sort.Float64s(row)
		d := row[k-1]
		kth[i] = d * d
	}
	sort.Float64s(kth)
	return stat.Quantile(0.5, stat.Empirical, kth, nil)
}
