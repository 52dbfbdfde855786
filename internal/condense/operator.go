package condense

import (
	"gonum.org/v1/gonum/mat"
)

// BuildOperator row-normalizes an affinity matrix into a Markov
// transition operator: P_i = K_i / sum(K_i).
//
// A zero-degree row (a point with zero affinity to everything,
// including itself) cannot be normalized. The policy here is to turn
// such a row into a self-loop of weight 1, which keeps the operator
// row-stochastic and leaves the isolated point stationary under
// diffusion. This only arises for thresholding kernels (box, alpha)
// with pathological scale parameters.
func BuildOperator(K *mat.Dense) *mat.Dense {
	n, m := K.Dims()
	P := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		row := K.RawRowView(i)
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			P.Set(i, i, 1)
			continue
		}
		dst := P.RawRowView(i)
		for j, v := range row {
			dst[j] = v / sum
		}
	}
	return P
}

// BlendOperator applies operator memory: the effective operator is
// alpha*raw + (1-alpha)*prev. With prev == nil (the first iteration) or
// alpha == 1 the raw operator is returned unmodified.
func BlendOperator(raw, prev *mat.Dense, alpha float64) *mat.Dense {
	if prev == nil || alpha == 1 {
		return raw
	}
	n, m := raw.Dims()
	P := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			P.Set(i, j, alpha*raw.At(i, j)+(1-alpha)*prev.At(i, j))
		}
	}
	return P
}
