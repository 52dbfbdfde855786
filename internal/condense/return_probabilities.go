package condense

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ReturnProbabilitiesKeyFormat holds, for iteration t, the n x K tensor
// of per-point random-walk return probabilities for walk lengths
// 0..K-1.
const ReturnProbabilitiesKeyFormat = "return_probabilities_t_%d"

// ReturnProbabilities estimates, from the spectrum of the diffusion
// operator, the probability that a random walk of length k started at
// point i returns to i. The operator is symmetrized before the
// eigendecomposition.
type ReturnProbabilities struct {
	walkLength int
	steps      []int
	probs      map[int]Tensor
}

// NewReturnProbabilities creates the callback. walkLength is the number
// of walk lengths K to evaluate.
func NewReturnProbabilities(walkLength int) *ReturnProbabilities {
	return &ReturnProbabilities{
		walkLength: walkLength,
		probs:      make(map[int]Tensor),
	}
}

// Step records return probabilities for iteration t.
func (rp *ReturnProbabilities) Step(t int, _, P, _ *mat.Dense) {
	n, _ := P.Dims()

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(P.At(i, j)+P.At(j, i)))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// U_ij = V_ij^2, so the return probability for walk length k is
	// sum_j U_ij * lambda_j^k.
	R := NewTensor(n, rp.walkLength)
	for i := 0; i < n; i++ {
		for k := 0; k < rp.walkLength; k++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				v := vectors.At(i, j)
				sum += v * v * math.Pow(values[j], float64(k))
			}
			R.Data[i*rp.walkLength+k] = sum
		}
	}

	rp.steps = append(rp.steps, t)
	rp.probs[t] = R
}

// Finalize stores one tensor per recorded iteration.
func (rp *ReturnProbabilities) Finalize(data Result) {
	for _, t := range rp.steps {
		data[fmt.Sprintf(ReturnProbabilitiesKeyFormat, t)] = rp.probs[t]
	}
}

var _ Callback = (*ReturnProbabilities)(nil)
