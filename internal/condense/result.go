package condense

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense float64 array with an explicit shape. It is the
// currency of the Result map: trajectory snapshots, persistence pairs
// and per-step observer output are all stored as tensors so the archive
// layer can persist them uniformly.
type Tensor struct {
	Shape []int
	Data  []float64
}

// NewTensor allocates a zeroed tensor with the given shape.
func NewTensor(shape ...int) Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return Tensor{Shape: shape, Data: make([]float64, n)}
}

// TensorFromMatrix copies a matrix into a rank-2 tensor (row-major).
func TensorFromMatrix(m mat.Matrix) Tensor {
	r, c := m.Dims()
	t := NewTensor(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t.Data[i*c+j] = m.At(i, j)
		}
	}
	return t
}

// Matrix converts a rank-2 tensor back into a dense matrix.
func (t Tensor) Matrix() (*mat.Dense, error) {
	if len(t.Shape) != 2 {
		return nil, fmt.Errorf("tensor has rank %d, want 2", len(t.Shape))
	}
	r, c := t.Shape[0], t.Shape[1]
	if r*c != len(t.Data) {
		return nil, fmt.Errorf("tensor shape %v does not match %d values", t.Shape, len(t.Data))
	}
	return mat.NewDense(r, c, append([]float64(nil), t.Data...)), nil
}

// Result is the shared output map assembled when a run finalizes. The
// engine reserves TrajectoryKey and the OperatorKey family; callbacks
// own every key they write and may overwrite earlier contributions.
type Result map[string]Tensor

// Reserved engine keys.
const (
	// TrajectoryKey holds the stacked trajectory tensor of shape
	// n x d x (T+1), one point-cloud snapshot per iteration including
	// the initial state.
	TrajectoryKey = "data"

	// OperatorKeyFormat holds the diffusion operator of iteration t
	// under fmt.Sprintf(OperatorKeyFormat, t).
	OperatorKeyFormat = "P_t_%d"
)

// Snapshot extracts the point cloud at iteration t from a stacked
// trajectory tensor (shape n x d x (T+1), index order i, j, t).
func (t Tensor) Snapshot(step int) (*mat.Dense, error) {
	if len(t.Shape) != 3 {
		return nil, fmt.Errorf("trajectory tensor has rank %d, want 3", len(t.Shape))
	}
	n, d, steps := t.Shape[0], t.Shape[1], t.Shape[2]
	if step < 0 || step >= steps {
		return nil, fmt.Errorf("snapshot %d out of range [0,%d)", step, steps)
	}
	X := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			X.Set(i, j, t.Data[i*d*steps+j*steps+step])
		}
	}
	return X, nil
}

// stackTrajectory packs the per-iteration snapshots into one tensor of
// shape n x d x (T+1).
func stackTrajectory(snapshots []*mat.Dense) Tensor {
	if len(snapshots) == 0 {
		return NewTensor(0, 0, 0)
	}
	n, d := snapshots[0].Dims()
	steps := len(snapshots)
	t := NewTensor(n, d, steps)
	for s, X := range snapshots {
		for i := 0; i < n; i++ {
			for j := 0; j < d; j++ {
				t.Data[i*d*steps+j*steps+s] = X.At(i, j)
			}
		}
	}
	return t
}
