package condense

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestTensorMatrixRoundtrip(t *testing.T) {
	M := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	tensor := TensorFromMatrix(M)

	back, err := tensor.Matrix()
	if err != nil {
		t.Fatalf("Matrix: %v", err)
	}
	if !mat.Equal(M, back) {
		t.Errorf("roundtrip changed the matrix:\ngot %v\nwant %v",
			mat.Formatted(back), mat.Formatted(M))
	}

	// The tensor owns its values; mutating the copy must not leak back.
	back.Set(0, 0, 99)
	if tensor.Data[0] != 1 {
		t.Error("Matrix shares storage with the tensor")
	}
}

func TestTensorMatrixWrongRank(t *testing.T) {
	if _, err := NewTensor(2, 2, 2).Matrix(); err == nil {
		t.Fatal("Matrix accepted a rank-3 tensor")
	}
}

func TestStackTrajectorySnapshot(t *testing.T) {
	snapshots := []*mat.Dense{
		mat.NewDense(2, 2, []float64{0, 1, 10, 11}),
		mat.NewDense(2, 2, []float64{2, 3, 12, 13}),
		mat.NewDense(2, 2, []float64{4, 5, 14, 15}),
	}
	trajectory := stackTrajectory(snapshots)

	if got, want := trajectory.Shape, []int{2, 2, 3}; got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("trajectory shape = %v, want %v", got, want)
	}
	for step, want := range snapshots {
		X, err := trajectory.Snapshot(step)
		if err != nil {
			t.Fatalf("Snapshot(%d): %v", step, err)
		}
		if !mat.Equal(X, want) {
			t.Errorf("snapshot %d = %v, want %v", step, mat.Formatted(X), mat.Formatted(want))
		}
	}

	if _, err := trajectory.Snapshot(3); err == nil {
		t.Error("Snapshot accepted an out-of-range step")
	}
	if _, err := trajectory.Snapshot(-1); err == nil {
		t.Error("Snapshot accepted a negative step")
	}
}
