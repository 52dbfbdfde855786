package condense

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDistanceMatrix_Properties(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, 0,
		3, 4,
		-1, 1,
	})
	D := DistanceMatrix(X)

	n, m := D.Dims()
	if n != 3 || m != 3 {
		t.Fatalf("distance matrix is %dx%d, want 3x3", n, m)
	}
	for i := 0; i < n; i++ {
		if D.At(i, i) != 0 {
			t.Errorf("D[%d,%d] = %v, want 0", i, i, D.At(i, i))
		}
		for j := 0; j < n; j++ {
			if D.At(i, j) != D.At(j, i) {
				t.Errorf("D[%d,%d] != D[%d,%d]", i, j, j, i)
			}
			if D.At(i, j) < 0 {
				t.Errorf("D[%d,%d] = %v is negative", i, j, D.At(i, j))
			}
		}
	}
	if got := D.At(0, 1); got != 5 {
		t.Errorf("D[0,1] = %v, want 5", got)
	}
}

func TestDiameter(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 2, 7})
	if got := Diameter(DistanceMatrix(X)); got != 7 {
		t.Errorf("diameter = %v, want 7", got)
	}

	single := mat.NewDense(1, 1, []float64{42})
	if got := Diameter(DistanceMatrix(single)); got != 0 {
		t.Errorf("single-point diameter = %v, want 0", got)
	}
}

func TestHausdorffDistance(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{0, 1})
	Y := mat.NewDense(2, 1, []float64{0, 4})

	// Directed distances: X->Y is 1 (point 1 to 0), Y->X is 3
	// (point 4 to 1); the Hausdorff distance is the larger one.
	if got := HausdorffDistance(X, Y); got != 3 {
		t.Errorf("Hausdorff = %v, want 3", got)
	}

	// Identical clouds are at distance zero.
	if got := HausdorffDistance(X, X); got != 0 {
		t.Errorf("Hausdorff to self = %v, want 0", got)
	}

	// Symmetric.
	if a, b := HausdorffDistance(X, Y), HausdorffDistance(Y, X); math.Abs(a-b) > 1e-15 {
		t.Errorf("Hausdorff not symmetric: %v vs %v", a, b)
	}
}
