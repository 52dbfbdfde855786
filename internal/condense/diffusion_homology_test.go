package condense

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDiffusionHomology_BirthAlwaysZero(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 0.1, 5, 5.1})
	dh := NewDiffusionHomology(4, 0.5)

	dh.Step(0, X, nil, DistanceMatrix(X))
	dh.Step(3, X, nil, DistanceMatrix(X))

	pairs := dh.Pairs()
	if len(pairs) != 2 {
		t.Fatalf("recorded %d pairs, want 2", len(pairs))
	}
	for _, p := range pairs {
		if p[0] != 0 {
			t.Errorf("pair birth = %d, want 0", p[0])
		}
		if p[1] != 0 {
			t.Errorf("pair death = %d, want iteration 0 (already merged by step 3)", p[1])
		}
	}
}

func TestDiffusionHomology_DeathsNonDecreasing(t *testing.T) {
	// Two tight clusters merge internally at t=0; the clusters meet
	// only once the clouds are replaced by closer ones at t=2.
	near := mat.NewDense(4, 1, []float64{0, 0.01, 1, 1.01})
	contracted := mat.NewDense(4, 1, []float64{0, 0.01, 0.02, 0.03})

	dh := NewDiffusionHomology(4, 0.1)
	dh.Step(0, near, nil, DistanceMatrix(near))
	dh.Step(1, near, nil, DistanceMatrix(near))
	dh.Step(2, contracted, nil, DistanceMatrix(contracted))

	pairs := dh.Pairs()
	if len(pairs) != 3 {
		t.Fatalf("recorded %d pairs, want 3", len(pairs))
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i][1] < pairs[i-1][1] {
			t.Errorf("death sequence not non-decreasing: %v", pairs)
		}
	}
	if pairs[2][1] != 2 {
		t.Errorf("final merge death = %d, want 2", pairs[2][1])
	}
	if dh.Components() != 1 {
		t.Errorf("components = %d, want 1", dh.Components())
	}
}

func TestDiffusionHomology_ProximityReevaluatedPerStep(t *testing.T) {
	apart := mat.NewDense(2, 1, []float64{0, 10})
	together := mat.NewDense(2, 1, []float64{0, 0.001})

	dh := NewDiffusionHomology(2, 0.01)
	dh.Step(0, apart, nil, DistanceMatrix(apart))
	if len(dh.Pairs()) != 0 {
		t.Fatal("no merge expected while points are far apart")
	}

	dh.Step(5, together, nil, DistanceMatrix(together))
	pairs := dh.Pairs()
	if len(pairs) != 1 || pairs[0] != [2]int{0, 5} {
		t.Errorf("pairs = %v, want [[0 5]]", pairs)
	}
}

func TestDiffusionHomology_Finalize(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 0.01, 0.02})
	dh := NewDiffusionHomology(3, 0.1)
	dh.Step(0, X, nil, DistanceMatrix(X))

	data := Result{}
	dh.Finalize(data)

	tensor, ok := data[DiffusionHomologyKey]
	if !ok {
		t.Fatalf("missing key %q", DiffusionHomologyKey)
	}
	if tensor.Shape[0] != 2 || tensor.Shape[1] != 2 {
		t.Fatalf("pair tensor shape = %v, want [2 2]", tensor.Shape)
	}
	for i := 0; i < tensor.Shape[0]; i++ {
		if tensor.Data[2*i] != 0 {
			t.Errorf("pair %d birth = %v, want 0", i, tensor.Data[2*i])
		}
	}
}
