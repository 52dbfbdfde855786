package homology

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func distanceMatrix(points [][]float64) *mat.Dense {
	n := len(points)
	D := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var sum float64
			for k := range points[i] {
				d := points[i][k] - points[j][k]
				sum += d * d
			}
			d := math.Sqrt(sum)
			D.Set(i, j, d)
			D.Set(j, i, d)
		}
	}
	return D
}

func TestRipsDimension0Line(t *testing.T) {
	// Three collinear points at 0, 1 and 3. The components merge at
	// scales 1 and 2; one component survives forever.
	D := distanceMatrix([][]float64{{0}, {1}, {3}})

	pairs, err := NewRips().Diagram(D, 0)
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3: %v", len(pairs), pairs)
	}

	deaths := []float64{1, 2, math.Inf(1)}
	for i, p := range pairs {
		if p.Dimension != 0 {
			t.Errorf("pair %d dimension = %d, want 0", i, p.Dimension)
		}
		if p.Birth != 0 {
			t.Errorf("pair %d birth = %v, want 0", i, p.Birth)
		}
		if p.Death != deaths[i] {
			t.Errorf("pair %d death = %v, want %v", i, p.Death, deaths[i])
		}
	}
}

func TestRipsDimension1Square(t *testing.T) {
	// Unit square: the four sides close a loop at scale 1 and the
	// diagonals (sqrt 2) fill it in. Exactly one dim-1 pair.
	D := distanceMatrix([][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}})

	pairs, err := NewRips().Diagram(D, 1)
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}

	var loops []Pair
	for _, p := range pairs {
		if p.Dimension == 1 {
			loops = append(loops, p)
		}
	}
	if len(loops) != 1 {
		t.Fatalf("got %d dim-1 pairs, want 1: %v", len(loops), pairs)
	}
	if got, want := loops[0].Birth, 1.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("loop birth = %v, want %v", got, want)
	}
	if got, want := loops[0].Death, math.Sqrt2; math.Abs(got-want) > 1e-12 {
		t.Errorf("loop death = %v, want %v", got, want)
	}
}

func TestRipsDimension1Triangle(t *testing.T) {
	// A triangle's loop is born and filled at the same scale, so it
	// never appears in the diagram.
	D := distanceMatrix([][]float64{{0, 0}, {1, 0}, {0.5, math.Sqrt(3) / 2}})

	pairs, err := NewRips().Diagram(D, 1)
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}
	for _, p := range pairs {
		if p.Dimension == 1 {
			t.Errorf("unexpected dim-1 pair %v", p)
		}
	}
}

func TestRipsRejectsHigherDimensions(t *testing.T) {
	D := distanceMatrix([][]float64{{0}, {1}})
	if _, err := NewRips().Diagram(D, 2); err == nil {
		t.Fatal("Diagram with maxDim 2 succeeded, want error")
	}
}

func TestRipsRejectsNonSquare(t *testing.T) {
	D := mat.NewDense(2, 3, nil)
	if _, err := NewRips().Diagram(D, 1); err == nil {
		t.Fatal("Diagram with 2x3 matrix succeeded, want error")
	}
}

func TestRipsDeterministic(t *testing.T) {
	D := distanceMatrix([][]float64{
		{0, 0}, {2, 0}, {2, 2}, {0, 2}, {1, 1}, {3, 1},
	})

	first, err := NewRips().Diagram(D, 1)
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := NewRips().Diagram(D, 1)
		if err != nil {
			t.Fatalf("Diagram: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d pairs, want %d", run, len(again), len(first))
		}
		for i := range first {
			if first[i] != again[i] {
				t.Errorf("run %d pair %d = %v, want %v", run, i, again[i], first[i])
			}
		}
	}
}
