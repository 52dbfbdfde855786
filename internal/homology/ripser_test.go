package homology

import (
	"math"
	"os"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const sampleRipserOutput = `distance matrix with 4 points
value range: [1,1.41421]
persistence intervals in dim 0:
 [0,1)
 [0,1)
 [0,1)
 [0, )
persistence intervals in dim 1:
 [1,1.41421)
`

func TestParseRipserOutput(t *testing.T) {
	pairs, err := parseRipserOutput(sampleRipserOutput)
	if err != nil {
		t.Fatalf("parseRipserOutput: %v", err)
	}
	if len(pairs) != 5 {
		t.Fatalf("got %d pairs, want 5: %v", len(pairs), pairs)
	}

	for i := 0; i < 3; i++ {
		want := Pair{Birth: 0, Death: 1, Dimension: 0}
		if pairs[i] != want {
			t.Errorf("pair %d = %v, want %v", i, pairs[i], want)
		}
	}
	if !math.IsInf(pairs[3].Death, 1) {
		t.Errorf("essential pair death = %v, want +Inf", pairs[3].Death)
	}
	loop := pairs[4]
	if loop.Dimension != 1 || loop.Birth != 1 || loop.Death != 1.41421 {
		t.Errorf("dim-1 pair = %v, want [1,1.41421) in dim 1", loop)
	}
}

func TestParseRipserOutputBadNumber(t *testing.T) {
	out := "persistence intervals in dim 0:\n [zero,1)\n"
	if _, err := parseRipserOutput(out); err == nil {
		t.Fatal("parseRipserOutput accepted a malformed birth")
	}
}

func TestWriteLowerDistanceMatrix(t *testing.T) {
	D := mat.NewDense(3, 3, []float64{
		0, 1, 2,
		1, 0, 0.5,
		2, 0.5, 0,
	})

	path, err := writeLowerDistanceMatrix(D)
	if err != nil {
		t.Fatalf("writeLowerDistanceMatrix: %v", err)
	}
	defer os.Remove(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read input file: %v", err)
	}
	got := strings.TrimRight(string(raw), "\n")
	want := "1\n2,0.5"
	if got != want {
		t.Errorf("lower distance matrix = %q, want %q", got, want)
	}
}

func TestRipserMissingBinary(t *testing.T) {
	D := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	r := NewRipser("definitely-not-a-real-ripser-binary")
	if _, err := r.Diagram(D, 1); err == nil {
		t.Fatal("Diagram with a missing binary succeeded, want error")
	}
}
