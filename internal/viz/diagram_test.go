package viz

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/topodyn/condense/internal/condense"
)

func TestSavePersistenceDiagram(t *testing.T) {
	points := condense.Tensor{
		Shape: []int{3, 3},
		Data: []float64{
			0, 1, 0,
			0, math.Inf(1), 0,
			1, math.Sqrt2, 1,
		},
	}

	path := filepath.Join(t.TempDir(), "diagram.png")
	if err := SavePersistenceDiagram(points, path); err != nil {
		t.Fatalf("SavePersistenceDiagram: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat diagram: %v", err)
	}
	if info.Size() == 0 {
		t.Error("diagram file is empty")
	}
}

func TestSavePersistenceDiagramBadShape(t *testing.T) {
	points := condense.Tensor{Shape: []int{2, 2}, Data: []float64{0, 1, 0, 2}}
	if err := SavePersistenceDiagram(points, filepath.Join(t.TempDir(), "d.png")); err == nil {
		t.Fatal("SavePersistenceDiagram accepted an m x 2 tensor")
	}
}

func TestSaveBarcode(t *testing.T) {
	pairs := condense.Tensor{
		Shape: []int{2, 2},
		Data:  []float64{0, 1, 0, 3},
	}

	path := filepath.Join(t.TempDir(), "barcode.png")
	if err := SaveBarcode(pairs, path); err != nil {
		t.Fatalf("SaveBarcode: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat barcode: %v", err)
	}
	if info.Size() == 0 {
		t.Error("barcode file is empty")
	}
}

func TestSaveBarcodeBadShape(t *testing.T) {
	pairs := condense.Tensor{Shape: []int{1, 3}, Data: []float64{0, 1, 2}}
	if err := SaveBarcode(pairs, filepath.Join(t.TempDir(), "b.png")); err == nil {
		t.Fatal("SaveBarcode accepted an m x 3 tensor")
	}
}
