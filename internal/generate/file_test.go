package generate

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCloudFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cloud.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func TestLoadPointCloud(t *testing.T) {
	path := writeCloudFile(t, "# three points in the plane\n0 0\n1.5 -2\n\n3 4\n")

	X, err := LoadPointCloud(path)
	if err != nil {
		t.Fatalf("LoadPointCloud: %v", err)
	}
	n, d := X.Dims()
	if n != 3 || d != 2 {
		t.Fatalf("got %d x %d cloud, want 3 x 2", n, d)
	}
	if X.At(1, 0) != 1.5 || X.At(1, 1) != -2 {
		t.Errorf("row 1 = (%v, %v), want (1.5, -2)", X.At(1, 0), X.At(1, 1))
	}
}

func TestLoadPointCloudRaggedRows(t *testing.T) {
	path := writeCloudFile(t, "0 0\n1 2 3\n")
	if _, err := LoadPointCloud(path); err == nil {
		t.Fatal("LoadPointCloud accepted rows with mismatched column counts")
	}
}

func TestLoadPointCloudBadValue(t *testing.T) {
	path := writeCloudFile(t, "0 zero\n")
	if _, err := LoadPointCloud(path); err == nil {
		t.Fatal("LoadPointCloud accepted a non-numeric value")
	}
}

func TestLoadPointCloudEmpty(t *testing.T) {
	path := writeCloudFile(t, "# only comments\n\n")
	if _, err := LoadPointCloud(path); err == nil {
		t.Fatal("LoadPointCloud accepted a file with no points")
	}
}

func TestLoadPointCloudMissingFile(t *testing.T) {
	if _, err := LoadPointCloud(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("LoadPointCloud accepted a missing file")
	}
}
