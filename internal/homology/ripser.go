package homology

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Ripser computes diagrams by shelling out to a ripser binary. The
// binary receives the lower triangle of the distance matrix and is
// asked for dimensions up to maxDim. A missing binary or a failing
// invocation is reported as an error; callers are expected to degrade
// gracefully (the persistent-homology observer treats it as a no-op).
type Ripser struct {
	// Path is the ripser executable. Empty means "ripser" on $PATH.
	Path string
}

// NewRipser returns an adapter for the given executable path.
func NewRipser(path string) *Ripser {
	return &Ripser{Path: path}
}

// Diagram implements Engine.
func (r *Ripser) Diagram(D mat.Matrix, maxDim int) ([]Pair, error) {
	binary := r.Path
	if binary == "" {
		binary = "ripser"
	}
	binary, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("ripser binary not found: %w", err)
	}

	input, err := writeLowerDistanceMatrix(D)
	if err != nil {
		return nil, err
	}
	defer os.Remove(input)

	cmd := exec.Command(binary,
		"--format", "lower-distance",
		"--dim", strconv.Itoa(maxDim),
		input,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ripser failed: %w", err)
	}

	return parseRipserOutput(string(out))
}

// writeLowerDistanceMatrix stores the strict lower triangle of D in a
// temporary file, one row per line, comma separated.
func writeLowerDistanceMatrix(D mat.Matrix) (string, error) {
	n, _ := D.Dims()

	f, err := os.CreateTemp("", "rips-*.lower_distance_matrix")
	if err != nil {
		return "", fmt.Errorf("create ripser input: %w", err)
	}

	var sb strings.Builder
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatFloat(D.At(i, j), 'g', -1, 64))
		}
		sb.WriteByte('\n')
	}

	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write ripser input: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close ripser input: %w", err)
	}
	return filepath.Clean(f.Name()), nil
}

// parseRipserOutput extracts intervals from ripser's textual output:
//
//	persistence intervals in dim 0:
//	 [0,0.5)
//	 [0, )
func parseRipserOutput(out string) ([]Pair, error) {
	var pairs []Pair
	dim := -1

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "persistence intervals in dim "); ok {
			v, err := strconv.Atoi(strings.TrimSuffix(rest, ":"))
			if err != nil {
				return nil, fmt.Errorf("parse ripser dimension header %q: %w", line, err)
			}
			dim = v
			continue
		}
		if dim < 0 || !strings.HasPrefix(line, "[") {
			continue
		}

		body := strings.TrimSuffix(strings.TrimPrefix(line, "["), ")")
		parts := strings.SplitN(body, ",", 2)
		if len(parts) != 2 {
			continue
		}
		birth, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse ripser birth in %q: %w", line, err)
		}
		death := math.Inf(1)
		if s := strings.TrimSpace(parts[1]); s != "" {
			death, err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parse ripser death in %q: %w", line, err)
			}
		}
		pairs = append(pairs, Pair{Birth: birth, Death: death, Dimension: dim})
	}

	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].Dimension != pairs[b].Dimension {
			return pairs[a].Dimension < pairs[b].Dimension
		}
		if pairs[a].Birth != pairs[b].Birth {
			return pairs[a].Birth < pairs[b].Birth
		}
		return pairs[a].Death < pairs[b].Death
	})
	return pairs, nil
}

var _ Engine = (*Ripser)(nil)
