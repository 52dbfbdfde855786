// Package viz turns stored condensation runs into human-readable
// artifacts: per-step metric-space statistics, interactive HTML charts
// and static persistence plots.
package viz

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/topodyn/condense/internal/condense"
)

// TopEigenvalues is the number of operator eigenvalues reported per
// step.
const TopEigenvalues = 10

// StepStats summarizes the metric space at one iteration.
type StepStats struct {
	T           int
	Diameter    float64
	Hausdorff   float64
	Eigenvalues []float64
}

// RunStats computes per-step statistics from a stored run: the cloud
// diameter, the Hausdorff distance to the next snapshot (or to the
// initial snapshot when fromOrigin is set; the final step reports 0),
// and the top eigenvalues of the symmetrized diffusion operator when
// the run stored its operators.
func RunStats(data condense.Result, fromOrigin bool) ([]StepStats, error) {
	trajectory, ok := data[condense.TrajectoryKey]
	if !ok {
		return nil, fmt.Errorf("result has no trajectory under %q", condense.TrajectoryKey)
	}
	if len(trajectory.Shape) != 3 {
		return nil, fmt.Errorf("trajectory tensor has rank %d, want 3", len(trajectory.Shape))
	}
	steps := trajectory.Shape[2]

	origin, err := trajectory.Snapshot(0)
	if err != nil {
		return nil, err
	}

	stats := make([]StepStats, 0, steps)
	current := origin
	for t := 0; t < steps; t++ {
		s := StepStats{T: t}
		s.Diameter = condense.Diameter(condense.DistanceMatrix(current))

		if t+1 < steps {
			next, err := trajectory.Snapshot(t + 1)
			if err != nil {
				return nil, err
			}
			if fromOrigin {
				s.Hausdorff = condense.HausdorffDistance(current, origin)
			} else {
				s.Hausdorff = condense.HausdorffDistance(current, next)
			}
			current = next
		}

		s.Eigenvalues = operatorSpectrum(data, t)
		stats = append(stats, s)
	}
	return stats, nil
}

// operatorSpectrum returns the top eigenvalues of the symmetrized
// operator of iteration t, or nil when the run did not store it.
func operatorSpectrum(data condense.Result, t int) []float64 {
	tensor, ok := data[fmt.Sprintf(condense.OperatorKeyFormat, t)]
	if !ok {
		return nil
	}
	P, err := tensor.Matrix()
	if err != nil {
		return nil
	}
	n, _ := P.Dims()

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(P.At(i, j)+P.At(j, i)))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return nil
	}
	values := eig.Values(nil)
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	if len(values) > TopEigenvalues {
		values = values[:TopEigenvalues]
	}
	return values
}

// WriteStatsCSV writes the statistics as tab-separated values in the
// column order t, diameter, hausdorff_distance, eigenvalue_0..9.
func WriteStatsCSV(w io.Writer, stats []StepStats) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := []string{"t", "diameter", "hausdorff_distance"}
	for i := 0; i < TopEigenvalues; i++ {
		header = append(header, fmt.Sprintf("eigenvalue_%d", i))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write stats header: %w", err)
	}

	for _, s := range stats {
		row := []string{
			strconv.Itoa(s.T),
			strconv.FormatFloat(s.Diameter, 'g', -1, 64),
			strconv.FormatFloat(s.Hausdorff, 'g', -1, 64),
		}
		for i := 0; i < TopEigenvalues; i++ {
			if i < len(s.Eigenvalues) {
				row = append(row, strconv.FormatFloat(s.Eigenvalues[i], 'g', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write stats row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
