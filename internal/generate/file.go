package generate

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LoadPointCloud reads a whitespace-separated text file with one point
// per line. Blank lines and lines starting with '#' are skipped. All
// rows must have the same number of columns.
func LoadPointCloud(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open point cloud: %w", err)
	}
	defer f.Close()

	var rows [][]float64
	cols := 0

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if cols == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("%s:%d: expected %d columns, got %d", path, line, cols, len(fields))
		}
		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: invalid value %q: %w", path, line, field, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read point cloud: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no points found", path)
	}

	X := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		X.SetRow(i, row)
	}
	return X, nil
}
