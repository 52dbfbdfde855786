package viz

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/topodyn/condense/internal/condense"
)

var dimensionColors = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
}

// SavePersistenceDiagram plots the (birth, death) points of one
// iteration's diagram, colored by dimension, with the diagonal for
// reference. points must be an m x 3 tensor (birth, death, dimension);
// essential classes (infinite death) are skipped.
func SavePersistenceDiagram(points condense.Tensor, path string) error {
	if len(points.Shape) != 2 || points.Shape[1] != 3 {
		return fmt.Errorf("persistence points tensor has shape %v, want m x 3", points.Shape)
	}

	p := plot.New()
	p.Title.Text = "Persistence diagram"
	p.X.Label.Text = "birth"
	p.Y.Label.Text = "death"

	byDim := map[int]plotter.XYs{}
	maxDeath := 0.0
	for i := 0; i < points.Shape[0]; i++ {
		birth := points.Data[3*i]
		death := points.Data[3*i+1]
		dim := int(points.Data[3*i+2])
		if math.IsInf(death, 1) {
			continue
		}
		if death > maxDeath {
			maxDeath = death
		}
		byDim[dim] = append(byDim[dim], plotter.XY{X: birth, Y: death})
	}

	diagonal, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: maxDeath, Y: maxDeath}})
	if err != nil {
		return fmt.Errorf("build diagonal: %w", err)
	}
	diagonal.Color = color.Gray{Y: 128}
	p.Add(diagonal)

	for dim := 0; dim < len(dimensionColors); dim++ {
		pts, ok := byDim[dim]
		if !ok {
			continue
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("build dim %d scatter: %w", dim, err)
		}
		scatter.GlyphStyle.Color = dimensionColors[dim]
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("dim %d", dim), scatter)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save persistence diagram: %w", err)
	}
	return nil
}

// SaveBarcode plots the diffusion-homology pairs as horizontal bars,
// one per component merge, from birth iteration 0 to the merge
// iteration. pairs must be an m x 2 tensor.
func SaveBarcode(pairs condense.Tensor, path string) error {
	if len(pairs.Shape) != 2 || pairs.Shape[1] != 2 {
		return fmt.Errorf("pairs tensor has shape %v, want m x 2", pairs.Shape)
	}

	p := plot.New()
	p.Title.Text = "Diffusion homology barcode"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "class"

	for i := 0; i < pairs.Shape[0]; i++ {
		birth := pairs.Data[2*i]
		death := pairs.Data[2*i+1]
		bar, err := plotter.NewLine(plotter.XYs{
			{X: birth, Y: float64(i)},
			{X: death, Y: float64(i)},
		})
		if err != nil {
			return fmt.Errorf("build bar %d: %w", i, err)
		}
		bar.Color = dimensionColors[0]
		bar.Width = vg.Points(1.5)
		p.Add(bar)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save barcode: %w", err)
	}
	return nil
}
