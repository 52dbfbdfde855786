// Package generate provides the point-cloud samplers and data utilities
// that feed the condensation engine. All samplers draw from an explicit
// *rand.Rand so runs are reproducible given a seed.
package generate

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Generator names accepted by ByName.
const (
	GeneratorGaussianBlobs      = "gaussian_blobs"
	GeneratorCircle             = "circle"
	GeneratorAnnulus            = "annulus"
	GeneratorDoubleAnnulus      = "double_annulus"
	GeneratorHyperuniformCircle = "hyperuniform_circle"
)

// Options carries the sampler tunables that only some generators use.
type Options struct {
	// InnerRadius and OuterRadius bound annulus-like samplers.
	InnerRadius float64
	OuterRadius float64
}

// DefaultOptions returns the canonical sampler tunables.
func DefaultOptions() Options {
	return Options{
		InnerRadius: 0.5,
		OuterRadius: 1.0,
	}
}

// GeneratorFunc samples an n-point cloud.
type GeneratorFunc func(n int, opts Options, rng *rand.Rand) (*mat.Dense, error)

var generatorRegistry = map[string]GeneratorFunc{
	GeneratorGaussianBlobs:      GaussianBlobs,
	GeneratorCircle:             Circle,
	GeneratorAnnulus:            Annulus,
	GeneratorDoubleAnnulus:      DoubleAnnulus,
	GeneratorHyperuniformCircle: HyperuniformCircle,
}

// ByName resolves a generator name. Unknown names are an error, raised
// before any sampling happens.
func ByName(name string) (GeneratorFunc, error) {
	g, ok := generatorRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator %q (available: %v)", name, Names())
	}
	return g, nil
}

// Names returns the registered generator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(generatorRegistry))
	for name := range generatorRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GaussianBlobs samples n points from two unit-variance gaussian
// clusters centered at (-2, 0) and (2, 0), split as evenly as possible.
func GaussianBlobs(n int, _ Options, rng *rand.Rand) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}
	X := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		cx := -2.0
		if i%2 == 1 {
			cx = 2.0
		}
		X.Set(i, 0, cx+rng.NormFloat64())
		X.Set(i, 1, rng.NormFloat64())
	}
	return X, nil
}

// Circle samples n points uniformly on the circle of radius
// OuterRadius.
func Circle(n int, opts Options, rng *rand.Rand) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}
	X := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * rng.Float64()
		X.Set(i, 0, opts.OuterRadius*math.Cos(theta))
		X.Set(i, 1, opts.OuterRadius*math.Sin(theta))
	}
	return X, nil
}

// Annulus samples n points uniformly (by area) from the annulus with
// the configured radii. The inner radius must be strictly smaller than
// the outer radius.
func Annulus(n int, opts Options, rng *rand.Rand) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}
	if opts.InnerRadius >= opts.OuterRadius {
		return nil, fmt.Errorf("inner radius %v must be smaller than outer radius %v",
			opts.InnerRadius, opts.OuterRadius)
	}
	X := mat.NewDense(n, 2, nil)
	r2, R2 := opts.InnerRadius*opts.InnerRadius, opts.OuterRadius*opts.OuterRadius
	for i := 0; i < n; i++ {
		radius := math.Sqrt(rng.Float64()*(R2-r2) + r2)
		theta := 2 * math.Pi * rng.Float64()
		X.Set(i, 0, radius*math.Cos(theta))
		X.Set(i, 1, radius*math.Sin(theta))
	}
	return X, nil
}

// DoubleAnnulus samples two side-by-side annuli, the second at half
// scale, offset so the shapes just touch.
func DoubleAnnulus(n int, opts Options, rng *rand.Rand) (*mat.Dense, error) {
	if opts.InnerRadius >= opts.OuterRadius {
		return nil, fmt.Errorf("inner radius %v must be smaller than outer radius %v",
			opts.InnerRadius, opts.OuterRadius)
	}
	left := n / 2
	A, err := Annulus(left, opts, rng)
	if err != nil {
		return nil, err
	}
	small := Options{InnerRadius: opts.InnerRadius / 2, OuterRadius: opts.OuterRadius / 2}
	B, err := Annulus(n-left, small, rng)
	if err != nil {
		return nil, err
	}
	offset := opts.OuterRadius + small.OuterRadius
	X := mat.NewDense(n, 2, nil)
	for i := 0; i < left; i++ {
		X.Set(i, 0, A.At(i, 0))
		X.Set(i, 1, A.At(i, 1))
	}
	for i := left; i < n; i++ {
		X.Set(i, 0, B.At(i-left, 0)+offset)
		X.Set(i, 1, B.At(i-left, 1))
	}
	return X, nil
}

// HyperuniformCircle places n points evenly spaced on the circle of
// radius OuterRadius, rotated by a random phase.
func HyperuniformCircle(n int, opts Options, rng *rand.Rand) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}
	phase := 2 * math.Pi * rng.Float64()
	X := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		theta := phase + 2*math.Pi*float64(i)/float64(n)
		X.Set(i, 0, opts.OuterRadius*math.Cos(theta))
		X.Set(i, 1, opts.OuterRadius*math.Sin(theta))
	}
	return X, nil
}

// AddNoise perturbs every coordinate by level * U[0,1) in place.
func AddNoise(X *mat.Dense, level float64, rng *rand.Rand) {
	if level <= 0 {
		return
	}
	n, d := X.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			X.Set(i, j, X.At(i, j)+level*rng.Float64())
		}
	}
}
