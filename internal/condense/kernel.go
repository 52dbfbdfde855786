package condense

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Kernel names accepted by KernelByName.
const (
	KernelGaussian  = "gaussian"
	KernelLaplacian = "laplacian"
	KernelBox       = "box"
	KernelConstant  = "constant"
	KernelAlpha     = "alpha"
)

// DefaultAlphaDecay is the decay exponent used by the alpha kernel when
// the caller does not override it. Larger values push the kernel toward
// a box kernel; a value of 2 recovers the gaussian kernel.
const DefaultAlphaDecay = 10.0

// KernelFunc maps an n x n pairwise distance matrix and a scale
// parameter epsilon to an affinity matrix of the same shape. The result
// is symmetric and nonnegative for any symmetric nonnegative input.
type KernelFunc func(D *mat.Dense, epsilon float64) *mat.Dense

// GaussianKernel computes K_ij = exp(-D_ij^2 / epsilon).
func GaussianKernel(D *mat.Dense, epsilon float64) *mat.Dense {
	return applyKernel(D, func(d float64) float64 {
		return math.Exp(-d * d / epsilon)
	})
}

// LaplacianKernel computes K_ij = exp(-D_ij / epsilon).
func LaplacianKernel(D *mat.Dense, epsilon float64) *mat.Dense {
	return applyKernel(D, func(d float64) float64 {
		return math.Exp(-d / epsilon)
	})
}

// BoxKernel computes K_ij = 1 if D_ij <= epsilon, else 0.
func BoxKernel(D *mat.Dense, epsilon float64) *mat.Dense {
	return applyKernel(D, func(d float64) float64 {
		if d <= epsilon {
			return 1
		}
		return 0
	})
}

// ConstantKernel computes K_ij = 1 for all pairs. Degenerate; useful
// for testing the operator and engine plumbing.
func ConstantKernel(D *mat.Dense, _ float64) *mat.Dense {
	return applyKernel(D, func(float64) float64 { return 1 })
}

// AlphaKernel returns an alpha-decay kernel
//
//	K_ij = exp(-(D_ij / epsilon)^decay)
//
// which interpolates between the gaussian kernel (decay = 2) and the
// box kernel (decay -> infinity).
func AlphaKernel(decay float64) KernelFunc {
	return func(D *mat.Dense, epsilon float64) *mat.Dense {
		return applyKernel(D, func(d float64) float64 {
			return math.Exp(-math.Pow(d/epsilon, decay))
		})
	}
}

// KernelByName resolves a kernel name to its implementation. Unknown
// names fail here, before any iteration runs. The decay parameter only
// affects the alpha kernel.
func KernelByName(name string, decay float64) (KernelFunc, error) {
	switch name {
	case KernelGaussian:
		return GaussianKernel, nil
	case KernelLaplacian:
		return LaplacianKernel, nil
	case KernelBox:
		return BoxKernel, nil
	case KernelConstant:
		return ConstantKernel, nil
	case KernelAlpha:
		return AlphaKernel(decay), nil
	default:
		return nil, fmt.Errorf("unsupported kernel %q (supported: %v)", name, KernelNames())
	}
}

// KernelNames returns the supported kernel names in sorted order.
func KernelNames() []string {
	names := []string{
		KernelAlpha,
		KernelBox,
		KernelConstant,
		KernelGaussian,
		KernelLaplacian,
	}
	sort.Strings(names)
	return names
}

func applyKernel(D *mat.Dense, f func(float64) float64) *mat.Dense {
	var K mat.Dense
	K.Apply(func(_, _ int, v float64) float64 { return f(v) }, D)
	return &K
}
