package condense

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/topodyn/condense/internal/monitoring"
)

// Status describes how a run terminated.
type Status int

const (
	// Converged means the cloud's diameter fell below the convergence
	// threshold.
	Converged Status = iota
	// MaxIterationsReached means the iteration cap was hit first.
	MaxIterationsReached
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max_iterations_reached"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Params configures a condensation run.
type Params struct {
	// Epsilon is the diffusion scale passed to the kernel. Must be
	// positive; estimate it from the data when unset (see
	// generate.EstimateEpsilon).
	Epsilon float64

	// Alpha blends the fresh operator with the previous iteration's
	// operator: P_t = Alpha*P_t_raw + (1-Alpha)*P_{t-1}. Alpha = 1
	// disables memory.
	Alpha float64

	// Kernel selects the affinity kernel by name.
	Kernel string

	// Decay is the exponent of the alpha kernel; ignored by the others.
	Decay float64

	// MaxIterations caps the number of diffusion steps.
	MaxIterations int

	// ConvergenceThreshold stops the run once the cloud diameter drops
	// below it.
	ConvergenceThreshold float64

	// StoreOperators records every diffusion operator in the Result
	// under the OperatorKeyFormat family (needed for spectrum
	// analysis; costs O(T*n^2) memory).
	StoreOperators bool
}

// DefaultParams returns the canonical run parameters. Epsilon is left
// at zero and must be set (or estimated) by the caller.
func DefaultParams() Params {
	return Params{
		Alpha:                1.0,
		Kernel:               KernelGaussian,
		Decay:                DefaultAlphaDecay,
		MaxIterations:        256,
		ConvergenceThreshold: 1e-3,
		StoreOperators:       true,
	}
}

// RunResult bundles the merged output map with run metadata.
type RunResult struct {
	// Data holds the trajectory under TrajectoryKey, the operators
	// under OperatorKeyFormat (when enabled), and every key the
	// callbacks contributed during finalization.
	Data Result

	// Iterations is the number of diffusion steps performed (T). The
	// trajectory holds T+1 snapshots.
	Iterations int

	// Status reports how the run terminated.
	Status Status
}

// Engine orchestrates the condensation loop. It owns the evolving
// cloud; callbacks get read access to per-step state and contribute to
// the output map at finalization.
type Engine struct {
	params    Params
	kernel    KernelFunc
	callbacks []Callback
}

// New validates the parameters, resolves the kernel, and builds an
// engine. All parameter errors surface here, before any iteration runs.
func New(params Params, callbacks ...Callback) (*Engine, error) {
	if params.Epsilon <= 0 {
		return nil, fmt.Errorf("epsilon must be positive, got %v", params.Epsilon)
	}
	if params.Alpha < 0 || params.Alpha > 1 {
		return nil, fmt.Errorf("alpha must be in [0,1], got %v", params.Alpha)
	}
	if params.MaxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", params.MaxIterations)
	}
	kernel, err := KernelByName(params.Kernel, params.Decay)
	if err != nil {
		return nil, err
	}
	return &Engine{
		params:    params,
		kernel:    kernel,
		callbacks: callbacks,
	}, nil
}

// Run condenses the cloud X (one point per row) until the diameter
// drops below the convergence threshold or the iteration cap is
// reached. X itself is not modified; the engine works on a copy.
func (e *Engine) Run(X *mat.Dense) (*RunResult, error) {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return nil, fmt.Errorf("empty point cloud (%d x %d)", n, d)
	}

	cloud := mat.DenseCopyOf(X)
	trajectory := []*mat.Dense{mat.DenseCopyOf(cloud)}
	operators := make(map[int]*mat.Dense)

	var prev *mat.Dense
	status := MaxIterationsReached
	iterations := e.params.MaxIterations

	for t := 0; t < e.params.MaxIterations; t++ {
		D := DistanceMatrix(cloud)

		if t > 0 && Diameter(D) < e.params.ConvergenceThreshold {
			status = Converged
			iterations = t
			break
		}

		K := e.kernel(D, e.params.Epsilon)
		P := BlendOperator(BuildOperator(K), prev, e.params.Alpha)

		for _, cb := range e.callbacks {
			cb.Step(t, cloud, P, D)
		}

		var next mat.Dense
		next.Mul(P, cloud)
		cloud = &next
		trajectory = append(trajectory, mat.DenseCopyOf(cloud))

		if e.params.StoreOperators {
			operators[t] = P
		}
		prev = P
	}

	monitoring.Logf("condensation finished: %d iterations, status=%s", iterations, status)

	data := Result{}
	for _, cb := range e.callbacks {
		cb.Finalize(data)
	}
	data[TrajectoryKey] = stackTrajectory(trajectory)
	for t, P := range operators {
		data[fmt.Sprintf(OperatorKeyFormat, t)] = TensorFromMatrix(P)
	}

	return &RunResult{
		Data:       data,
		Iterations: iterations,
		Status:     status,
	}, nil
}
