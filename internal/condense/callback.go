package condense

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/topodyn/condense/internal/homology"
)

// Callback observes the condensation process. One Step call is made per
// iteration, in registration order, before the cloud advances; Finalize
// runs once after termination, again in registration order, and may add
// or overwrite keys in the shared Result map.
//
// Step receives the iteration index t, the current cloud X (one point
// per row), the diffusion operator P and the pairwise distance matrix
// D. All three matrices are owned by the engine and must be treated as
// read-only.
type Callback interface {
	Step(t int, X, P, D *mat.Dense)
	Finalize(data Result)
}

// Callback names accepted by NewCallbacks.
const (
	CallbackDiffusionHomology   = "diffusion_homology"
	CallbackPersistentHomology  = "persistent_homology"
	CallbackReturnProbabilities = "return_probabilities"
)

// CallbackConfig carries the tunables shared by the built-in callbacks.
type CallbackConfig struct {
	// MergeThreshold is the distance below which the diffusion-homology
	// callback merges a pair of points.
	MergeThreshold float64

	// MaxDimension is the largest homological dimension computed by the
	// persistent-homology callback.
	MaxDimension int

	// MaxCardinality caps the cloud size for which per-step persistence
	// diagrams are computed; larger clouds are skipped.
	MaxCardinality int

	// WalkLength is the longest random walk considered by the
	// return-probabilities callback.
	WalkLength int

	// Homology is the engine used for Vietoris-Rips diagrams. Left nil,
	// the built-in engine is used.
	Homology homology.Engine
}

// DefaultCallbackConfig returns the canonical callback tunables.
func DefaultCallbackConfig() CallbackConfig {
	return CallbackConfig{
		MergeThreshold: 1e-3,
		MaxDimension:   1,
		MaxCardinality: 512,
		WalkLength:     8,
	}
}

// CallbackConstructor builds a callback for a run over n points.
type CallbackConstructor func(n int, cfg CallbackConfig) Callback

var callbackRegistry = map[string]CallbackConstructor{
	CallbackDiffusionHomology: func(n int, cfg CallbackConfig) Callback {
		return NewDiffusionHomology(n, cfg.MergeThreshold)
	},
	CallbackPersistentHomology: func(_ int, cfg CallbackConfig) Callback {
		engine := cfg.Homology
		if engine == nil {
			engine = homology.NewRips()
		}
		return NewPersistentHomology(engine, cfg.MaxDimension, cfg.MaxCardinality)
	},
	CallbackReturnProbabilities: func(_ int, cfg CallbackConfig) Callback {
		return NewReturnProbabilities(cfg.WalkLength)
	},
}

// NewCallbacks resolves callback names against the registry and
// constructs one instance per name, preserving order. An unknown name
// is an error raised before the run starts, not a silent drop.
func NewCallbacks(names []string, n int, cfg CallbackConfig) ([]Callback, error) {
	callbacks := make([]Callback, 0, len(names))
	for _, name := range names {
		ctor, ok := callbackRegistry[name]
		if !ok {
			return nil, fmt.Errorf("unknown callback %q (available: %v)", name, CallbackNames())
		}
		callbacks = append(callbacks, ctor(n, cfg))
	}
	return callbacks, nil
}

// CallbackNames returns the registered callback names in sorted order.
func CallbackNames() []string {
	names := make([]string, 0, len(callbackRegistry))
	for name := range callbackRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
