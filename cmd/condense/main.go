// Command condense runs diffusion condensation over a generated or
// loaded point cloud and stores the result in a run archive.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/topodyn/condense/internal/archive"
	"github.com/topodyn/condense/internal/condense"
	"github.com/topodyn/condense/internal/config"
	"github.com/topodyn/condense/internal/generate"
	"github.com/topodyn/condense/internal/homology"
	"github.com/topodyn/condense/internal/version"
)

var (
	dataFlag  = flag.String("data", generate.GeneratorHyperuniformCircle, "Generator name or point-cloud file to load")
	samples   = flag.Int("n", 128, "Number of samples to generate")
	epsilon   = flag.Float64("epsilon", 0, "Diffusion scale; estimated from the data when <= 0")
	kernel    = flag.String("kernel", condense.KernelGaussian, fmt.Sprintf("Affinity kernel (%s)", strings.Join(condense.KernelNames(), ", ")))
	alpha     = flag.Float64("alpha", 1.0, "Weight of the fresh operator when blending with the previous one (1 = no memory)")
	decay     = flag.Float64("decay", condense.DefaultAlphaDecay, "Decay exponent of the alpha kernel")
	noise     = flag.Float64("noise", 0, "Uniform noise level added to generated data")
	seed      = flag.Int64("seed", -1, "Random seed; negative means time-based")
	callbacks = flag.String("callbacks", strings.Join([]string{
		condense.CallbackDiffusionHomology,
		condense.CallbackPersistentHomology,
	}, ","), "Comma-separated callback names")
	maxIterations  = flag.Int("max-iterations", 256, "Iteration cap")
	convThreshold  = flag.Float64("convergence-threshold", 1e-3, "Diameter below which the run converges")
	mergeThreshold = flag.Float64("merge-threshold", 1e-3, "Distance below which diffusion homology merges points")
	maxDimension   = flag.Int("max-dimension", 1, "Maximum homological dimension for persistence diagrams")
	maxCardinality = flag.Int("max-cardinality", 512, "Largest cloud for which persistence diagrams are computed")
	ripserPath     = flag.String("ripser", "", "External ripser binary for persistence diagrams (default: built-in engine)")
	innerRadius    = flag.Float64("r", 0.5, "Inner radius for annulus-like generators")
	outerRadius    = flag.Float64("R", 1.0, "Outer radius for annulus-like generators")
	output         = flag.String("output", "condense.db", "Run archive path")
	runName        = flag.String("name", "", "Run name; derived from parameters when empty")
	force          = flag.Bool("force", false, "Overwrite an existing run of the same name")
	configPath     = flag.String("config", "", "JSON config file; explicit flags take precedence")
	showVersion    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("condense", version.String())
		return
	}

	if *configPath != "" {
		if err := applyConfig(*configPath); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	rngSeed := *seed
	if rngSeed < 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	X, err := loadData(rng)
	if err != nil {
		log.Fatalf("load data: %v", err)
	}
	generate.AddNoise(X, *noise, rng)
	n, d := X.Dims()
	log.Printf("data: %s (%d points in %d dimensions), seed=%d", *dataFlag, n, d, rngSeed)

	eps := *epsilon
	if eps <= 0 {
		eps = generate.EstimateEpsilon(X)
		log.Printf("epsilon not set, estimated as %.4f", eps)
	}

	cfg := condense.DefaultCallbackConfig()
	cfg.MergeThreshold = *mergeThreshold
	cfg.MaxDimension = *maxDimension
	cfg.MaxCardinality = *maxCardinality
	if *ripserPath != "" {
		cfg.Homology = homology.NewRipser(*ripserPath)
	}

	names := splitNames(*callbacks)
	cbs, err := condense.NewCallbacks(names, n, cfg)
	if err != nil {
		log.Fatalf("configure callbacks: %v", err)
	}
	log.Printf("callbacks: %v", names)

	params := condense.DefaultParams()
	params.Epsilon = eps
	params.Alpha = *alpha
	params.Kernel = *kernel
	params.Decay = *decay
	params.MaxIterations = *maxIterations
	params.ConvergenceThreshold = *convThreshold

	engine, err := condense.New(params, cbs...)
	if err != nil {
		log.Fatalf("configure engine: %v", err)
	}

	result, err := engine.Run(X)
	if err != nil {
		log.Fatalf("condensation failed: %v", err)
	}

	name := *runName
	if name == "" {
		name = fmt.Sprintf("%s_n%d_e%.4f_a%.2f_s%d", *dataFlag, n, eps, *alpha, rngSeed)
	}

	paramsJSON, err := json.Marshal(struct {
		condense.Params
		Data  string  `json:"data"`
		Seed  int64   `json:"seed"`
		Noise float64 `json:"noise"`
	}{Params: params, Data: *dataFlag, Seed: rngSeed, Noise: *noise})
	if err != nil {
		log.Fatalf("encode run parameters: %v", err)
	}

	store, err := archive.Open(*output)
	if err != nil {
		log.Fatalf("open archive %s: %v", *output, err)
	}
	defer store.Close()

	run := &archive.Run{
		Name:       name,
		ParamsJSON: paramsJSON,
		Iterations: result.Iterations,
		Status:     result.Status.String(),
	}
	if err := store.SaveRun(run, result.Data, *force); err != nil {
		if errors.Is(err, archive.ErrRunExists) {
			log.Printf("refusing to overwrite run %q; use -force to change this behaviour", name)
			os.Exit(1)
		}
		log.Fatalf("store run: %v", err)
	}

	log.Printf("stored run %q (%d iterations, %s) in %s", name, result.Iterations, result.Status, *output)
}

// loadData reads a point-cloud file when -data names one, and falls
// back to the generator registry otherwise.
func loadData(rng *rand.Rand) (*mat.Dense, error) {
	if _, err := os.Stat(*dataFlag); err == nil {
		return generate.LoadPointCloud(*dataFlag)
	}
	gen, err := generate.ByName(*dataFlag)
	if err != nil {
		return nil, err
	}
	opts := generate.DefaultOptions()
	opts.InnerRadius = *innerRadius
	opts.OuterRadius = *outerRadius
	return gen(*samples, opts, rng)
}

// applyConfig overrides flag values from a config file. Flags given
// explicitly on the command line win over the file.
func applyConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	setString := func(name string, dst *string, src *string) {
		if src != nil && !set[name] {
			*dst = *src
		}
	}
	setFloat := func(name string, dst *float64, src *float64) {
		if src != nil && !set[name] {
			*dst = *src
		}
	}
	setInt := func(name string, dst *int, src *int) {
		if src != nil && !set[name] {
			*dst = *src
		}
	}

	setString("data", dataFlag, cfg.Data)
	setInt("n", samples, cfg.Samples)
	setFloat("noise", noise, cfg.Noise)
	if cfg.Seed != nil && !set["seed"] {
		*seed = *cfg.Seed
	}
	setFloat("r", innerRadius, cfg.InnerRadius)
	setFloat("R", outerRadius, cfg.OuterRadius)
	setFloat("epsilon", epsilon, cfg.Epsilon)
	setString("kernel", kernel, cfg.Kernel)
	setFloat("alpha", alpha, cfg.Alpha)
	setFloat("decay", decay, cfg.Decay)
	setInt("max-iterations", maxIterations, cfg.MaxIterations)
	setFloat("convergence-threshold", convThreshold, cfg.ConvergenceThreshold)
	if len(cfg.Callbacks) > 0 && !set["callbacks"] {
		*callbacks = strings.Join(cfg.Callbacks, ",")
	}
	setFloat("merge-threshold", mergeThreshold, cfg.MergeThreshold)
	setInt("max-dimension", maxDimension, cfg.MaxDimension)
	setInt("max-cardinality", maxCardinality, cfg.MaxCardinality)
	setString("ripser", ripserPath, cfg.Ripser)
	setString("output", output, cfg.Output)
	return nil
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}
