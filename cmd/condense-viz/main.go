// Command condense-viz renders stored condensation runs: an HTML
// report, static persistence plots, or per-step metric-space statistics
// as tab-separated values on stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/topodyn/condense/internal/archive"
	"github.com/topodyn/condense/internal/condense"
	"github.com/topodyn/condense/internal/version"
	"github.com/topodyn/condense/internal/viz"
)

var (
	archivePath = flag.String("archive", "condense.db", "Run archive path")
	runName     = flag.String("run", "", "Run name to render (empty lists stored runs)")
	htmlOut     = flag.String("html", "", "Write an HTML report to this file")
	diagramOut  = flag.String("diagram", "", "Write a persistence-diagram plot (PNG/SVG/PDF by extension)")
	barcodeOut  = flag.String("barcode", "", "Write a diffusion-homology barcode plot")
	diagramStep = flag.Int("step", -1, "Iteration for -diagram; negative means the last available one")
	stats       = flag.Bool("stats", false, "Print per-step statistics to stdout")
	fromOrigin  = flag.Bool("origin", false, "Measure Hausdorff distances from the initial cloud instead of consecutive steps")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("condense-viz", version.String())
		return
	}

	store, err := archive.Open(*archivePath)
	if err != nil {
		log.Fatalf("open archive %s: %v", *archivePath, err)
	}
	defer store.Close()

	if *runName == "" {
		listRuns(store)
		return
	}

	run, data, err := store.LoadRun(*runName)
	if err != nil {
		log.Fatalf("load run: %v", err)
	}

	if *stats {
		rows, err := viz.RunStats(data, *fromOrigin)
		if err != nil {
			log.Fatalf("compute statistics: %v", err)
		}
		if err := viz.WriteStatsCSV(os.Stdout, rows); err != nil {
			log.Fatalf("write statistics: %v", err)
		}
	}

	if *htmlOut != "" {
		f, err := os.Create(*htmlOut)
		if err != nil {
			log.Fatalf("create %s: %v", *htmlOut, err)
		}
		if err := viz.RenderHTML(run.Name, data, f); err != nil {
			log.Fatalf("render HTML report: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("close %s: %v", *htmlOut, err)
		}
		log.Printf("wrote HTML report to %s", *htmlOut)
	}

	if *diagramOut != "" {
		points, err := persistencePoints(data, *diagramStep)
		if err != nil {
			log.Fatalf("select persistence diagram: %v", err)
		}
		if err := viz.SavePersistenceDiagram(points, *diagramOut); err != nil {
			log.Fatalf("save persistence diagram: %v", err)
		}
		log.Printf("wrote persistence diagram to %s", *diagramOut)
	}

	if *barcodeOut != "" {
		pairs, ok := data[condense.DiffusionHomologyKey]
		if !ok {
			log.Fatalf("run %s has no diffusion-homology pairs", run.Name)
		}
		if err := viz.SaveBarcode(pairs, *barcodeOut); err != nil {
			log.Fatalf("save barcode: %v", err)
		}
		log.Printf("wrote barcode to %s", *barcodeOut)
	}
}

func listRuns(store *archive.Store) {
	runs, err := store.ListRuns()
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("archive is empty")
		return
	}
	for _, run := range runs {
		fmt.Printf("%s\t%d iterations\t%s\n", run.Name, run.Iterations, run.Status)
	}
}

// persistencePoints picks the diagram of the requested iteration, or
// the last stored one when step is negative.
func persistencePoints(data condense.Result, step int) (condense.Tensor, error) {
	if step >= 0 {
		points, ok := data[fmt.Sprintf(condense.PersistencePointsKeyFormat, step)]
		if !ok {
			return condense.Tensor{}, fmt.Errorf("no persistence points for iteration %d", step)
		}
		return points, nil
	}

	last := -1
	var points condense.Tensor
	for key, tensor := range data {
		var t int
		if _, err := fmt.Sscanf(key, condense.PersistencePointsKeyFormat, &t); err != nil {
			continue
		}
		if t > last {
			last = t
			points = tensor
		}
	}
	if last < 0 {
		return condense.Tensor{}, fmt.Errorf("run stored no persistence points")
	}
	return points, nil
}
