package viz

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/topodyn/condense/internal/condense"
)

func fullRun() condense.Result {
	data := twoPointRun()
	data[DiffusionPairsKey] = condense.Tensor{
		Shape: []int{1, 2},
		Data:  []float64{0, 1},
	}
	data[fmt.Sprintf(condense.PersistencePointsKeyFormat, 0)] = condense.Tensor{
		Shape: []int{2, 3},
		Data: []float64{
			0, 4, 0,
			1, 2, 1,
		},
	}
	return data
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML("square_n4", fullRun(), &buf); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"condensation run square_n4",
		"Condensation trajectory",
		"Connected components over diffusion time",
		"Persistence diagram",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report is missing %q", want)
		}
	}
}

func TestRenderHTMLTrajectoryOnly(t *testing.T) {
	// Without homology output the report degrades to the trajectory
	// chart alone.
	var buf bytes.Buffer
	if err := RenderHTML("bare", twoPointRun(), &buf); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "Connected components") || strings.Contains(html, "Persistence diagram") {
		t.Error("report includes homology charts for a run without homology output")
	}
}

func TestRenderHTMLMissingTrajectory(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML("empty", condense.Result{}, &buf); err == nil {
		t.Fatal("RenderHTML accepted a result without a trajectory")
	}
}

func TestPersistenceScatterPicksLastStep(t *testing.T) {
	data := fullRun()
	data[fmt.Sprintf(condense.PersistencePointsKeyFormat, 7)] = condense.Tensor{
		Shape: []int{1, 3},
		Data:  []float64{0, 0.5, 0},
	}

	chart := persistenceScatter(data)
	if chart == nil {
		t.Fatal("persistenceScatter returned nil")
	}
	if got := chart.Title.Subtitle; got != "iteration 7" {
		t.Errorf("subtitle = %q, want \"iteration 7\"", got)
	}
}
