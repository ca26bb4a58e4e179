package main

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/chazu/knotwork/pkg/config"
	"github.com/chazu/knotwork/pkg/mesh"
)

func readExample(t *testing.T, name string) string {
	t.Helper()
	source, err := os.ReadFile("examples/" + name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(source)
}

func failOnErrors(t *testing.T, result EvalResult) {
	t.Helper()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d, shape %q): %s", e.Line, e.Shape, e.Message)
		}
		t.FailNow()
	}
}

// TestE2EArcExample exercises the full pipeline: source → engine → scene
// → validation → tessellation → meshes.
func TestE2EArcExample(t *testing.T) {
	app := NewApp(nil, nil)
	result := app.Evaluate(readExample(t, "arc.knot"))
	failOnErrors(t, result)

	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(result.Meshes))
	}

	arc, wall := result.Meshes[0], result.Meshes[1]
	if arc.PartName != "arc" || wall.PartName != "wall" {
		t.Fatalf("part names = %q, %q; want arc, wall", arc.PartName, wall.PartName)
	}

	if arc.Topology != mesh.LineStrip || arc.VertexCount() != 64 {
		t.Errorf("arc: %v with %d vertices, want line-strip with 64", arc.Topology, arc.VertexCount())
	}
	for i := 0; i < arc.VertexCount(); i++ {
		p := arc.Position(i)
		if r := math.Hypot(p.X, p.Y); math.Abs(r-1) > 1e-5 {
			t.Fatalf("arc vertex %d at radius %v, want 1", i, r)
		}
	}

	if wall.Topology != mesh.TriangleStrip || wall.VertexCount() != 64 {
		t.Errorf("wall: %v with %d vertices, want triangle-strip with 64", wall.Topology, wall.VertexCount())
	}
	if want := 2*15*4 + 2*14; len(wall.Indices) != want {
		t.Errorf("wall has %d indices, want %d", len(wall.Indices), want)
	}
	for i := 0; i < wall.VertexCount(); i++ {
		nz := wall.Normals[3*i+2]
		if math.Abs(float64(nz)) > 1e-5 {
			t.Fatalf("wall normal %d has z=%v, want horizontal normals", i, nz)
		}
	}

	for _, m := range result.Meshes {
		if m.Color == "" {
			t.Errorf("shape %q: no color assigned", m.PartName)
		}
	}
}

func TestE2ESaddleUsesConfiguredDivisions(t *testing.T) {
	cfg, err := config.Load("examples/knotwork.toml")
	if err != nil {
		t.Fatalf("loading example config: %v", err)
	}
	app := NewApp(cfg, nil)
	result := app.Evaluate(readExample(t, "saddle.knot"))
	failOnErrors(t, result)

	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(result.Meshes))
	}
	if got := result.Meshes[0].VertexCount(); got != 24*24 {
		t.Errorf("saddle has %d vertices, want %d", got, 24*24)
	}
	if got := result.Meshes[1].VertexCount(); got != 128 {
		t.Errorf("ridge has %d vertices, want 128", got)
	}
}

func TestE2EEmptySource(t *testing.T) {
	result := NewApp(nil, nil).Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "no shapes") {
		t.Errorf("expected an empty-scene warning, got %v", result.Warnings)
	}
	// Slices must be non-nil so JSON has [] rather than null.
	if result.Meshes == nil || result.Errors == nil || result.Warnings == nil {
		t.Error("result slices should be non-nil")
	}
}

func TestE2ESyntaxError(t *testing.T) {
	result := NewApp(nil, nil).Evaluate("(+ 1 2)\n(defcurve \"c\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if result.Errors[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

func TestE2EBuiltinErrorReported(t *testing.T) {
	source := `(defcurve "c" :points (list (point 0 0 0) (point 1 0 0)) :knots [0 1])`
	result := NewApp(nil, nil).Evaluate(source)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a short knot vector")
	}
	if !strings.Contains(result.Errors[0].Message, "too short") {
		t.Errorf("error %q does not explain the knot vector problem", result.Errors[0].Message)
	}
}

func TestE2EValidationWarningsDoNotBlock(t *testing.T) {
	source := `
(defcurve "loose"
  :points (list (point 0 0 0) (point 1 1 0) (point 2 0 0))
  :knots [0 1 2 3 4 5])
`
	result := NewApp(nil, nil).Evaluate(source)
	failOnErrors(t, result)
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	found := false
	for _, w := range result.Warnings {
		if w.Shape == "loose" && strings.Contains(w.Message, "not clamped") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unclamped warning for %q, got %v", "loose", result.Warnings)
	}
}

func TestE2EOverflowingPointsReportedAsError(t *testing.T) {
	source := `(defcurve "big"
  :points (list (point 1e200 1e200 1e200 1e200) (point 1e200 0 0))
  :samples 4)`

	var result EvalResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Evaluate panicked: %v", r)
			}
		}()
		result = NewApp(nil, nil).Evaluate(source)
	}()

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if msg := result.Errors[0].Message; !strings.Contains(msg, "not finite") {
		t.Errorf("error %q does not name the non-finite point", msg)
	}
	if result.Meshes == nil || len(result.Meshes) != 0 {
		t.Errorf("expected an empty, non-nil mesh list, got %v", result.Meshes)
	}
}

func TestE2EVersionIncreases(t *testing.T) {
	app := NewApp(nil, nil)
	src := `(defcurve "c" :points (list (point 0 0 0) (point 1 0 0)))`
	first := app.Evaluate(src)
	second := app.Evaluate(src)
	if second.Version <= first.Version {
		t.Errorf("versions %d then %d, want increasing", first.Version, second.Version)
	}
}
