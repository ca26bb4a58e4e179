package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chazu/knotwork/pkg/config"
	"github.com/chazu/knotwork/pkg/engine"
	"github.com/chazu/knotwork/pkg/mesh"
	"github.com/chazu/knotwork/pkg/nurbs"
	"github.com/chazu/knotwork/pkg/scene"
	"github.com/chazu/knotwork/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to shapes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App binds the scene pipeline for callers that only deal in source
// text and JSON: the CLI, and any renderer host that embeds it.
type App struct {
	engine *engine.Engine
	logger *slog.Logger
}

// MeshData is one tessellated shape with its display color.
type MeshData struct {
	*mesh.Mesh
	Color string `json:"color"`
}

// EvalErrorData is a JSON-serializable evaluation error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Shape   string `json:"shape,omitempty"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a scene.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
	Version  uint64          `json:"version"`
}

// RawMeshes returns the meshes without their colors.
func (r EvalResult) RawMeshes() []*mesh.Mesh {
	out := make([]*mesh.Mesh, len(r.Meshes))
	for i, m := range r.Meshes {
		out[i] = m.Mesh
	}
	return out
}

// NewApp creates an App whose engine follows cfg. A nil logger discards
// output.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.Timeout()),
			engine.WithDefaults(cfg.SceneDefaults()),
		),
		logger: logger,
	}
}

// Evaluate takes scene source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate bounded by ctx.
func (a *App) EvaluateContext(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into a scene.
	sc, evalErrs, err := a.engine.EvaluateContext(ctx, source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.logger.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.Version = sc.Version

	// Step 2: Validate. Warnings are reported but do not block.
	vr := scene.ValidateAll(sc)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Shape: w.Name, Message: w.Message})
	}
	if !vr.OK() {
		for _, e := range vr.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Shape: e.Name, Message: e.Message})
		}
		return result
	}

	// Step 3: Sample every shape.
	meshes, err := sampleScene(sc)
	if err != nil {
		a.logger.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Mesh:  m,
			Color: colorPalette[i%len(colorPalette)],
		})
	}
	a.logger.Debug("scene evaluated", "version", sc.Version,
		"curves", len(sc.Curves()), "surfaces", len(sc.Surfaces()),
		"warnings", len(result.Warnings))
	return result
}

// sampleScene tessellates sc, turning a contract violation raised while
// sampling into an error.
func sampleScene(sc *scene.Scene) (meshes []*mesh.Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			if cv, ok := r.(*nurbs.ContractViolation); ok {
				err = cv
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return tessellate.Tessellate(sc)
}
