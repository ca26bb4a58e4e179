// Command knotwork evaluates a NURBS scene script and writes the sampled
// meshes as JSON or STL.
//
// Usage:
//
//	knotwork [-config knotwork.toml] [-json out.json] [-stl out.stl] [-watch] scene.knot
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chazu/knotwork/pkg/config"
	"github.com/chazu/knotwork/pkg/export"
	"github.com/chazu/knotwork/pkg/nurbs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options are the parsed command line flags.
type options struct {
	configPath string
	jsonPath   string
	stlPath    string
	logLevel   string
	watch      bool
	scenePath  string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("knotwork", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "TOML configuration file")
	fs.StringVar(&o.jsonPath, "json", "", "write meshes as JSON to `file` (- for stdout)")
	fs.StringVar(&o.stlPath, "stl", "", "write surface triangles as binary STL to `file`")
	fs.StringVar(&o.logLevel, "log-level", "", "override the configured log level")
	fs.BoolVar(&o.watch, "watch", false, "re-evaluate whenever the scene file changes")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: knotwork [flags] scene.knot")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, errors.New("expected exactly one scene file")
	}
	o.scenePath = fs.Arg(0)
	return o, nil
}

func loadConfig(o options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "knotwork:", err)
		return 2
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintln(stderr, "knotwork:", err)
		return 2
	}
	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	nurbs.SetLogger(logger.With("pkg", "nurbs"))

	app := NewApp(cfg, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !o.watch {
		if err := render(ctx, app, o, stdout, stderr); err != nil {
			fmt.Fprintln(stderr, "knotwork:", err)
			return 1
		}
		return 0
	}

	err = watchFile(ctx, o.scenePath, cfg.Debounce(), logger, func() {
		if err := render(ctx, app, o, stdout, stderr); err != nil {
			fmt.Fprintln(stderr, "knotwork:", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "knotwork:", err)
		return 1
	}
	return 0
}

// errScene is returned when the scene evaluated with errors; they have
// already been printed.
var errScene = errors.New("scene has errors")

// render evaluates the scene file once and writes the requested outputs.
func render(ctx context.Context, app *App, o options, stdout, stderr io.Writer) error {
	source, err := os.ReadFile(o.scenePath)
	if err != nil {
		return err
	}

	result := app.EvaluateContext(ctx, string(source))
	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "%s: warning: %s\n", location(o.scenePath, w), w.Message)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(stderr, "%s: error: %s\n", location(o.scenePath, e), e.Message)
	}
	if len(result.Errors) > 0 {
		return errScene
	}

	meshes := result.RawMeshes()
	if o.jsonPath != "" {
		if err := writeJSON(o.jsonPath, stdout, result); err != nil {
			return err
		}
	}
	if o.stlPath != "" {
		n, err := export.SaveSTL(o.stlPath, meshes)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "wrote %d triangles to %s\n", n, o.stlPath)
	}
	if o.jsonPath != "-" {
		printSummary(stdout, result)
	}
	return nil
}

func location(path string, e EvalErrorData) string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d", path, e.Line)
	case e.Shape != "":
		return fmt.Sprintf("%s: %q", path, e.Shape)
	}
	return path
}

func writeJSON(path string, stdout io.Writer, result EvalResult) error {
	if path == "-" {
		return export.WriteJSON(stdout, result.RawMeshes())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteJSON(f, result.RawMeshes()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, result EvalResult) {
	for _, m := range result.Meshes {
		fmt.Fprintf(w, "%-16s %-14s %6d vertices %6d indices %6d triangles\n",
			m.PartName, m.Topology, m.VertexCount(), len(m.Indices), m.TriangleCount())
	}
	if box, ok := export.Bounds(result.RawMeshes()); ok {
		fmt.Fprintf(w, "bounds %.4g,%.4g,%.4g .. %.4g,%.4g,%.4g\n",
			box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z)
	}
}
