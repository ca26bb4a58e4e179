package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/knotwork/pkg/export"
	"github.com/chazu/knotwork/pkg/nurbs"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Cleanup(func() { nurbs.SetLogger(nil) })
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunJSONToStdout(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-json", "-", "examples/arc.knot")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}

	var doc export.Document
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("stdout is not a JSON document: %v", err)
	}
	if len(doc.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(doc.Meshes))
	}
	if doc.Meshes[0].PartName != "arc" || doc.Meshes[0].VertexCount() != 64 {
		t.Errorf("first mesh %q has %d vertices, want arc with 64",
			doc.Meshes[0].PartName, doc.Meshes[0].VertexCount())
	}
}

func TestRunWritesFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "arc.json")
	stlPath := filepath.Join(dir, "arc.stl")

	code, stdout, stderr := runCLI(t, "-json", jsonPath, "-stl", stlPath, "examples/arc.knot")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}

	if _, err := os.Stat(jsonPath); err != nil {
		t.Errorf("json output missing: %v", err)
	}
	info, err := os.Stat(stlPath)
	if err != nil {
		t.Fatalf("stl output missing: %v", err)
	}
	// Binary STL: 80 byte header, uint32 count, 50 bytes per triangle.
	if info.Size() <= 84 || (info.Size()-84)%50 != 0 {
		t.Errorf("stl size %d is not a binary STL with triangles", info.Size())
	}
	if !strings.Contains(stderr, "triangles to "+stlPath) {
		t.Errorf("stderr does not report the STL write: %q", stderr)
	}
	if !strings.Contains(stdout, "wall") || !strings.Contains(stdout, "bounds") {
		t.Errorf("summary missing from stdout: %q", stdout)
	}
}

func TestRunWithConfig(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-config", "examples/knotwork.toml", "examples/saddle.knot")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "saddle") || !strings.Contains(stdout, "576 vertices") {
		t.Errorf("summary does not reflect configured divisions: %q", stdout)
	}
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.knot")
	if err := os.WriteFile(broken, []byte(`(defcurve "c" :points (list (point 0 0 0)) :frob 1)`), 0o644); err != nil {
		t.Fatal(err)
	}
	badConfig := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(badConfig, []byte("[sampling]\ncurve_samples = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		args      []string
		code      int
		errSubstr string
	}{
		{"no scene", nil, 2, "exactly one scene file"},
		{"two scenes", []string{"a.knot", "b.knot"}, 2, "exactly one scene file"},
		{"unknown flag", []string{"-frobnicate", "examples/arc.knot"}, 2, "frobnicate"},
		{"bad log level", []string{"-log-level", "loud", "examples/arc.knot"}, 2, "level"},
		{"bad config", []string{"-config", badConfig, "examples/arc.knot"}, 2, "curve_samples"},
		{"missing scene", []string{filepath.Join(dir, "nope.knot")}, 1, "nope.knot"},
		{"scene errors", []string{broken}, 1, "error:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit code %d, want %d (stderr: %s)", code, tt.code, stderr)
			}
			if !strings.Contains(stderr, tt.errSubstr) {
				t.Errorf("stderr %q does not contain %q", stderr, tt.errSubstr)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		e    EvalErrorData
		want string
	}{
		{EvalErrorData{Line: 3}, "s.knot:3"},
		{EvalErrorData{Shape: "arc"}, `s.knot: "arc"`},
		{EvalErrorData{}, "s.knot"},
	}
	for _, tt := range tests {
		if got := location("s.knot", tt.e); got != tt.want {
			t.Errorf("location(%+v) = %q, want %q", tt.e, got, tt.want)
		}
	}
}
