// Package export writes tessellated meshes to files: binary STL through
// the sdfx renderer for surfaces, and JSON for the full upload format.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/knotwork/pkg/mesh"
)

// ErrNoTriangles is returned when none of the meshes has a triangle to
// write. Curves never do.
var ErrNoTriangles = errors.New("export: no triangles to write")

// minArea is the smallest doubled triangle area kept in STL output.
const minArea = 1e-12

// ToTriangles unrolls a triangle-strip mesh into sdfx triangles. Line
// strips yield nothing, and triangles without area are dropped because
// they have no normal.
func ToTriangles(m *mesh.Mesh) []*sdf.Triangle3 {
	strip := m.Triangles()
	tris := make([]*sdf.Triangle3, 0, len(strip))
	for _, idx := range strip {
		t := &sdf.Triangle3{
			toVec(m, idx[0]),
			toVec(m, idx[1]),
			toVec(m, idx[2]),
		}
		if t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() < minArea {
			continue
		}
		tris = append(tris, t)
	}
	return tris
}

func toVec(m *mesh.Mesh, i uint32) v3.Vec {
	p := m.Position(int(i))
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Triangles collects the triangles of every mesh.
func Triangles(meshes []*mesh.Mesh) []*sdf.Triangle3 {
	var tris []*sdf.Triangle3
	for _, m := range meshes {
		tris = append(tris, ToTriangles(m)...)
	}
	return tris
}

// SaveSTL writes the triangles of all meshes to a binary STL file.
func SaveSTL(path string, meshes []*mesh.Mesh) (int, error) {
	tris := Triangles(meshes)
	if len(tris) == 0 {
		return 0, ErrNoTriangles
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return 0, fmt.Errorf("export: writing %s: %w", path, err)
	}
	return len(tris), nil
}

// Bounds returns the axis-aligned box around every vertex of meshes. It
// reports false when there are no vertices.
func Bounds(meshes []*mesh.Mesh) (sdf.Box3, bool) {
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	found := false
	for _, m := range meshes {
		for i := 0; i < m.VertexCount(); i++ {
			p := toVec(m, uint32(i))
			lo = v3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
			hi = v3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
			found = true
		}
	}
	if !found {
		return sdf.Box3{}, false
	}
	return sdf.Box3{Min: lo, Max: hi}, true
}

// Document is the JSON form of a tessellated scene.
type Document struct {
	Meshes []*mesh.Mesh `json:"meshes"`
}

// WriteJSON encodes meshes as an indented Document.
func WriteJSON(w io.Writer, meshes []*mesh.Mesh) error {
	if meshes == nil {
		meshes = []*mesh.Mesh{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Meshes: meshes}); err != nil {
		return fmt.Errorf("export: encoding json: %w", err)
	}
	return nil
}
