// Package tessellate samples every shape of a scene into a flat mesh.
// One mesh is produced per shape, in declaration order.
package tessellate

import (
	"fmt"

	"github.com/chazu/knotwork/pkg/mesh"
	"github.com/chazu/knotwork/pkg/nurbs"
	"github.com/chazu/knotwork/pkg/scene"
)

// Tessellate samples each shape of the scene and packs the result. The
// tessellator is read-only and never mutates the scene or its shapes.
// Shapes that are not ready abort tessellation; run scene.ValidateAll
// first to report them all at once.
func Tessellate(sc *scene.Scene) ([]*mesh.Mesh, error) {
	if sc == nil {
		return nil, nil
	}

	meshes := make([]*mesh.Mesh, 0, sc.Len())
	for _, e := range sc.Entries {
		m, err := Shape(e.Name, e.Shape)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Shape samples a single shape and names the resulting mesh.
func Shape(name string, shape nurbs.Shape) (*mesh.Mesh, error) {
	vertices, err := shape.MeshData()
	if err != nil {
		return nil, fmt.Errorf("tessellate: MeshData failed for %s %q: %w", shape.Kind(), name, err)
	}
	indices, err := shape.MeshIndices()
	if err != nil {
		return nil, fmt.Errorf("tessellate: MeshIndices failed for %s %q: %w", shape.Kind(), name, err)
	}

	m := mesh.Pack(vertices, indices, shape.PrimitiveType())
	m.PartName = name
	return m, nil
}
