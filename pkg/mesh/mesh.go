// Package mesh defines the renderable output of tessellation: sampled
// vertices, index buffers tagged with their topology, and the flat
// upload format consumed by renderers.
package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Topology tells a renderer how to interpret an index buffer.
type Topology int

const (
	LineStrip     Topology = iota // curves: consecutive indices form segments
	TriangleStrip                 // surfaces: rows stitched by degenerate triangles
)

func (t Topology) String() string {
	switch t {
	case LineStrip:
		return "line-strip"
	case TriangleStrip:
		return "triangle-strip"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// MarshalText encodes the topology by name so JSON consumers can select
// a draw mode without knowing the numeric values.
func (t Topology) MarshalText() ([]byte, error) {
	switch t {
	case LineStrip, TriangleStrip:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("mesh: unknown topology %d", int(t))
}

// UnmarshalText is the inverse of MarshalText.
func (t *Topology) UnmarshalText(b []byte) error {
	switch string(b) {
	case "line-strip":
		*t = LineStrip
	case "triangle-strip":
		*t = TriangleStrip
	default:
		return fmt.Errorf("mesh: unknown topology %q", b)
	}
	return nil
}

// Vertex is one sample of a curve or surface. Position is the
// dehomogenized point (its homogeneous w is always 1), Normal is only
// set for surfaces and UV holds the parameter coordinates of the sample.
type Vertex struct {
	Position r3.Vec
	Normal   r3.Vec
	UV       r2.Vec
}

// Mesh is a sampled shape in flat array form, ready for upload.
// Vertices and Normals have 3 floats per vertex, UVs has 2 and
// Indices is interpreted according to Topology.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	UVs      []float32 `json:"uvs"`      // [u0,v0, u1,v1, ...]
	Indices  []uint32  `json:"indices"`
	Topology Topology  `json:"topology"`
	PartName string    `json:"partName"` // scene name of the shape this came from
}

// Pack flattens sampled vertices and their index buffer into a Mesh.
func Pack(vertices []Vertex, indices []uint32, topology Topology) *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, len(vertices)*3),
		Normals:  make([]float32, 0, len(vertices)*3),
		UVs:      make([]float32, 0, len(vertices)*2),
		Indices:  append([]uint32(nil), indices...),
		Topology: topology,
	}
	for _, v := range vertices {
		m.Vertices = append(m.Vertices, float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z))
		m.Normals = append(m.Normals, float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z))
		m.UVs = append(m.UVs, float32(v.UV.X), float32(v.UV.Y))
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// Position returns vertex i as a vector.
func (m *Mesh) Position(i int) r3.Vec {
	return r3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// TriangleCount returns the number of non-degenerate triangles encoded
// by the index buffer. Line strips have none.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles())
}

// SegmentCount returns the number of line segments of a line strip.
func (m *Mesh) SegmentCount() int {
	if m.Topology != LineStrip || len(m.Indices) < 2 {
		return 0
	}
	return len(m.Indices) - 1
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangles unrolls a triangle strip into a triangle list. Triangles
// that repeat an index (the stitching between rows) are dropped, and
// every odd triangle is flipped so the whole list shares one winding.
func (m *Mesh) Triangles() [][3]uint32 {
	if m.Topology != TriangleStrip || len(m.Indices) < 3 {
		return nil
	}
	tris := make([][3]uint32, 0, len(m.Indices)-2)
	for k := 0; k+2 < len(m.Indices); k++ {
		a, b, c := m.Indices[k], m.Indices[k+1], m.Indices[k+2]
		if a == b || b == c || a == c {
			continue
		}
		if k%2 == 1 {
			a, b = b, a
		}
		tris = append(tris, [3]uint32{a, b, c})
	}
	return tris
}
