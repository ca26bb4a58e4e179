package mesh

import (
	"encoding/json"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangles(t *testing.T) {
	// Strip for a 3x2 sample grid, two rows stitched by degenerate triangles.
	m := &Mesh{
		Indices:  []uint32{2, 0, 3, 1, 1, 4, 4, 2, 5, 3},
		Topology: TriangleStrip,
	}
	want := [][3]uint32{{2, 0, 3}, {3, 0, 1}, {4, 2, 5}, {5, 2, 3}}

	got := m.Triangles()
	if len(got) != len(want) {
		t.Fatalf("Triangles() returned %d triangles, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("triangle %d = %v, want %v", i, got[i], want[i])
		}
	}
	if m.TriangleCount() != 4 {
		t.Errorf("TriangleCount() = %d, want 4", m.TriangleCount())
	}
}

func TestMeshLineStripCounts(t *testing.T) {
	tests := []struct {
		name     string
		indices  []uint32
		segments int
	}{
		{"empty", nil, 0},
		{"single index", []uint32{0}, 0},
		{"three points", []uint32{0, 1, 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices, Topology: LineStrip}
			if got := m.SegmentCount(); got != tt.segments {
				t.Errorf("SegmentCount() = %d, want %d", got, tt.segments)
			}
			if got := m.TriangleCount(); got != 0 {
				t.Errorf("TriangleCount() = %d for a line strip, want 0", got)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestPack(t *testing.T) {
	vertices := []Vertex{
		{Position: r3.Vec{X: 1, Y: 2, Z: 3}, Normal: r3.Vec{Z: 1}, UV: r2.Vec{X: 0.25, Y: 0.5}},
		{Position: r3.Vec{X: 4, Y: 5, Z: 6}, UV: r2.Vec{X: 0.75, Y: 1}},
	}
	indices := []uint32{0, 1}

	m := Pack(vertices, indices, LineStrip)
	indices[0] = 9 // Pack must not alias the caller's slice.

	if m.VertexCount() != 2 {
		t.Fatalf("VertexCount() = %d, want 2", m.VertexCount())
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	if len(m.UVs) != 4 {
		t.Errorf("uvs length = %d, want 4", len(m.UVs))
	}
	if got := m.Position(1); got != (r3.Vec{X: 4, Y: 5, Z: 6}) {
		t.Errorf("Position(1) = %v, want (4,5,6)", got)
	}
	if m.Normals[2] != 1 {
		t.Errorf("normal z of vertex 0 = %v, want 1", m.Normals[2])
	}
	if m.Indices[0] != 0 {
		t.Errorf("Indices[0] = %d, want 0", m.Indices[0])
	}
}

func TestTopologyJSON(t *testing.T) {
	data, err := json.Marshal(&Mesh{Topology: TriangleStrip})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Mesh
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Topology != TriangleStrip {
		t.Errorf("Topology = %v, want %v", decoded.Topology, TriangleStrip)
	}

	var topo Topology
	if err := topo.UnmarshalText([]byte("points")); err == nil {
		t.Error("expected error for unknown topology name")
	}
}
