package nurbs

import (
	"fmt"

	"github.com/chazu/knotwork/pkg/mesh"
)

// Kind distinguishes the two shape variants.
type Kind int

const (
	KindCurve Kind = iota
	KindSurface
)

func (k Kind) String() string {
	switch k {
	case KindCurve:
		return "curve"
	case KindSurface:
		return "surface"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is the configuration state of a shape.
type State int

const (
	Uninitialized State = iota // no accepted knot vector, degree -1
	Ready                      // every knot vector accepted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Shape is the capability shared by [*Curve] and [*Surface]. The set of
// implementations is closed; use Kind or a type switch to tell them apart.
type Shape interface {
	Kind() Kind
	State() State

	// Evaluate returns the point at (u, v). Curves ignore v.
	Evaluate(u, v float64) (HomoPoint, error)

	// MeshData samples the shape. An unconfigured shape yields no
	// vertices and ErrNotReady.
	MeshData() ([]mesh.Vertex, error)

	// MeshIndices returns the index buffer matching MeshData.
	MeshIndices() ([]uint32, error)

	// PrimitiveType reports how MeshIndices is to be drawn.
	PrimitiveType() mesh.Topology

	// ControlPoints returns the control points in row-major order.
	ControlPoints() []HomoPoint

	shape() // restricts implementations to this package
}

var (
	_ Shape = (*Curve)(nil)
	_ Shape = (*Surface)(nil)
)
