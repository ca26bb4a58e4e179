package nurbs

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/knotwork/pkg/mesh"
)

// Curve is a NURBS curve over a fixed number of control points.
type Curve struct {
	points  *Grid
	knots   knotSlot
	samples int
}

// NewCurve creates an unconfigured curve with n zero control points.
// Set the control points and a knot vector before sampling it.
func NewCurve(n int, opts ...Option) (*Curve, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidControlPointCount, n)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkSampleCount("curve samples", o.samples); err != nil {
		return nil, err
	}
	return &Curve{
		points:  NewGrid(n, 1),
		knots:   newKnotSlot(n),
		samples: o.samples,
	}, nil
}

func (c *Curve) shape() {}

// Kind returns KindCurve.
func (c *Curve) Kind() Kind { return KindCurve }

// State reports whether a knot vector has been accepted.
func (c *Curve) State() State {
	if c.knots.ready() {
		return Ready
	}
	return Uninitialized
}

// SetControlPoint replaces control point i.
func (c *Curve) SetControlPoint(i int, p HomoPoint) {
	c.points.Set(i, 0, p)
}

// ControlPoint returns control point i.
func (c *Curve) ControlPoint(i int) HomoPoint {
	return c.points.At(i, 0)
}

// ControlPoints returns a copy of the control points.
func (c *Curve) ControlPoints() []HomoPoint {
	return c.points.Points()
}

// NumControlPoints returns the number of control points.
func (c *Curve) NumControlPoints() int {
	return c.points.Len()
}

// SetKnotVector validates knots against the control point count and, on
// success, stores a normalized copy and derives the degree. On failure
// the previous knot vector and degree are kept.
func (c *Curve) SetKnotVector(knots []float64) error {
	if err := c.knots.set(knots); err != nil {
		Logger().Warn("rejected knot vector", "shape", KindCurve, "err", err)
		return err
	}
	return nil
}

// Degree returns the derived degree, or -1 before a knot vector is set.
func (c *Curve) Degree() int { return c.knots.degree }

// Order returns degree+1.
func (c *Curve) Order() int { return c.knots.degree + 1 }

// KnotVectorSize returns the number of stored knots.
func (c *Curve) KnotVectorSize() int { return len(c.knots.knots) }

// Knots returns a copy of the normalized knot vector.
func (c *Curve) Knots() KnotVector { return c.knots.knots.Clone() }

// Samples returns the number of vertices MeshData produces.
func (c *Curve) Samples() int { return c.samples }

// Domain returns the valid parameter interval [min, max).
func (c *Curve) Domain() (min, max float64, err error) {
	if !c.knots.ready() {
		return 0, 0, ErrNotReady
	}
	min, max = c.knots.knots.Domain(c.knots.degree)
	return min, max, nil
}

// Evaluate returns the curve point at u; v is ignored. The valid domain
// is [knots[degree], knots[len-1-degree]).
func (c *Curve) Evaluate(u, _ float64) (HomoPoint, error) {
	if !c.knots.ready() {
		return HomoPoint{}, ErrNotReady
	}
	return c.evaluate(u), nil
}

func (c *Curve) evaluate(u float64) HomoPoint {
	const op = "Curve.Evaluate"
	guardParam(op, "u", u)

	basis := BasisFunctions(c.knots.degree, u, c.knots.knots)
	var num r3.Vec
	var den float64
	for i, b := range basis {
		cp := c.points.At(i, 0)
		wb := cp.W * b
		guardFinite(op, "weighted basis", wb)
		num = r3.Add(num, r3.Scale(wb, cp.Vec))
		den += wb
	}
	return rationalize(op, num, den)
}

// MeshData samples the curve at Samples() parameters spread over its
// domain. Each vertex stores its parameter as UV (u, u).
func (c *Curve) MeshData() ([]mesh.Vertex, error) {
	if !c.knots.ready() {
		Logger().Warn("invalid knot vector, returning empty mesh", "shape", KindCurve)
		return []mesh.Vertex{}, ErrNotReady
	}
	min, delta := c.knots.sampleRange()
	Logger().Debug("sampling curve", "samples", c.samples, "degree", c.knots.degree)

	vertices := make([]mesh.Vertex, c.samples)
	for i := range vertices {
		u := sampleParam(i, c.samples, min, delta)
		vertices[i] = mesh.Vertex{
			Position: c.evaluate(u).Vec,
			UV:       r2.Vec{X: u, Y: u},
		}
	}
	return vertices, nil
}

// MeshIndices returns the line strip 0..Samples()-1.
func (c *Curve) MeshIndices() ([]uint32, error) {
	if !c.knots.ready() {
		return []uint32{}, ErrNotReady
	}
	return lineStripIndices(c.samples), nil
}

// PrimitiveType returns mesh.LineStrip.
func (c *Curve) PrimitiveType() mesh.Topology {
	return mesh.LineStrip
}
