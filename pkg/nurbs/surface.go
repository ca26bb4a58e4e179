package nurbs

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/knotwork/pkg/mesh"
)

// Surface is a tensor-product NURBS surface over an nu×nv control grid.
type Surface struct {
	points     *Grid
	knotsU     knotSlot
	knotsV     knotSlot
	divisionsU int
	divisionsV int
}

// NewSurface creates an unconfigured surface with an nu×nv grid of zero
// control points. Both knot vectors must be set before it can be sampled.
func NewSurface(nu, nv int, opts ...Option) (*Surface, error) {
	if nu < 1 || nv < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidControlPointCount, nu, nv)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkGridSize(o.divisionsU, o.divisionsV); err != nil {
		return nil, err
	}
	return &Surface{
		points:     NewGrid(nu, nv),
		knotsU:     newKnotSlot(nu),
		knotsV:     newKnotSlot(nv),
		divisionsU: o.divisionsU,
		divisionsV: o.divisionsV,
	}, nil
}

func (s *Surface) shape() {}

// Kind returns KindSurface.
func (s *Surface) Kind() Kind { return KindSurface }

// State is Ready once both knot vectors have been accepted.
func (s *Surface) State() State {
	if s.ready() {
		return Ready
	}
	return Uninitialized
}

func (s *Surface) ready() bool {
	return s.knotsU.ready() && s.knotsV.ready()
}

// SetControlPoint replaces the control point at (u, v).
func (s *Surface) SetControlPoint(u, v int, p HomoPoint) {
	s.points.Set(u, v, p)
}

// ControlPoint returns the control point at (u, v).
func (s *Surface) ControlPoint(u, v int) HomoPoint {
	return s.points.At(u, v)
}

// ControlPoints returns a row-major copy of the control grid.
func (s *Surface) ControlPoints() []HomoPoint {
	return s.points.Points()
}

// NumControlPoints returns the grid dimensions.
func (s *Surface) NumControlPoints() (nu, nv int) {
	return s.points.Dims()
}

// SetKnotVectorU sets the knot vector of the u direction.
func (s *Surface) SetKnotVectorU(knots []float64) error {
	return s.setKnots(&s.knotsU, "u", knots)
}

// SetKnotVectorV sets the knot vector of the v direction.
func (s *Surface) SetKnotVectorV(knots []float64) error {
	return s.setKnots(&s.knotsV, "v", knots)
}

func (s *Surface) setKnots(slot *knotSlot, dir string, knots []float64) error {
	if err := slot.set(knots); err != nil {
		Logger().Warn("rejected knot vector", "shape", KindSurface, "direction", dir, "err", err)
		return fmt.Errorf("%s direction: %w", dir, err)
	}
	return nil
}

// DegreeU returns the u degree, or -1 before its knot vector is set.
func (s *Surface) DegreeU() int { return s.knotsU.degree }

// DegreeV returns the v degree, or -1 before its knot vector is set.
func (s *Surface) DegreeV() int { return s.knotsV.degree }

// OrderU returns DegreeU()+1.
func (s *Surface) OrderU() int { return s.knotsU.degree + 1 }

// OrderV returns DegreeV()+1.
func (s *Surface) OrderV() int { return s.knotsV.degree + 1 }

// KnotsU returns a copy of the normalized u knot vector.
func (s *Surface) KnotsU() KnotVector { return s.knotsU.knots.Clone() }

// KnotsV returns a copy of the normalized v knot vector.
func (s *Surface) KnotsV() KnotVector { return s.knotsV.knots.Clone() }

// Divisions returns the sampling grid size.
func (s *Surface) Divisions() (u, v int) { return s.divisionsU, s.divisionsV }

// Evaluate returns the surface point at (u, v).
func (s *Surface) Evaluate(u, v float64) (HomoPoint, error) {
	if !s.ready() {
		return HomoPoint{}, ErrNotReady
	}
	return s.evaluate(u, v), nil
}

func (s *Surface) evaluate(u, v float64) HomoPoint {
	const op = "Surface.Evaluate"
	guardParam(op, "u", u)
	guardParam(op, "v", v)

	bu := BasisFunctions(s.knotsU.degree, u, s.knotsU.knots)
	bv := BasisFunctions(s.knotsV.degree, v, s.knotsV.knots)

	var num r3.Vec
	var den float64
	for i, bi := range bu {
		for j, bj := range bv {
			cp := s.points.At(i, j)
			wb := cp.W * bi * bj
			guardFinite(op, "weighted basis", wb)
			num = r3.Add(num, r3.Scale(wb, cp.Vec))
			den += wb
		}
	}
	return rationalize(op, num, den)
}

// EvaluateNormal estimates the unit surface normal at (u, v) from
// central differences. The step is a tenth of the sampling spacing in
// each direction and probes are clamped to the domain. Where the
// tangents are parallel or vanish the zero vector is returned.
func (s *Surface) EvaluateNormal(u, v float64) (r3.Vec, error) {
	if !s.ready() {
		return r3.Vec{}, ErrNotReady
	}
	return s.normal(u, v), nil
}

func (s *Surface) normal(u, v float64) r3.Vec {
	deltaU := 0.1 / float64(s.divisionsU-1)
	deltaV := 0.1 / float64(s.divisionsV-1)

	u0, u1 := s.knotsU.clamp(u-deltaU), s.knotsU.clamp(u+deltaU)
	v0, v1 := s.knotsV.clamp(v-deltaV), s.knotsV.clamp(v+deltaV)

	tangentU := r3.Sub(s.evaluate(u1, v).Vec, s.evaluate(u0, v).Vec)
	tangentV := r3.Sub(s.evaluate(u, v1).Vec, s.evaluate(u, v0).Vec)

	n := unit(r3.Cross(unit(tangentV), unit(tangentU)))
	if n == (r3.Vec{}) {
		Logger().Debug("degenerate surface normal", "u", u, "v", v)
	}
	return n
}

// MeshData samples the surface on its divisions grid, row-major in u.
// Each vertex carries its position, estimated normal and (u, v).
func (s *Surface) MeshData() ([]mesh.Vertex, error) {
	if !s.ready() {
		Logger().Warn("invalid knot vector, returning empty mesh", "shape", KindSurface)
		return []mesh.Vertex{}, ErrNotReady
	}
	minU, deltaU := s.knotsU.sampleRange()
	minV, deltaV := s.knotsV.sampleRange()
	Logger().Debug("sampling surface", "divisionsU", s.divisionsU, "divisionsV", s.divisionsV,
		"degreeU", s.knotsU.degree, "degreeV", s.knotsV.degree)

	vertices := make([]mesh.Vertex, 0, s.divisionsU*s.divisionsV)
	for i := 0; i < s.divisionsU; i++ {
		u := sampleParam(i, s.divisionsU, minU, deltaU)
		for j := 0; j < s.divisionsV; j++ {
			v := sampleParam(j, s.divisionsV, minV, deltaV)
			vertices = append(vertices, mesh.Vertex{
				Position: s.evaluate(u, v).Vec,
				Normal:   s.normal(u, v),
				UV:       r2.Vec{X: u, Y: v},
			})
		}
	}
	return vertices, nil
}

// MeshIndices returns one triangle strip over the sample grid with
// degenerate triangles joining consecutive rows.
func (s *Surface) MeshIndices() ([]uint32, error) {
	if !s.ready() {
		return []uint32{}, ErrNotReady
	}
	return stripIndices(s.divisionsU, s.divisionsV), nil
}

// PrimitiveType returns mesh.TriangleStrip.
func (s *Surface) PrimitiveType() mesh.Topology {
	return mesh.TriangleStrip
}
