package nurbs

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// HomoPoint is a control point in homogeneous form: a position and its
// rational weight W. A weight of 1 everywhere gives a plain B-spline.
type HomoPoint struct {
	r3.Vec
	W float64
}

// Point returns a non-rational control point.
func Point(x, y, z float64) HomoPoint {
	return HomoPoint{Vec: r3.Vec{X: x, Y: y, Z: z}, W: 1}
}

// WeightedPoint returns a control point with weight w.
func WeightedPoint(x, y, z, w float64) HomoPoint {
	return HomoPoint{Vec: r3.Vec{X: x, Y: y, Z: z}, W: w}
}

// IsFinite reports whether no component is NaN or infinite.
func (p HomoPoint) IsFinite() bool {
	for _, c := range [4]float64{p.X, p.Y, p.Z, p.W} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Grid owns the control points of a shape in one flat row-major buffer.
// Curves use a single column. Dimensions are fixed at construction.
type Grid struct {
	points []HomoPoint
	nu, nv int
}

// NewGrid allocates an nu×nv grid of zero points.
func NewGrid(nu, nv int) *Grid {
	if nu < 1 || nv < 1 {
		violate("NewGrid", "grid dimensions %dx%d must be positive", nu, nv)
	}
	return &Grid{points: make([]HomoPoint, nu*nv), nu: nu, nv: nv}
}

// Dims returns the grid dimensions.
func (g *Grid) Dims() (nu, nv int) {
	return g.nu, g.nv
}

// Len returns the number of control points.
func (g *Grid) Len() int {
	return len(g.points)
}

func (g *Grid) index(op string, i, j int) int {
	if i < 0 || i >= g.nu || j < 0 || j >= g.nv {
		violate(op, "control point (%d, %d) outside %dx%d grid", i, j, g.nu, g.nv)
	}
	return i*g.nv + j
}

// At returns the control point at (i, j).
func (g *Grid) At(i, j int) HomoPoint {
	return g.points[g.index("Grid.At", i, j)]
}

// Set replaces the control point at (i, j). Non-finite points are
// rejected as a contract violation so they can never reach evaluation.
func (g *Grid) Set(i, j int, p HomoPoint) {
	idx := g.index("Grid.Set", i, j)
	if !p.IsFinite() {
		violate("Grid.Set", "control point (%d, %d) is not finite: %v", i, j, p)
	}
	g.points[idx] = p
}

// Points returns a row-major copy of all control points.
func (g *Grid) Points() []HomoPoint {
	return append([]HomoPoint(nil), g.points...)
}
