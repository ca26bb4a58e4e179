package nurbs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// sampleParam maps sample i of count onto [min, min+delta].
func sampleParam(i, count int, min, delta float64) float64 {
	return min + float64(i)/float64(count-1)*delta
}

func checkSampleCount(what string, n int) error {
	if n < 2 {
		return fmt.Errorf("%w: %s is %d", ErrInvalidDiscretization, what, n)
	}
	if n > MaxVertices {
		return fmt.Errorf("%w: %s is %d, limit %d", ErrTooManySamples, what, n, MaxVertices)
	}
	return nil
}

// checkGridSize bounds the vertex count of a du×dv sampling grid.
func checkGridSize(du, dv int) error {
	if err := checkSampleCount("u divisions", du); err != nil {
		return err
	}
	if err := checkSampleCount("v divisions", dv); err != nil {
		return err
	}
	if n := int64(du) * int64(dv); n > MaxVertices {
		return fmt.Errorf("%w: %dx%d divisions make %d vertices, limit %d",
			ErrTooManySamples, du, dv, n, MaxVertices)
	}
	return nil
}

// lineStripIndices returns 0..count-1.
func lineStripIndices(count int) []uint32 {
	indices := make([]uint32, count)
	for i := range indices {
		indices[i] = uint32(i)
	}
	return indices
}

// stripIndices builds a single triangle strip over a du×dv sample grid
// stored row-major (index = i*dv + j). Each row pair is walked as
// alternating (i+1, j), (i, j) indices; rows are joined by repeating the
// last index of one row and the first of the next, which inserts
// zero-area triangles instead of restarting the strip.
func stripIndices(du, dv int) []uint32 {
	if du < 2 || dv < 1 {
		return nil
	}
	index := func(u, v int) uint32 { return uint32(u*dv + v) }

	indices := make([]uint32, 0, 2*(du-1)*dv+2*(du-2))
	for i := 0; i < du-1; i++ {
		if i != 0 {
			indices = append(indices, index(i+1, 0))
		}
		for j := 0; j < dv; j++ {
			indices = append(indices, index(i+1, j), index(i, j))
		}
		if i < du-2 {
			indices = append(indices, index(i, dv-1))
		}
	}
	return indices
}

// guardParam rejects NaN and infinite parameters before they can
// silently zero every basis function.
func guardParam(op string, name string, t float64) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		violate(op, "parameter %s is %v", name, t)
	}
}

func guardFinite(op string, what string, x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		violate(op, "%s is %v", what, x)
	}
}

// rationalize divides the weighted sum by the total weight. A zero
// denominator, which happens outside the parameter domain, yields the
// zero vector.
func rationalize(op string, num r3.Vec, den float64) HomoPoint {
	if den != 0 {
		num = r3.Vec{X: num.X / den, Y: num.Y / den, Z: num.Z / den}
	}
	p := HomoPoint{Vec: num, W: 1}
	if !p.IsFinite() {
		violate(op, "evaluated point %v is not finite", p.Vec)
	}
	return p
}

// unit returns v scaled to length 1, or the zero vector when v has no
// length.
func unit(v r3.Vec) r3.Vec {
	l := r3.Norm(v)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, v)
}
