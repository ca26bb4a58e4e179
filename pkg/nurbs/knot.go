package nurbs

import (
	"fmt"
	"math"
)

// upperBoundScale shrinks the sampled parameter range so the last sample
// stays inside the half-open interval of the final degree-0 basis
// function, which is zero at the exact maximum knot.
const upperBoundScale = 0.99999

// normalClampScale bounds the finite-difference probes of normal
// estimation to the same half-open domain.
const normalClampScale = 0.9999

// KnotVector is a non-decreasing sequence of parameter breakpoints.
type KnotVector []float64

// Clone returns a copy of k.
func (k KnotVector) Clone() KnotVector {
	return append(KnotVector(nil), k...)
}

// DeriveDegree returns the polynomial degree implied by a knot vector of
// knotCount values over controlPoints control points. A negative result
// means the knot vector is too short.
func DeriveDegree(knotCount, controlPoints int) int {
	return knotCount - controlPoints - 1
}

// Check reports whether k is non-empty, finite and non-decreasing.
func (k KnotVector) Check() error {
	if len(k) == 0 {
		return fmt.Errorf("%w: no knots given", ErrInvalidKnotVector)
	}
	for i, knot := range k {
		if math.IsNaN(knot) || math.IsInf(knot, 0) {
			return fmt.Errorf("%w: knot %d is %v", ErrInvalidKnotVector, i, knot)
		}
		if i > 0 && knot < k[i-1] {
			return fmt.Errorf("%w: knot %d (%g) is smaller than knot %d (%g)", ErrInvalidKnotVector, i, knot, i-1, k[i-1])
		}
	}
	return nil
}

// IsNonDecreasing reports whether every knot is at least its predecessor.
func (k KnotVector) IsNonDecreasing() bool {
	for i := 1; i < len(k); i++ {
		if k[i] < k[i-1] {
			return false
		}
	}
	return true
}

// Normalized returns k rescaled into [0,1]. A vector whose knots are all
// equal maps to zeros.
func (k KnotVector) Normalized() KnotVector {
	out := make(KnotVector, len(k))
	if len(k) == 0 {
		return out
	}
	lo, hi := k[0], k[len(k)-1]
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, knot := range k {
		out[i] = (knot - lo) / span
	}
	return out
}

// Domain returns the valid parameter interval [min, max) for a shape of
// the given degree: knots[degree] and knots[len-1-degree].
func (k KnotVector) Domain(degree int) (min, max float64) {
	return k[degree], k[len(k)-1-degree]
}

// IsClamped reports whether the first and last degree+1 knots coincide,
// which makes the shape interpolate its end control points.
func (k KnotVector) IsClamped(degree int) bool {
	if degree < 0 || len(k) < 2*(degree+1) {
		return false
	}
	for i := 1; i <= degree; i++ {
		if k[i] != k[0] || k[len(k)-1-i] != k[len(k)-1] {
			return false
		}
	}
	return true
}

// KnotMultiplicity is a distinct knot value and how often it occurs.
type KnotMultiplicity struct {
	Knot float64
	Mult int
}

// Multiplicities groups equal consecutive knots.
func (k KnotVector) Multiplicities() []KnotMultiplicity {
	var mults []KnotMultiplicity
	for _, knot := range k {
		if n := len(mults); n > 0 && mults[n-1].Knot == knot {
			mults[n-1].Mult++
			continue
		}
		mults = append(mults, KnotMultiplicity{Knot: knot, Mult: 1})
	}
	return mults
}

// ClampedKnots returns a clamped uniform knot vector over [0,1] for the
// given degree and number of control points: degree+1 zeros, evenly
// spaced interior knots and degree+1 ones.
func ClampedKnots(degree, controlPoints int) (KnotVector, error) {
	if degree < 0 {
		return nil, fmt.Errorf("%w: degree %d", ErrDegreeUnderflow, degree)
	}
	if controlPoints < degree+1 {
		return nil, fmt.Errorf("%w: degree %d needs at least %d control points, got %d",
			ErrInvalidControlPointCount, degree, degree+1, controlPoints)
	}
	n := controlPoints + degree + 1
	k := make(KnotVector, n)
	segments := controlPoints - degree
	for i := range k {
		switch {
		case i <= degree:
			k[i] = 0
		case i >= controlPoints:
			k[i] = 1
		default:
			k[i] = float64(i-degree) / float64(segments)
		}
	}
	return k, nil
}

// knotSlot is the knot vector of one parametric direction together with
// the control point count it is validated against.
type knotSlot struct {
	knots         KnotVector
	degree        int
	controlPoints int
}

func newKnotSlot(controlPoints int) knotSlot {
	return knotSlot{degree: -1, controlPoints: controlPoints}
}

// set validates values and, on success, stores their normalized copy.
// On failure the slot is left untouched.
func (s *knotSlot) set(values []float64) error {
	k := KnotVector(values)
	if err := k.Check(); err != nil {
		return err
	}
	degree := DeriveDegree(len(k), s.controlPoints)
	if degree < 0 {
		return fmt.Errorf("%w: %d control points need more than %d knots, got %d",
			ErrDegreeUnderflow, s.controlPoints, s.controlPoints, len(k))
	}
	s.knots = k.Normalized()
	s.degree = degree
	return nil
}

func (s *knotSlot) ready() bool {
	return s.degree >= 0
}

// sampleRange returns the first sampled parameter and the length of the
// sampled interval.
func (s *knotSlot) sampleRange() (min, delta float64) {
	lo, hi := s.knots.Domain(s.degree)
	return lo, (hi - lo) * upperBoundScale
}

// clamp keeps a finite-difference probe inside the evaluable domain.
func (s *knotSlot) clamp(t float64) float64 {
	lo, hi := s.knots.Domain(s.degree)
	hi = lo + (hi-lo)*normalClampScale
	return math.Max(lo, math.Min(hi, t))
}
