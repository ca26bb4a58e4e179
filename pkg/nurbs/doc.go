// Package nurbs evaluates non-uniform rational B-spline curves and
// surfaces and samples them into mesh data.
//
// A shape is created with a fixed number of control points and becomes
// usable once a knot vector has been accepted. The degree is never set
// directly; it is derived from the knot count:
//
//	degree = len(knots) - controlPoints - 1
//
// Knot vectors are stored min-max normalized into [0,1] for both curves
// and surfaces, so the parameter domain of every shape lies inside the
// unit interval.
//
// Errors come in two tiers. Configuration problems (a decreasing knot
// sequence, a knot vector that is too short, sampling an unconfigured
// shape) are returned as errors wrapping the sentinel values in this
// package. Broken preconditions, such as an out-of-range control point
// index or a NaN produced during evaluation, panic with a
// [*ContractViolation]; they indicate a bug in the caller.
//
// Shapes are not safe for concurrent use. Callers that share a shape
// between goroutines must serialize access themselves.
package nurbs
