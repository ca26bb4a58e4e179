package nurbs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKnotVector is returned when a knot vector is empty,
	// decreasing or contains a non-finite value.
	ErrInvalidKnotVector = errors.New("knot vector must be a non-empty, non-decreasing sequence of finite values")

	// ErrDegreeUnderflow is returned when the knot vector is too short
	// for the number of control points, i.e. the derived degree is negative.
	ErrDegreeUnderflow = errors.New("knot vector too short for the number of control points")

	// ErrNotReady is returned when a shape is evaluated or sampled before
	// a valid knot vector has been set.
	ErrNotReady = errors.New("shape has no valid knot vector")

	// ErrInvalidDiscretization is returned for sample counts below two.
	ErrInvalidDiscretization = errors.New("sample count must be at least 2")

	// ErrTooManySamples is returned when a shape would sample more than
	// MaxVertices vertices.
	ErrTooManySamples = errors.New("sample count exceeds the vertex limit")

	// ErrInvalidControlPointCount is returned when a shape is created
	// without control points.
	ErrInvalidControlPointCount = errors.New("control point count must be positive")
)

// ContractViolation is the panic value raised when a precondition of
// this package is broken: an index out of range, or a NaN or infinity
// produced while evaluating. Functions in this package never return
// it as an error.
type ContractViolation struct {
	Op  string // operation that detected the violation, e.g. "Basis"
	Msg string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("nurbs: %s: %s", c.Op, c.Msg)
}

func violate(op, format string, args ...any) {
	panic(&ContractViolation{Op: op, Msg: fmt.Sprintf(format, args...)})
}
