package scene

import (
	"fmt"

	"github.com/chazu/knotwork/pkg/nurbs"
)

// ValidationSeverity indicates whether a finding blocks tessellation or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Name     string             // shape name, empty for scene-level findings
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] shape %q: %s", e.Severity, e.Name, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Name    string
	Message string
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks: every shape must be Ready and the
// sampling defaults must be usable. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDefaults(s)...)
	errs = append(errs, validateReady(s)...)
	return errs
}

// ValidateAll runs the structural and geometric checks and separates
// errors from warnings.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{Name: e.Name, Message: e.Message})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Warnings = append(result.Warnings, validateGeometry(s)...)
	return result
}

func validateDefaults(s *Scene) []ValidationError {
	var errs []ValidationError
	check := func(what string, n int) {
		if n < 2 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("default %s must be at least 2, got %d", what, n),
				Severity: SeverityError,
			})
		}
	}
	check("curve samples", s.Defaults.CurveSamples)
	check("u divisions", s.Defaults.DivisionsU)
	check("v divisions", s.Defaults.DivisionsV)
	if len(s.Entries) == 0 {
		errs = append(errs, ValidationError{
			Message:  "scene defines no shapes",
			Severity: SeverityWarning,
		})
	}
	return errs
}

func validateReady(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, e := range s.Entries {
		if e.Shape.State() != nurbs.Ready {
			errs = append(errs, ValidationError{
				Name:     e.Name,
				Message:  fmt.Sprintf("%s has no valid knot vector", e.Shape.Kind()),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// direction is one parametric direction of a ready shape.
type direction struct {
	label  string
	knots  nurbs.KnotVector
	degree int
}

func directions(shape nurbs.Shape) []direction {
	switch sh := shape.(type) {
	case *nurbs.Curve:
		return []direction{{"", sh.Knots(), sh.Degree()}}
	case *nurbs.Surface:
		return []direction{
			{"u ", sh.KnotsU(), sh.DegreeU()},
			{"v ", sh.KnotsV(), sh.DegreeV()},
		}
	}
	return nil
}

// validateGeometry reports shapes that evaluate but probably not the way
// their author intended.
func validateGeometry(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning
	for _, e := range s.Entries {
		if e.Shape.State() != nurbs.Ready {
			continue
		}
		warn := func(format string, args ...any) {
			warnings = append(warnings, ValidationWarning{Name: e.Name, Message: fmt.Sprintf(format, args...)})
		}

		for _, d := range directions(e.Shape) {
			if !d.knots.IsClamped(d.degree) {
				warn("%sknot vector is not clamped; the shape will not reach its end control points", d.label)
			}
			for i := 0; i+d.degree+1 < len(d.knots); i++ {
				if nurbs.IsZeroFunction(i, d.degree, d.knots) {
					warn("%sbasis function %d is zero everywhere; its control points have no influence", d.label, i)
				}
			}
		}

		for i, p := range e.Shape.ControlPoints() {
			if p.W <= 0 {
				warn("control point %d has non-positive weight %g", i, p.W)
			}
		}
	}
	return warnings
}
