package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/knotwork/pkg/nurbs"
)

// sexpPoint wraps a control point so it can be returned from `point`
// and consumed by `defcurve` and `defsurface`.
type sexpPoint struct {
	p nurbs.HomoPoint
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	if p.p.W == 1 {
		return fmt.Sprintf("(point %g %g %g)", p.p.X, p.p.Y, p.p.Z)
	}
	return fmt.Sprintf("(point %g %g %g %g)", p.p.X, p.p.Y, p.p.Z, p.p.W)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpShape is the value of a `defcurve` or `defsurface` form.
type sexpShape struct {
	name string
	kind nurbs.Kind
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", s.kind, s.name)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A keyword at the end of the list has the value nil.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// unknown returns the first keyword not in allowed, if any.
func (a kwArgs) unknown(allowed ...string) (string, bool) {
	for name := range a.kw {
		found := false
		for _, ok := range allowed {
			if name == ok {
				found = true
				break
			}
		}
		if !found {
			return name, true
		}
	}
	return "", false
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a finite float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	var f float64
	switch v := s.(type) {
	case *zygo.SexpInt:
		f = float64(v.Val)
	case *zygo.SexpFloat:
		f = v.Val
	default:
		return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("expected finite number, got %v", f)
	}
	return f, nil
}

// toInt extracts an integer. Floats are accepted when they are whole.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) && math.Abs(v.Val) < math.MaxInt32 {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toFloats extracts a list or array of numbers.
func toFloats(s zygo.Sexp) ([]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		if out[i], err = toFloat64(item); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

// toIntPair extracts a two-element list or array of integers such as
// [nu nv].
func toIntPair(s zygo.Sexp) (int, int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return 0, 0, err
	}
	if len(items) != 2 {
		return 0, 0, fmt.Errorf("expected 2 integers, got %d values", len(items))
	}
	a, err := toInt(items[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := toInt(items[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// toPoints extracts a list or array of control points.
func toPoints(s zygo.Sexp) ([]nurbs.HomoPoint, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]nurbs.HomoPoint, len(items))
	for i, item := range items {
		p, ok := item.(*sexpPoint)
		if !ok {
			return nil, fmt.Errorf("element %d: expected point, got %T (%s)", i, item, item.SexpString(nil))
		}
		out[i] = p.p
	}
	return out, nil
}

// floatList converts values into a zygomys list of floats.
func floatList(values []float64) zygo.Sexp {
	items := make([]zygo.Sexp, len(values))
	for i, v := range values {
		items[i] = &zygo.SexpFloat{Val: v}
	}
	return zygo.MakeList(items)
}
