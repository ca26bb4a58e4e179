package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/knotwork/pkg/nurbs"
	"github.com/chazu/knotwork/pkg/scene"
)

// maxDefaultDegree is the degree of generated clamped knot vectors when
// a shape gives neither knots nor a degree.
const maxDefaultDegree = 3

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. The builtins populate sc while the script runs.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {

	// -----------------------------------------------------------------------
	// (point x y z) or (point x y z w)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 && len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("point: expected 3 or 4 numbers, got %d", len(args))
		}
		c := [4]float64{0, 0, 0, 1}
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("point: argument %d: %w", i+1, err)
			}
			c[i] = f
		}
		return &sexpPoint{p: nurbs.WeightedPoint(c[0], c[1], c[2], c[3])}, nil
	})

	// -----------------------------------------------------------------------
	// (clamped-knots degree count) returns a clamped uniform knot vector
	// for count control points.
	// -----------------------------------------------------------------------
	env.AddFunction("clamped_knots", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("clamped-knots: expected degree and control point count, got %d arguments", len(args))
		}
		degree, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clamped-knots: degree: %w", err)
		}
		count, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clamped-knots: count: %w", err)
		}
		knots, err := nurbs.ClampedKnots(degree, count)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clamped-knots: %w", err)
		}
		return floatList(knots), nil
	})

	// -----------------------------------------------------------------------
	// (defcurve "name" :points (list p ...) :knots [k ...] :samples n)
	// (defcurve "name" :points (list p ...) :degree d)
	// -----------------------------------------------------------------------
	env.AddFunction("defcurve", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		curveName, err := shapeName("defcurve", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if kw, ok := pa.unknown("points", "knots", "degree", "samples"); ok {
			return zygo.SexpNull, fmt.Errorf("defcurve %q: unknown keyword :%s", curveName, kw)
		}

		v, ok := pa.kw["points"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defcurve %q: missing :points", curveName)
		}
		points, err := toPoints(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defcurve %q: points: %w", curveName, err)
		}

		opts := sc.Defaults.CurveOptions()
		if v, ok := pa.kw["samples"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defcurve %q: samples: %w", curveName, err)
			}
			opts = append(opts, nurbs.WithSamples(n))
		}

		c, err := nurbs.NewCurve(len(points), opts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defcurve %q: %w", curveName, err)
		}
		for i, p := range points {
			c.SetControlPoint(i, p)
		}

		knots, err := knotsFor(pa.kw["knots"], pa.kw["degree"], len(points))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defcurve %q: %w", curveName, err)
		}
		if err := c.SetKnotVector(knots); err != nil {
			return zygo.SexpNull, fmt.Errorf("defcurve %q: knots: %w", curveName, err)
		}

		if err := sc.Add(curveName, c); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{name: curveName, kind: nurbs.KindCurve}, nil
	})

	// -----------------------------------------------------------------------
	// (defsurface "name" :size [nu nv] :points (list p ...)
	//             :knots-u [k ...] :knots-v [k ...] :divisions [du dv])
	//
	// Points are listed row-major in u: the first nv points form the
	// first row. :degree [du dv] generates clamped knots for a direction
	// whose knot vector is not given.
	// -----------------------------------------------------------------------
	env.AddFunction("defsurface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		surfName, err := shapeName("defsurface", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if kw, ok := pa.unknown("size", "points", "knots-u", "knots-v", "degree", "divisions"); ok {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: unknown keyword :%s", surfName, kw)
		}

		v, ok := pa.kw["size"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: missing :size", surfName)
		}
		nu, nv, err := toIntPair(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: size: %w", surfName, err)
		}

		v, ok = pa.kw["points"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: missing :points", surfName)
		}
		points, err := toPoints(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: points: %w", surfName, err)
		}
		if nu < 1 || nv < 1 || len(points) != nu*nv {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: size %dx%d needs %d points, got %d",
				surfName, nu, nv, nu*nv, len(points))
		}

		opts := sc.Defaults.SurfaceOptions()
		if v, ok := pa.kw["divisions"]; ok {
			du, dv, err := toIntPair(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defsurface %q: divisions: %w", surfName, err)
			}
			opts = append(opts, nurbs.WithDivisions(du, dv))
		}

		s, err := nurbs.NewSurface(nu, nv, opts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: %w", surfName, err)
		}
		for k, p := range points {
			s.SetControlPoint(k/nv, k%nv, p)
		}

		var degreeU, degreeV zygo.Sexp
		if v, ok := pa.kw["degree"]; ok {
			du, dv, err := toIntPair(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defsurface %q: degree: %w", surfName, err)
			}
			degreeU, degreeV = &zygo.SexpInt{Val: int64(du)}, &zygo.SexpInt{Val: int64(dv)}
		}
		knotsU, err := knotsFor(pa.kw["knots-u"], degreeU, nu)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: u: %w", surfName, err)
		}
		knotsV, err := knotsFor(pa.kw["knots-v"], degreeV, nv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: v: %w", surfName, err)
		}
		if err := s.SetKnotVectorU(knotsU); err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: knots: %w", surfName, err)
		}
		if err := s.SetKnotVectorV(knotsV); err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface %q: knots: %w", surfName, err)
		}

		if err := sc.Add(surfName, s); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{name: surfName, kind: nurbs.KindSurface}, nil
	})
}

// shapeName extracts the leading name argument of a def form.
func shapeName(form string, pa kwArgs) (string, error) {
	if len(pa.positional) != 1 {
		return "", fmt.Errorf("%s requires exactly one name argument, got %d", form, len(pa.positional))
	}
	name, err := toString(pa.positional[0])
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", form, err)
	}
	return name, nil
}

// knotsFor returns the explicit knot vector if one was given, otherwise a
// clamped uniform vector of the requested degree. Without a degree the
// highest degree up to cubic that count control points allow is used.
func knotsFor(knots, degree zygo.Sexp, count int) ([]float64, error) {
	if knots != nil {
		if degree != nil {
			return nil, fmt.Errorf("give either knots or a degree, not both")
		}
		k, err := toFloats(knots)
		if err != nil {
			return nil, fmt.Errorf("knots: %w", err)
		}
		return k, nil
	}

	d := min(maxDefaultDegree, count-1)
	if degree != nil {
		var err error
		if d, err = toInt(degree); err != nil {
			return nil, fmt.Errorf("degree: %w", err)
		}
	}
	return nurbs.ClampedKnots(d, count)
}
