package scene_test

import (
	"errors"
	"testing"

	"github.com/chazu/knotwork/pkg/nurbs"
	"github.com/chazu/knotwork/pkg/scene"
)

func readyCurve(t *testing.T, knots []float64, points ...nurbs.HomoPoint) *nurbs.Curve {
	t.Helper()
	c, err := nurbs.NewCurve(len(points), nurbs.WithSamples(8))
	if err != nil {
		t.Fatalf("NewCurve failed: %v", err)
	}
	for i, p := range points {
		c.SetControlPoint(i, p)
	}
	if knots != nil {
		if err := c.SetKnotVector(knots); err != nil {
			t.Fatalf("SetKnotVector failed: %v", err)
		}
	}
	return c
}

func line(t *testing.T) *nurbs.Curve {
	return readyCurve(t, []float64{0, 0, 1, 1}, nurbs.Point(0, 0, 0), nurbs.Point(1, 0, 0))
}

func patch(t *testing.T) *nurbs.Surface {
	t.Helper()
	s, err := nurbs.NewSurface(2, 2, nurbs.WithDivisions(3, 3))
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			s.SetControlPoint(i, j, nurbs.Point(float64(i), float64(j), 0))
		}
	}
	if err := s.SetKnotVectorU([]float64{0, 0, 1, 1}); err != nil {
		t.Fatalf("SetKnotVectorU failed: %v", err)
	}
	if err := s.SetKnotVectorV([]float64{0, 0, 1, 1}); err != nil {
		t.Fatalf("SetKnotVectorV failed: %v", err)
	}
	return s
}

func TestAddAndLookup(t *testing.T) {
	sc := scene.New(scene.DefaultDefaults())
	c := line(t)
	s := patch(t)

	if err := sc.Add("rail", c); err != nil {
		t.Fatalf("Add(rail) failed: %v", err)
	}
	if err := sc.Add("skin", s); err != nil {
		t.Fatalf("Add(skin) failed: %v", err)
	}
	if sc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", sc.Len())
	}
	if got := sc.Lookup("rail"); got != nurbs.Shape(c) {
		t.Errorf("Lookup(rail) = %v, want the curve", got)
	}
	if got := sc.Lookup("missing"); got != nil {
		t.Errorf("Lookup(missing) = %v, want nil", got)
	}
	if got := sc.Curves(); len(got) != 1 || got[0].Name != "rail" {
		t.Errorf("Curves() = %v, want [rail]", got)
	}
	if got := sc.Surfaces(); len(got) != 1 || got[0].Name != "skin" {
		t.Errorf("Surfaces() = %v, want [skin]", got)
	}
}

func TestAddRejectsDuplicatesAndEmptyNames(t *testing.T) {
	sc := scene.New(scene.DefaultDefaults())
	if err := sc.Add("a", line(t)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := sc.Add("a", line(t)); !errors.Is(err, scene.ErrDuplicateName) {
		t.Errorf("duplicate Add error = %v, want ErrDuplicateName", err)
	}
	if err := sc.Add("", line(t)); err == nil {
		t.Error("Add with empty name should fail")
	}
	if sc.Len() != 1 {
		t.Errorf("Len() = %d after rejected adds, want 1", sc.Len())
	}
}

func TestDefaultOptions(t *testing.T) {
	d := scene.Defaults{CurveSamples: 16, DivisionsU: 4, DivisionsV: 5}
	c, err := nurbs.NewCurve(2, d.CurveOptions()...)
	if err != nil {
		t.Fatalf("NewCurve failed: %v", err)
	}
	if c.Samples() != 16 {
		t.Errorf("Samples() = %d, want 16", c.Samples())
	}
	s, err := nurbs.NewSurface(2, 2, d.SurfaceOptions()...)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	if u, v := s.Divisions(); u != 4 || v != 5 {
		t.Errorf("Divisions() = (%d, %d), want (4, 5)", u, v)
	}
}
