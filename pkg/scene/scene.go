package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/knotwork/pkg/nurbs"
)

// ErrDuplicateName is returned when a shape name is already taken.
var ErrDuplicateName = errors.New("scene: duplicate shape name")

// Defaults are the sampling settings applied to shapes that do not set
// their own.
type Defaults struct {
	CurveSamples int `json:"curveSamples"`
	DivisionsU   int `json:"divisionsU"`
	DivisionsV   int `json:"divisionsV"`
}

// DefaultDefaults returns the package defaults of pkg/nurbs.
func DefaultDefaults() Defaults {
	return Defaults{
		CurveSamples: nurbs.DefaultCurveSamples,
		DivisionsU:   nurbs.DefaultDivisions,
		DivisionsV:   nurbs.DefaultDivisions,
	}
}

// CurveOptions returns the nurbs options matching d for a curve.
func (d Defaults) CurveOptions() []nurbs.Option {
	return []nurbs.Option{nurbs.WithSamples(d.CurveSamples)}
}

// SurfaceOptions returns the nurbs options matching d for a surface.
func (d Defaults) SurfaceOptions() []nurbs.Option {
	return []nurbs.Option{nurbs.WithDivisions(d.DivisionsU, d.DivisionsV)}
}

// Entry is one named shape in declaration order.
type Entry struct {
	Name  string
	Shape nurbs.Shape
}

// Scene is the result of evaluating a scene script. Each evaluation
// produces a new Scene; shapes are configured once while the script
// runs and only sampled afterwards.
type Scene struct {
	Entries   []*Entry
	NameIndex map[string]int
	Defaults  Defaults
	Version   uint64
}

// New creates an empty scene using the given sampling defaults.
func New(d Defaults) *Scene {
	return &Scene{
		NameIndex: make(map[string]int),
		Defaults:  d,
	}
}

// Add appends a named shape. Names must be non-empty and unique.
func (s *Scene) Add(name string, shape nurbs.Shape) error {
	if name == "" {
		return fmt.Errorf("scene: shape name must not be empty")
	}
	if _, ok := s.NameIndex[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.NameIndex[name] = len(s.Entries)
	s.Entries = append(s.Entries, &Entry{Name: name, Shape: shape})
	return nil
}

// Lookup returns the shape with the given name, or nil.
func (s *Scene) Lookup(name string) nurbs.Shape {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Entries[i].Shape
}

// Len returns the number of shapes.
func (s *Scene) Len() int {
	return len(s.Entries)
}

// Curves returns the curve entries in declaration order.
func (s *Scene) Curves() []*Entry {
	return s.filter(nurbs.KindCurve)
}

// Surfaces returns the surface entries in declaration order.
func (s *Scene) Surfaces() []*Entry {
	return s.filter(nurbs.KindSurface)
}

func (s *Scene) filter(kind nurbs.Kind) []*Entry {
	var out []*Entry
	for _, e := range s.Entries {
		if e.Shape.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}
