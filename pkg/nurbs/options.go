package nurbs

// Default sample counts used when no option overrides them.
const (
	DefaultCurveSamples = 1024
	DefaultDivisions    = 128

	// MaxVertices is the largest number of vertices one shape may
	// sample: curve samples, or divisionsU*divisionsV for a surface.
	MaxVertices = 1 << 22
)

// Option configures sampling when a shape is created.
//
// Example:
//
//	c, err := nurbs.NewCurve(4, nurbs.WithSamples(256))
//	s, err := nurbs.NewSurface(4, 4, nurbs.WithDivisions(32, 32))
type Option func(*options)

type options struct {
	samples    int
	divisionsU int
	divisionsV int
}

func defaultOptions() options {
	return options{
		samples:    DefaultCurveSamples,
		divisionsU: DefaultDivisions,
		divisionsV: DefaultDivisions,
	}
}

// WithSamples sets the number of vertices sampled along a curve.
// Surfaces ignore it.
func WithSamples(n int) Option {
	return func(o *options) {
		o.samples = n
	}
}

// WithDivisions sets the surface sampling grid. Curves ignore it.
func WithDivisions(u, v int) Option {
	return func(o *options) {
		o.divisionsU = u
		o.divisionsV = v
	}
}
