package reproject

import "runtime"

// Option configures an Interpolator at construction time, in the same
// functional-options shape as this module's ReadOption ancestor.
type Option func(*config)

// config holds configuration for an Interpolator.
type config struct {
	latitudeName       string
	longitudeName      string
	distanceOfInterest float64 // metres; 0 means "auto"
	workers            int
}

func defaultConfig() config {
	return config{
		latitudeName:       "lat",
		longitudeName:      "lon",
		distanceOfInterest: 0,
		workers:            runtime.NumCPU(),
	}
}

// WithLatitudeName sets the name used for the generated 2D latitude
// coordinate when reprojecting to a non-latlong grid. Default "lat".
func WithLatitudeName(name string) Option {
	return func(c *config) { c.latitudeName = name }
}

// WithLongitudeName sets the name used for the generated 2D longitude
// coordinate. Default "lon".
func WithLongitudeName(name string) Option {
	return func(c *config) { c.longitudeName = name }
}

// WithDistanceOfInterest overrides the auto-computed maximum search
// radius (in metres) used by the KD/R-tree coordinate-nearest method.
func WithDistanceOfInterest(metres float64) Option {
	return func(c *config) { c.distanceOfInterest = metres }
}

// WithWorkers sets the number of goroutines used to parallelize the
// per-plane preprocessor and kernel loops. If workers <= 0, defaults to
// runtime.NumCPU().
func WithWorkers(workers int) Option {
	return func(c *config) { c.workers = workers }
}
