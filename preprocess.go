package reproject

// Preprocessor transforms one horizontal (x, y) plane of raw source data
// before it is resampled onto the destination grid (spec.md §3
// "Preprocessor"), e.g. unit conversion or a value mask. It runs once per
// z-plane, on the same worker-pool schedule as the interpolation kernels
// (SPEC_FULL.md §5).
type Preprocessor interface {
	Apply(data []float64, nx, ny int)
}

// PreprocessorFunc adapts a plain function to the Preprocessor interface.
type PreprocessorFunc func(data []float64, nx, ny int)

func (f PreprocessorFunc) Apply(data []float64, nx, ny int) { f(data, nx, ny) }
