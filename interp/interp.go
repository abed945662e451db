// Package interp implements the CachedInterpolation component (spec.md
// §3, §4.3): a precomputed mapping between source and destination grids,
// built once per ChangeProjection call and reused across every
// GetDataSlice call and z-plane, together with the kernels/aggregations
// it drives.
//
// A single tagged-variant type represents both interpolation families
// (backward, projection- or coordinate-driven; forward, aggregation-
// driven) rather than an open interface hierarchy, per spec.md §9's
// design note: callers switch on Kind instead of type-asserting.
package interp

import "math"

// Kind distinguishes the two CachedInterpolation families.
type Kind int

const (
	// Backward interpolation walks the destination grid and, for each
	// cell, samples the source grid at a precomputed location.
	Backward Kind = iota
	// Forward interpolation walks the source grid and, for each cell,
	// aggregates its value into a precomputed destination cell.
	Forward
)

// Reduction names a forward-aggregation reducer (spec.md §4.3).
type Reduction int

const (
	ReduceSum Reduction = iota
	ReduceMean
	ReduceMedian
	ReduceMax
	ReduceMin
)

// Cache is the precomputed source<->destination mapping. Exactly one of
// the backward or forward field groups is populated, selected by Kind.
type Cache struct {
	Kind Kind

	SrcNx, SrcNy int
	DstNx, DstNy int

	// Backward kernel (Nearest/Bilinear/Bicubic): continuous source
	// coordinates for each destination cell, NaN where the destination
	// point falls outside the source domain.
	BackX, BackY []float64
	BackKernel   Kernel

	// Backward coordinate-nearest (CoordNN/CoordNNKD): source index for
	// each destination cell, locate.NoMatch where nothing was found
	// within the region of influence.
	BackIndex []int

	// Forward aggregation: destination index for each source cell, -1
	// where the source point maps outside the destination domain.
	FwdDestIndex []int
	Reduce       Reduction
}

// Kernel is a backward resampling kernel: given continuous source
// coordinates (fx, fy) and the source plane (row-major, SrcNx*SrcNy),
// return the interpolated value, or NaN if the kernel's support extends
// outside the source domain or touches a fill/NaN cell. BicubicKernel
// falls back to BilinearKernel where its 4x4 support would leave the grid.
type Kernel func(fx, fy float64, src []float64, srcNx, srcNy int) float64

// Apply resamples src (a single SrcNx*SrcNy plane, NaN for missing data)
// into a DstNx*DstNy plane following the cache's Kind.
func (c *Cache) Apply(src []float64) []float64 {
	switch c.Kind {
	case Backward:
		return c.applyBackward(src)
	case Forward:
		return c.applyForward(src)
	default:
		panic("interp: unknown Cache.Kind")
	}
}

func (c *Cache) applyBackward(src []float64) []float64 {
	n := c.DstNx * c.DstNy
	out := make([]float64, n)
	if c.BackIndex != nil {
		for i := 0; i < n; i++ {
			idx := c.BackIndex[i]
			if idx < 0 || idx >= len(src) {
				out[i] = math.NaN()
				continue
			}
			out[i] = src[idx]
		}
		return out
	}
	for i := 0; i < n; i++ {
		fx, fy := c.BackX[i], c.BackY[i]
		if math.IsNaN(fx) || math.IsNaN(fy) {
			out[i] = math.NaN()
			continue
		}
		out[i] = c.BackKernel(fx, fy, src, c.SrcNx, c.SrcNy)
	}
	return out
}
