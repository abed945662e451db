package reproject

import "github.com/nwxproj/reproject/reader"

// Method names a cached-interpolation algorithm family (spec.md §3, §4.3).
type Method int

const (
	// MethodNearest is backward (destination-driven) nearest-neighbour
	// interpolation against the source projection.
	MethodNearest Method = iota
	// MethodBilinear is backward bilinear interpolation.
	MethodBilinear
	// MethodBicubic is backward bicubic interpolation.
	MethodBicubic
	// MethodCoordNN is coordinate-based nearest neighbour using the
	// brute-force lat-sorted locator.
	MethodCoordNN
	// MethodCoordNNKD is coordinate-based nearest neighbour using the
	// tree-backed locator.
	MethodCoordNNKD
	// MethodForwardSum is forward (source-driven) aggregation by sum.
	MethodForwardSum
	// MethodForwardMean is forward aggregation by arithmetic mean.
	MethodForwardMean
	// MethodForwardMedian is forward aggregation by median.
	MethodForwardMedian
	// MethodForwardMax is forward aggregation by maximum.
	MethodForwardMax
	// MethodForwardMin is forward aggregation by minimum.
	MethodForwardMin
)

func (m Method) String() string {
	switch m {
	case MethodNearest:
		return "nearest"
	case MethodBilinear:
		return "bilinear"
	case MethodBicubic:
		return "bicubic"
	case MethodCoordNN:
		return "coord_nn"
	case MethodCoordNNKD:
		return "coord_nn_kd"
	case MethodForwardSum:
		return "forward_sum"
	case MethodForwardMean:
		return "forward_mean"
	case MethodForwardMedian:
		return "forward_median"
	case MethodForwardMax:
		return "forward_max"
	case MethodForwardMin:
		return "forward_min"
	default:
		return "unknown"
	}
}

// isForward reports whether m belongs to the forward-aggregation family,
// which walks the source grid instead of the destination grid.
func (m Method) isForward() bool {
	switch m {
	case MethodForwardSum, MethodForwardMean, MethodForwardMedian, MethodForwardMax, MethodForwardMin:
		return true
	default:
		return false
	}
}

// isCoordinate reports whether m resolves destination points against
// source coordinates rather than against the source projection.
func (m Method) isCoordinate() bool {
	return m == MethodCoordNN || m == MethodCoordNNKD
}

// AxisSpec describes a destination axis: either an explicit list of
// values, or a count of values spread evenly over the source grid's
// projected bounding box (spec.md §4.6, "axis auto-bbox detection").
type AxisSpec struct {
	Values []float64
	// N is used with auto-detected bounds when Values is nil.
	N int
}

// resolved reports whether the axis spec is a literal value list.
func (a AxisSpec) resolved() bool {
	return len(a.Values) > 0
}

// reader.ElementType is re-exported here for callers that only import the
// root package; see reader.ElementType for the definition.
type ElementType = reader.ElementType
