package interp

import (
	"math"
	"sort"
)

func (c *Cache) applyForward(src []float64) []float64 {
	n := c.DstNx * c.DstNy
	groups := make([][]float64, n)

	for i, dst := range c.FwdDestIndex {
		if dst < 0 || dst >= n || i >= len(src) {
			continue
		}
		v := src[i]
		if math.IsNaN(v) {
			continue
		}
		groups[dst] = append(groups[dst], v)
	}

	out := make([]float64, n)
	for i, g := range groups {
		out[i] = reduce(g, c.Reduce)
	}
	return out
}

// reduce applies a Reduction to a (possibly empty) list of values that
// mapped into one destination cell. An empty group yields NaN: no
// source contributed to that cell.
func reduce(values []float64, r Reduction) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	switch r {
	case ReduceSum:
		var s float64
		for _, v := range values {
			s += v
		}
		return s
	case ReduceMean:
		var s float64
		for _, v := range values {
			s += v
		}
		return s / float64(len(values))
	case ReduceMedian:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return sorted[mid]
	case ReduceMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case ReduceMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	default:
		return math.NaN()
	}
}
