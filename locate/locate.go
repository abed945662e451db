// Package locate implements the PointLocator component (spec.md §4.2):
// given a destination (lon, lat) point, find the index of the nearest
// source grid point, subject to a maximum search radius (the region of
// influence). Two implementations are provided: a brute-force lat-sorted
// binary search, and an R-tree-backed nearest-neighbour search, mirroring
// CDMInterpolator.cc's fastTranslatePointsToClosestInputCell and
// flannTranslatePointsToClosestInputCell.
package locate

import (
	"context"
	"sync"

	"github.com/nwxproj/reproject/geo"
	"github.com/nwxproj/reproject/internal/parallel"
)

// NoMatch is the sentinel index returned when no source point lies within
// the configured maximum distance. It plays the role of the -1000
// sentinel in CDMInterpolator.cc's flannTranslatePointsToClosestInputCell,
// but its value here is -1.
const NoMatch = -1

// PointLocator maps destination (lon, lat) points to the index of the
// nearest point in a fixed source point cloud.
type PointLocator interface {
	// Nearest returns the index into the source cloud nearest to (lon,
	// lat), or NoMatch if nothing lies within the locator's configured
	// maximum great-circle angle (radians).
	Nearest(lon, lat float64) int
}

// RegionOfInfluence estimates a source grid's maximum nearest-neighbour
// search radius (in radians of great-circle angle), following
// CDMInterpolator.cc's getGridDistance heuristic: sample up to
// maxSamples points from the source cloud, take the maximum over samples
// of the minimum distance from that sample to every other point, then
// apply a diagonal slack factor and cap at MaxGridDistance.
func RegionOfInfluence(lons, lats []float64, maxSamples, workers int) float64 {
	n := len(lons)
	if n < 2 {
		return geo.MaxGridDistance
	}
	if maxSamples <= 0 || maxSamples > n {
		maxSamples = n
	}

	step := (n + maxSamples - 1) / maxSamples
	if step < 1 {
		step = 1
	}

	var samples []int
	for s := 0; s < n; s += step {
		samples = append(samples, s)
	}

	var mu sync.Mutex
	maxMin := 0.0

	_ = parallel.Planes(context.Background(), len(samples), workers, func(k int) error {
		s := samples[k]
		minD := geo.MaxGridDistance
		for j := 0; j < n; j++ {
			if j == s {
				continue
			}
			d := geo.GreatCircleAngle(lons[s], lats[s], lons[j], lats[j])
			if d < minD {
				minD = d
			}
		}
		mu.Lock()
		if minD > maxMin {
			maxMin = minD
		}
		mu.Unlock()
		return nil
	})

	roi := maxMin * geo.DiagonalSlack
	if roi > geo.MaxGridDistance {
		roi = geo.MaxGridDistance
	}
	return roi
}
