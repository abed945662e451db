package locate

import (
	"math"
	"sort"

	"github.com/nwxproj/reproject/geo"
)

// llPoint mirrors CDMInterpolator.cc's LL_POINT: a source point tagged
// with its original index, kept sorted by latitude so BruteForceLocator
// can binary-search into the neighbourhood of a query latitude and sweep
// outward in both directions.
type llPoint struct {
	lon, lat float64
	idx      int
}

// BruteForceLocator is the lat-sorted binary-search PointLocator
// (spec.md §4.2, "coordinate-based nearest neighbor ... brute-force
// lat-sorted binary search"), grounded on
// fastTranslatePointsToClosestInputCell.
type BruteForceLocator struct {
	points  []llPoint
	maxDist float64 // radians, great-circle angle
}

// NewBruteForceLocator builds a locator over the given source point
// cloud. maxDist is the maximum great-circle angle (radians) within
// which a match is accepted; points farther than that return NoMatch.
func NewBruteForceLocator(lons, lats []float64, maxDist float64) *BruteForceLocator {
	pts := make([]llPoint, len(lons))
	for i := range lons {
		pts[i] = llPoint{lon: lons[i], lat: lats[i], idx: i}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].lat < pts[j].lat })
	return &BruteForceLocator{points: pts, maxDist: maxDist}
}

// Nearest implements PointLocator.
func (l *BruteForceLocator) Nearest(lon, lat float64) int {
	n := len(l.points)
	if n == 0 {
		return NoMatch
	}

	start := sort.Search(n, func(i int) bool { return l.points[i].lat >= lat })

	best := NoMatch
	bestCos := -2.0 // smaller than any valid cos(angle)

	// Sweep upward from start.
	for i := start; i < n; i++ {
		dLat := (l.points[i].lat - lat) * math.Pi / 180
		if dLat > l.maxDist {
			break
		}
		c := geo.GreatCircleCos(lon, lat, l.points[i].lon, l.points[i].lat)
		if c > bestCos {
			bestCos = c
			best = l.points[i].idx
		}
	}
	// Sweep downward from start-1.
	for i := start - 1; i >= 0; i-- {
		dLat := (lat - l.points[i].lat) * math.Pi / 180
		if dLat > l.maxDist {
			break
		}
		c := geo.GreatCircleCos(lon, lat, l.points[i].lon, l.points[i].lat)
		if c > bestCos {
			bestCos = c
			best = l.points[i].idx
		}
	}

	if best == NoMatch {
		return NoMatch
	}
	if math.Acos(clamp(bestCos)) > l.maxDist {
		return NoMatch
	}
	return best
}

func clamp(c float64) float64 {
	if c > 1 {
		return 1
	}
	if c < -1 {
		return -1
	}
	return c
}
