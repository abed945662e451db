package locate

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/nwxproj/reproject/geo"
)

// spatialPoint adapts a unit-sphere-embedded source point to rtreego's
// Spatial interface, following ChartEntry.Bounds() in the s57 example:
// Bounds() returns a degenerate (zero-size) Rect at the point's
// coordinates, suitable for indexing discrete points rather than areal
// features.
type spatialPoint struct {
	p   geo.Point
	idx int
}

func (s spatialPoint) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{s.p.X, s.p.Y, s.p.Z},
		[]float64{1e-9, 1e-9, 1e-9},
	)
	return rect
}

// TreeLocator is the R-tree-backed PointLocator (spec.md §4.2,
// "coordinate-based nearest neighbor ... KD-tree"), substituting
// github.com/dhconnelly/rtreego's R-tree (as used for spatial indexing
// in the beetlebugorg-s57 example) for the fimex ancestor's nanoflann KD-
// tree: both operate on the same 3D unit-sphere embedding
// (flannTranslatePointsToClosestInputCell), so the substitution changes
// only the index structure, not the search semantics.
type TreeLocator struct {
	tree    *rtreego.Rtree
	maxDist float64 // radians, great-circle angle
}

// NewTreeLocator builds a locator over the given source point cloud.
func NewTreeLocator(lons, lats []float64, maxDist float64) *TreeLocator {
	tree := rtreego.NewTree(3, 4, 16)
	for i := range lons {
		tree.Insert(spatialPoint{p: geo.PointFromLonLat(lons[i], lats[i]), idx: i})
	}
	return &TreeLocator{tree: tree, maxDist: maxDist}
}

// Nearest implements PointLocator. The maximum great-circle angle is
// converted to a chord-length search box expanded around the query
// point's unit-sphere embedding; candidates inside the box are ranked by
// true great-circle angle and the closest one within maxDist wins.
func (l *TreeLocator) Nearest(lon, lat float64) int {
	q := geo.PointFromLonLat(lon, lat)

	// Chord length corresponding to maxDist great-circle angle on a unit
	// sphere: chord = 2*sin(angle/2).
	half := math.Min(l.maxDist, math.Pi) / 2
	chord := 2 * math.Sin(half)
	if chord <= 0 {
		chord = 1e-6
	}

	rect, err := rtreego.NewRect(
		rtreego.Point{q.X - chord, q.Y - chord, q.Z - chord},
		[]float64{2 * chord, 2 * chord, 2 * chord},
	)
	if err != nil {
		return NoMatch
	}

	candidates := l.tree.SearchIntersect(rect)
	best := NoMatch
	bestD := math.MaxFloat64
	for _, c := range candidates {
		sp := c.(spatialPoint)
		d := q.SquaredDistance(sp.p)
		if d < bestD {
			bestD = d
			best = sp.idx
		}
	}
	if best == NoMatch {
		return NoMatch
	}

	// chord^2 = 2 - 2*cos(angle) -> cos(angle) = 1 - chord^2/2
	cosAngle := 1 - bestD/2
	if math.Acos(clamp(cosAngle)) > l.maxDist {
		return NoMatch
	}
	return best
}
