// Package proj is the projection/coordinate-system collaborator used by
// the reprojection engine: forward and inverse transforms between
// geographic (lon, lat) coordinates and a projected (x, y) plane, keyed
// by a proj4-like parameter string, plus the axis- and vector-rotation
// helpers the core CachedInterpolation and VectorReprojection components
// build on.
//
// Calls into a Registry are serialized behind a single mutex: the
// underlying math here is pure and reentrant, but this mirrors the
// concurrency constraint the actual projection library this package
// substitutes for would impose (SPEC_FULL.md §5, "Projection-library
// calls must be serialised when the library is not reentrant").
package proj

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// EarthRadiusMeters is the spherical earth radius used throughout this
// package (WGS84 mean radius, matching the teacher's grid math and
// CDMInterpolator.cc's MIFI_EARTH_RADIUS_M).
const EarthRadiusMeters = 6371000.0

// AxisKind classifies a destination axis so VectorMatrix can pick the
// correct rotation argument order (spec.md §4.4).
type AxisKind int

const (
	AxisMetric AxisKind = iota
	AxisLongitude
	AxisLatitude
)

// Matrix2x2 is a per-cell 2x2 rotation applied to a vector's (u, v)
// components when reprojecting a spatial vector field.
type Matrix2x2 struct {
	M11, M12 float64
	M21, M22 float64
}

// Apply rotates (u, v) through the matrix.
func (m Matrix2x2) Apply(u, v float64) (float64, float64) {
	return m.M11*u + m.M12*v, m.M21*u + m.M22*v
}

// Projection is a single named coordinate system: forward maps geographic
// coordinates to the projected plane, Inverse maps back.
type Projection interface {
	Name() string
	// IsDegree reports whether this projection's native x/y are in
	// degrees (true only for latlong).
	IsDegree() bool
	// Forward maps (lon, lat) in degrees to (x, y) in the projection's
	// native unit (metres, or degrees for latlong).
	Forward(lon, lat float64) (x, y float64)
	// Inverse maps (x, y) back to (lon, lat) in degrees.
	Inverse(x, y float64) (lon, lat float64)
}

var projNameRE = regexp.MustCompile(`\+proj=(\S+)`)

// Registry parses proj4-like strings into Projection values and serves
// the axis/vector helpers the core packages need. The zero value is
// ready to use.
type Registry struct {
	mu sync.Mutex
}

// Parse builds a Projection from a proj4-like parameter string, e.g.
// "+proj=stere +lat_0=90 +lon_0=0 +R=6371000" or "+proj=longlat". The
// projection family is extracted the way CDMInterpolator.cc's
// getProjectionName does, via a "+proj=(\S+)" regex.
func (r *Registry) Parse(proj4 string) (Projection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return parse(proj4)
}

func parse(proj4 string) (Projection, error) {
	m := projNameRE.FindStringSubmatch(proj4)
	if m == nil {
		return nil, fmt.Errorf("proj: no +proj= token in %q", proj4)
	}
	params := parseParams(proj4)
	switch m[1] {
	case "longlat", "latlong", "latlon":
		return newLatLong(), nil
	case "lcc":
		return newLambert(params)
	case "stere", "ups":
		return newPolarStereographic(params)
	case "merc":
		return newMercator(params)
	default:
		return nil, fmt.Errorf("proj: unsupported projection family %q", m[1])
	}
}

// parseParams splits a proj4-like string into a key->value map, e.g.
// "+lat_1=25 +lat_2=25 +lat_0=25 +lon_0=-95 +R=6371000" ->
// {"lat_1":"25", ...}. Flags with no value ("+south") map to "".
func parseParams(proj4 string) map[string]string {
	out := make(map[string]string)
	for _, tok := range strings.Fields(proj4) {
		tok = strings.TrimPrefix(tok, "+")
		if tok == "" {
			continue
		}
		if i := strings.IndexByte(tok, '='); i >= 0 {
			out[tok[:i]] = tok[i+1:]
		} else {
			out[tok] = ""
		}
	}
	return out
}

func floatParam(params map[string]string, key string, def float64) float64 {
	v, ok := params[key]
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Name returns the projection family token extracted from proj4 (the
// same extraction Parse uses), for callers that only need the name.
func Name(proj4 string) string {
	m := projNameRE.FindStringSubmatch(proj4)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsDegree reports whether proj4 names the identity lat/lon projection.
func IsDegree(proj4 string) bool {
	switch Name(proj4) {
	case "longlat", "latlong", "latlon":
		return true
	default:
		return false
	}
}

// ProjectAxes maps every (x, y) pair, expressed in dstProj's native
// coordinates, into srcProj's native coordinates (via dstProj's inverse
// and srcProj's forward transform). It is the point-by-point workhorse
// behind the backward interpolation methods (spec.md §4.2/§4.3): for
// each destination cell, given in the destination projection's own
// coordinates, the engine asks "where does this land in the source
// projection?".
func (r *Registry) ProjectAxes(srcProj, dstProj string, xs, ys []float64) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, fmt.Errorf("proj: ProjectAxes length mismatch: %d x vs %d y", len(xs), len(ys))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	src, err := parse(srcProj)
	if err != nil {
		return nil, nil, err
	}
	dst, err := parse(dstProj)
	if err != nil {
		return nil, nil, err
	}

	outX := make([]float64, len(xs))
	outY := make([]float64, len(xs))
	for i := range xs {
		lon, lat := dst.Inverse(xs[i], ys[i])
		outX[i], outY[i] = src.Forward(lon, lat)
	}
	return outX, outY, nil
}

// ToLonLat converts a plane of (x, y) pairs expressed in proj4's native
// coordinates into geographic (lon, lat) degrees, used to generate 2D
// coordinate variables for a newly installed non-latlong grid (spec.md
// §4.5, "generate 2D lat/lon coordinate variables").
func (r *Registry) ToLonLat(proj4 string, xs, ys []float64) ([]float64, []float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := parse(proj4)
	if err != nil {
		return nil, nil, err
	}
	lons := make([]float64, len(xs))
	lats := make([]float64, len(xs))
	for i := range xs {
		lons[i], lats[i] = p.Inverse(xs[i], ys[i])
	}
	return lons, lats, nil
}

// FromLonLat converts a plane of geographic (lon, lat) degree pairs into
// proj4's native (x, y) coordinates — the inverse of ToLonLat. Used to
// place geographic points (e.g. a source grid's cell centres) onto a
// destination projection's native axes.
func (r *Registry) FromLonLat(proj4 string, lons, lats []float64) ([]float64, []float64, error) {
	if len(lons) != len(lats) {
		return nil, nil, fmt.Errorf("proj: FromLonLat length mismatch: %d lon vs %d lat", len(lons), len(lats))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := parse(proj4)
	if err != nil {
		return nil, nil, err
	}
	xs := make([]float64, len(lons))
	ys := make([]float64, len(lons))
	for i := range lons {
		xs[i], ys[i] = p.Forward(lons[i], lats[i])
	}
	return xs, ys, nil
}

// VectorMatrix builds the per-cell 2x2 rotation matrices that reproject a
// spatial vector field from srcProj into dstProj at each destination
// point (outX, outY), following the finite-difference approach of
// mifi_get_vector_reproject_matrix (spec.md §4.4): perturb each
// destination point slightly along its own x and y axes, project the
// perturbed points back into the source projection, and derive the
// rotation from the resulting local basis vectors. Each basis vector is
// normalized to unit length ("keep magnitude" policy); the matrix
// preserves magnitude exactly only where the two basis vectors are
// orthogonal in the source projection's native units.
func (r *Registry) VectorMatrix(srcProj, dstProj string, outX, outY []float64) ([]Matrix2x2, error) {
	if len(outX) != len(outY) {
		return nil, fmt.Errorf("proj: VectorMatrix length mismatch")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	src, err := parse(srcProj)
	if err != nil {
		return nil, err
	}
	dst, err := parse(dstProj)
	if err != nil {
		return nil, err
	}

	const eps = 1e-3 // small step in destination native units (degrees or metres)
	out := make([]Matrix2x2, len(outX))
	for i := range outX {
		x, y := outX[i], outY[i]

		lon0, lat0 := dst.Inverse(x, y)
		lonXp, latXp := dst.Inverse(x+eps, y)
		lonYp, latYp := dst.Inverse(x, y+eps)

		sx0, sy0 := src.Forward(lon0, lat0)
		sxXp, syXp := src.Forward(lonXp, latXp)
		sxYp, syYp := src.Forward(lonYp, latYp)

		dxdx := (sxXp - sx0) / eps
		dydx := (syXp - sy0) / eps
		dxdy := (sxYp - sx0) / eps
		dydy := (syYp - sy0) / eps

		// Normalize each destination basis vector in source space so
		// rotating a unit (u,v) preserves its magnitude.
		nx := math.Hypot(dxdx, dydx)
		ny := math.Hypot(dxdy, dydy)
		if nx == 0 {
			nx = 1
		}
		if ny == 0 {
			ny = 1
		}
		// Rows are the destination basis vectors, so Apply projects a
		// source-frame (u, v) onto the destination x and y axes.
		out[i] = Matrix2x2{
			M11: dxdx / nx, M12: dydx / nx,
			M21: dxdy / ny, M22: dydy / ny,
		}
	}
	return out, nil
}
