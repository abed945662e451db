package reproject

import (
	"math"

	"github.com/nwxproj/reproject/interp"
	"github.com/nwxproj/reproject/locate"
	"github.com/nwxproj/reproject/metadata"
	"github.com/nwxproj/reproject/proj"
	"github.com/nwxproj/reproject/reader"
	"github.com/nwxproj/reproject/vector"
)

// schemaProvider is implemented by a reader.Dataset that exposes its
// mutable metadata directly (reader.MemDataset does); the Planner needs
// this to hand the rewritten schema to metadata.Rewriter.
type schemaProvider interface {
	Schema() *reader.Schema
}

// coordSystem is the source coordinate system the Planner discovered,
// mirroring findBestCoordinateSystemsAndProjectionVars's simplified
// single-CS case (SPEC_FULL.md §9 open question 1).
type coordSystem struct {
	proj4    string
	xDimName string
	yDimName string
	xAxis    []float64 // regular 1D axis values in the source projection's native unit
	yAxis    []float64
	lons     []float64 // flattened (ny*nx) geographic coordinates of every source cell
	lats     []float64
}

// Interpolator is the Planner + SliceEngine component (spec.md §4.6,
// §4.7): it discovers the source coordinate system, builds the cached
// interpolation for a requested destination grid, and resamples data
// slices on demand.
type Interpolator struct {
	cfg config
	src reader.Dataset

	reg      *proj.Registry
	rewriter *metadata.Rewriter

	preprocessors []Preprocessor

	cs coordSystem

	method  Method
	dstProj string
	dstX    string
	dstY    string
	dstNx   int
	dstNy   int

	cache     *interp.Cache
	vectorRep *vector.Reprojection

	outSchema *reader.Schema
}

// NewInterpolator builds an Interpolator over r. It does not inspect r:
// the source coordinate system is discovered by each ChangeProjection
// call.
func NewInterpolator(r reader.Dataset, opts ...Option) *Interpolator {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	reg := &proj.Registry{}
	return &Interpolator{
		cfg:      cfg,
		src:      r,
		reg:      reg,
		rewriter: metadata.New(reg),
	}
}

// discoverCoordSystem implements the simplified single-CS discovery this
// module documents in SPEC_FULL.md §9: prefer a plain 1D lat/lon axis
// pair named by the configured latitude/longitude names, falling back to
// a variable carrying a grid_mapping attribute naming a proj4 string.
func (ip *Interpolator) discoverCoordSystem() (coordSystem, error) {
	var zero coordSystem

	if lonVar, ok := ip.src.Variable(ip.cfg.longitudeName); ok && len(lonVar.Shape) == 1 {
		if latVar, ok := ip.src.Variable(ip.cfg.latitudeName); ok && len(latVar.Shape) == 1 {
			lons, err := ip.src.GetData(ip.cfg.longitudeName)
			if err != nil {
				return zero, wrapErr(ReaderFailure, err, "reading %s", ip.cfg.longitudeName)
			}
			lats, err := ip.src.GetData(ip.cfg.latitudeName)
			if err != nil {
				return zero, wrapErr(ReaderFailure, err, "reading %s", ip.cfg.latitudeName)
			}
			_ = lonVar
			_ = latVar
			flatLons, flatLats := meshgrid(lons, lats)
			return coordSystem{
				proj4:    "+proj=longlat",
				xDimName: ip.cfg.longitudeName,
				yDimName: ip.cfg.latitudeName,
				xAxis:    lons,
				yAxis:    lats,
				lons:     flatLons,
				lats:     flatLats,
			}, nil
		}
	}

	for _, v := range ip.src.Variables() {
		gmAttr, ok := v.Attribute("grid_mapping")
		if !ok {
			continue
		}
		gmName, ok := gmAttr.Value.(string)
		if !ok {
			continue
		}
		gmVar, ok := ip.src.Variable(gmName)
		if !ok {
			continue
		}
		proj4Attr, ok := gmVar.Attribute("proj4")
		if !ok {
			continue
		}
		proj4, ok := proj4Attr.Value.(string)
		if !ok || len(v.Shape) < 2 {
			continue
		}
		yDim := v.Shape[len(v.Shape)-2]
		xDim := v.Shape[len(v.Shape)-1]
		xAxis, err := ip.src.GetData(xDim)
		if err != nil {
			return zero, wrapErr(ReaderFailure, err, "reading %s", xDim)
		}
		yAxis, err := ip.src.GetData(yDim)
		if err != nil {
			return zero, wrapErr(ReaderFailure, err, "reading %s", yDim)
		}
		flatX, flatY := meshgrid(xAxis, yAxis)
		lons, lats, err := ip.reg.ToLonLat(proj4, flatX, flatY)
		if err != nil {
			return zero, wrapErr(ProjectionFailure, err, "deriving source lon/lat")
		}
		return coordSystem{
			proj4:    proj4,
			xDimName: xDim,
			yDimName: yDim,
			xAxis:    xAxis,
			yAxis:    yAxis,
			lons:     lons,
			lats:     lats,
		}, nil
	}

	return zero, newErr(NoCoordinateSystem, "no usable horizontal coordinate system found")
}

// meshgrid repeats xs along rows and ys along columns to build the
// flattened (ny*nx) coordinate pair for a regular 2D grid, row-major
// (y*nx+x), matching interp.Cache's flattening convention.
func meshgrid(xs, ys []float64) (flatX, flatY []float64) {
	flatX = make([]float64, 0, len(xs)*len(ys))
	flatY = make([]float64, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			flatX = append(flatX, x)
			flatY = append(flatY, y)
		}
	}
	return flatX, flatY
}

// regularIndex returns the fractional index of value along a uniformly
// spaced axis, or NaN if the axis is degenerate.
func regularIndex(axis []float64, value float64) float64 {
	if len(axis) < 2 {
		return math.NaN()
	}
	step := axis[1] - axis[0]
	if step == 0 {
		return math.NaN()
	}
	return (value - axis[0]) / step
}

// AddPreprocessor registers a plane preprocessor, run before resampling
// on every subsequent GetDataSlice/GetData read (spec.md §3 "Preprocessor").
func (ip *Interpolator) AddPreprocessor(p Preprocessor) {
	ip.preprocessors = append(ip.preprocessors, p)
}

// Schema exposes the rewritten metadata after a successful
// ChangeProjection call, or nil before the first call.
func (ip *Interpolator) Schema() *reader.Schema {
	return ip.outSchema
}

// ChangeProjection rebuilds the interpolator's cached mapping onto a new
// destination grid (spec.md §4.6): it discovers the source coordinate
// system afresh on every call, resolves the destination axis values,
// builds the CachedInterpolation for method, and — if the dataset
// carries a schemaProvider — rewrites a copy of its metadata to describe
// the new grid (exposed by Schema).
//
// Per SPEC_FULL.md §7, failures here leave any previously installed
// mapping untouched: everything is built into local variables and only
// swapped into the Interpolator on success.
func (ip *Interpolator) ChangeProjection(method Method, dstProj4 string, xAxis, yAxis AxisSpec, xUnit, yUnit string, xType, yType reader.ElementType) error {
	cs, err := ip.discoverCoordSystem()
	if err != nil {
		return err
	}

	xs, ys, err := resolveAxis(ip.reg, cs, dstProj4, xAxis, yAxis)
	if err != nil {
		return err
	}

	cache, err := buildCache(ip.reg, method, cs, dstProj4, xs, ys, ip.cfg)
	if err != nil {
		return err
	}

	var vectorRep *vector.Reprojection
	if hasSpatialVector(ip.src) {
		flatX, flatY := meshgrid(xs, ys)
		matrices, err := ip.reg.VectorMatrix(cs.proj4, dstProj4, flatX, flatY)
		if err != nil {
			return wrapErr(ProjectionFailure, err, "building vector reprojection matrix")
		}
		vectorRep = vector.New(matrices)
	}

	var outSchema *reader.Schema
	if sp, ok := ip.src.(schemaProvider); ok {
		clone := sp.Schema().Clone()
		lons, lats, err := ip.rewriter.ChangeCoordinateSystem(clone, cs.xDimName, cs.yDimName, metadata.Params{
			DstProj4:      dstProj4,
			XValues:       xs,
			YValues:       ys,
			XUnit:         xUnit,
			YUnit:         yUnit,
			XType:         xType,
			YType:         yType,
			LatitudeName:  ip.cfg.latitudeName,
			LongitudeName: ip.cfg.longitudeName,
		})
		if err != nil {
			return wrapErr(ProjectionFailure, err, "rewriting metadata")
		}
		outSchema = clone
		if md, ok := ip.src.(*reader.MemDataset); ok && lons != nil {
			md.SetData(ip.cfg.longitudeName, lons)
			md.SetData(ip.cfg.latitudeName, lats)
		}
	}

	ip.cs = cs
	ip.method = method
	ip.dstProj = dstProj4
	ip.dstX, ip.dstY = "x", "y"
	ip.dstNx, ip.dstNy = len(xs), len(ys)
	ip.cache = cache
	ip.vectorRep = vectorRep
	if outSchema != nil {
		ip.outSchema = outSchema
	}
	return nil
}

// resolveAxis returns the explicit destination axis values, auto-filling
// from the source grid's projected bounding box when an AxisSpec carries
// no literal values (spec.md §4.6 "axis auto-bbox detection").
func resolveAxis(reg *proj.Registry, cs coordSystem, dstProj4 string, xAxis, yAxis AxisSpec) ([]float64, []float64, error) {
	if xAxis.resolved() && yAxis.resolved() {
		return xAxis.Values, yAxis.Values, nil
	}
	if proj.IsDegree(dstProj4) {
		return nil, nil, newErr(UnsupportedMethod, "axis auto-bbox detection is not supported for an angular destination projection")
	}

	dstX, dstY, err := reg.FromLonLat(dstProj4, cs.lons, cs.lats)
	if err != nil {
		return nil, nil, wrapErr(ProjectionFailure, err, "projecting source bounds for auto-bbox")
	}
	minX, maxX := minMax(dstX)
	minY, maxY := minMax(dstY)

	xs := xAxis.Values
	if !xAxis.resolved() {
		xs = linspace(minX, maxX, xAxis.N)
	}
	ys := yAxis.Values
	if !yAxis.resolved() {
		ys = linspace(minY, maxY, yAxis.N)
	}
	return xs, ys, nil
}

func minMax(vs []float64) (min, max float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	min, max = vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func linspace(start, end float64, n int) []float64 {
	if n <= 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// buildCache constructs the CachedInterpolation for method (spec.md
// §4.3), dispatching on the method family.
func buildCache(reg *proj.Registry, method Method, cs coordSystem, dstProj4 string, xs, ys []float64, cfg config) (*interp.Cache, error) {
	switch {
	case method.isForward():
		return buildForwardCache(reg, method, cs, dstProj4, xs, ys)
	case method.isCoordinate():
		return buildCoordinateCache(reg, method, cs, dstProj4, xs, ys, cfg)
	default:
		return buildBackwardCache(reg, method, cs, dstProj4, xs, ys)
	}
}

func kernelFor(method Method) (interp.Kernel, error) {
	switch method {
	case MethodNearest:
		return interp.NearestKernel, nil
	case MethodBilinear:
		return interp.BilinearKernel, nil
	case MethodBicubic:
		return interp.BicubicKernel, nil
	default:
		return nil, newErr(UnknownMethod, "method %s has no backward kernel", method)
	}
}

func buildBackwardCache(reg *proj.Registry, method Method, cs coordSystem, dstProj4 string, xs, ys []float64) (*interp.Cache, error) {
	kernel, err := kernelFor(method)
	if err != nil {
		return nil, err
	}

	flatX, flatY := meshgrid(xs, ys)
	srcX, srcY, err := reg.ProjectAxes(cs.proj4, dstProj4, flatX, flatY)
	if err != nil {
		return nil, wrapErr(ProjectionFailure, err, "projecting destination grid onto source projection")
	}

	backX := make([]float64, len(srcX))
	backY := make([]float64, len(srcY))
	for i := range srcX {
		fx := regularIndex(cs.xAxis, srcX[i])
		fy := regularIndex(cs.yAxis, srcY[i])
		if fx < 0 || fx > float64(len(cs.xAxis)-1) || fy < 0 || fy > float64(len(cs.yAxis)-1) {
			fx, fy = math.NaN(), math.NaN()
		}
		backX[i], backY[i] = fx, fy
	}

	return &interp.Cache{
		Kind:       interp.Backward,
		SrcNx:      len(cs.xAxis),
		SrcNy:      len(cs.yAxis),
		DstNx:      len(xs),
		DstNy:      len(ys),
		BackX:      backX,
		BackY:      backY,
		BackKernel: kernel,
	}, nil
}

func buildCoordinateCache(reg *proj.Registry, method Method, cs coordSystem, dstProj4 string, xs, ys []float64, cfg config) (*interp.Cache, error) {
	maxDist := cfg.distanceOfInterest / proj.EarthRadiusMeters
	if cfg.distanceOfInterest <= 0 || method != MethodCoordNNKD {
		maxDist = locate.RegionOfInfluence(cs.lons, cs.lats, 53, cfg.workers)
	}

	var loc locate.PointLocator
	if method == MethodCoordNNKD {
		loc = locate.NewTreeLocator(cs.lons, cs.lats, maxDist)
	} else {
		loc = locate.NewBruteForceLocator(cs.lons, cs.lats, maxDist)
	}

	flatDstLon, flatDstLat, err := dstLonLat(reg, dstProj4, xs, ys)
	if err != nil {
		return nil, err
	}

	backIdx := make([]int, len(flatDstLon))
	for i := range flatDstLon {
		backIdx[i] = loc.Nearest(flatDstLon[i], flatDstLat[i])
	}

	return &interp.Cache{
		Kind:      interp.Backward,
		SrcNx:     len(cs.xAxis),
		SrcNy:     len(cs.yAxis),
		DstNx:     len(xs),
		DstNy:     len(ys),
		BackIndex: backIdx,
	}, nil
}

func buildForwardCache(reg *proj.Registry, method Method, cs coordSystem, dstProj4 string, xs, ys []float64) (*interp.Cache, error) {
	var reduce interp.Reduction
	switch method {
	case MethodForwardSum:
		reduce = interp.ReduceSum
	case MethodForwardMean:
		reduce = interp.ReduceMean
	case MethodForwardMedian:
		reduce = interp.ReduceMedian
	case MethodForwardMax:
		reduce = interp.ReduceMax
	case MethodForwardMin:
		reduce = interp.ReduceMin
	default:
		return nil, newErr(UnknownMethod, "method %s is not a forward aggregation", method)
	}

	dstX, dstY, err := reg.FromLonLat(dstProj4, cs.lons, cs.lats)
	if err != nil {
		return nil, wrapErr(ProjectionFailure, err, "projecting source grid onto destination projection")
	}

	fwdIdx := make([]int, len(dstX))
	for i := range dstX {
		xi := int(math.Round(regularIndex(xs, dstX[i])))
		yi := int(math.Round(regularIndex(ys, dstY[i])))
		if xi < 0 || xi >= len(xs) || yi < 0 || yi >= len(ys) {
			fwdIdx[i] = -1
			continue
		}
		fwdIdx[i] = yi*len(xs) + xi
	}

	return &interp.Cache{
		Kind:         interp.Forward,
		SrcNx:        len(cs.xAxis),
		SrcNy:        len(cs.yAxis),
		DstNx:        len(xs),
		DstNy:        len(ys),
		FwdDestIndex: fwdIdx,
		Reduce:       reduce,
	}, nil
}

// dstLonLat converts a destination (xs, ys) regular grid into flattened
// geographic coordinates.
func dstLonLat(reg *proj.Registry, dstProj4 string, xs, ys []float64) ([]float64, []float64, error) {
	flatX, flatY := meshgrid(xs, ys)
	lons, lats, err := reg.ToLonLat(dstProj4, flatX, flatY)
	if err != nil {
		return nil, nil, wrapErr(ProjectionFailure, err, "deriving destination lon/lat")
	}
	return lons, lats, nil
}

func hasSpatialVector(r reader.Dataset) bool {
	for _, v := range r.Variables() {
		if v.IsSpatialVector {
			return true
		}
	}
	return false
}
