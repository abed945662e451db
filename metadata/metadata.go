// Package metadata implements the MetadataRewriter component (spec.md
// §3, §4.5): given a schema and a newly chosen destination coordinate
// system, it rewrites the schema's axes, dimensions, and per-variable
// attributes to describe the new grid, in the style of
// CDMInterpolator.cc's changeCDM.
package metadata

import (
	"fmt"

	"github.com/nwxproj/reproject/proj"
	"github.com/nwxproj/reproject/reader"
)

// AxisKind matches proj.AxisKind, exported here so callers that only
// import metadata don't need to reach into proj for this one type.
type AxisKind = proj.AxisKind

// Params describes the coordinate system being installed.
type Params struct {
	DstProj4      string
	XValues       []float64
	YValues       []float64
	XUnit, YUnit  string
	XType, YType  reader.ElementType
	XDimName      string // default "x"
	YDimName      string // default "y"
	LatitudeName  string // default "lat"
	LongitudeName string // default "lon"
}

func (p *Params) fillDefaults() {
	if p.XDimName == "" {
		p.XDimName = "x"
	}
	if p.YDimName == "" {
		p.YDimName = "y"
	}
	if p.LatitudeName == "" {
		p.LatitudeName = "lat"
	}
	if p.LongitudeName == "" {
		p.LongitudeName = "lon"
	}
}

// standardNameFor returns the CF standard_name CDMInterpolator.cc's
// changeCDM selects by projection family, for the new x/y axis
// variables.
func standardNameFor(proj4 string) (xName, yName string) {
	if proj.IsDegree(proj4) {
		return "longitude", "latitude"
	}
	return "projection_x_coordinate", "projection_y_coordinate"
}

// Rewriter applies coordinate-system changes to a reader.Schema.
type Rewriter struct {
	reg *proj.Registry
}

// New builds a Rewriter backed by the given projection registry.
func New(reg *proj.Registry) *Rewriter {
	return &Rewriter{reg: reg}
}

// ChangeCoordinateSystem rewrites schema in place to describe the new
// (x, y) axes under dstProj4: old x/y axis variables and now-unreferenced
// dimensions belonging to srcXDim/srcYDim are removed, new axis variables
// and dimensions are installed, a grid_mapping variable is created with
// the destination projection's CF attributes, and every variable whose
// shape included the old x/y dimensions is rewired onto the new ones. For
// a non-latlong destination, 2D longitude/latitude coordinate variables
// are generated (changeCDM's "generateProjectionCoordinates").
// ChangeCoordinateSystem returns the generated 2D (lon, lat) coordinate
// arrays when the destination is not a latlong grid, so the caller can
// install them as data (e.g. via MemDataset.SetData); both are nil for a
// latlong destination, where the 1D axis values already are lon/lat.
func (r *Rewriter) ChangeCoordinateSystem(schema *reader.Schema, srcXDim, srcYDim string, p Params) (lonVals, latVals []float64, err error) {
	p.fillDefaults()

	affected := variablesOnAxes(schema, srcXDim, srcYDim)

	removeGridMapping(schema, affected)

	// Rewire affected variables onto the new dimension names before
	// touching the schema's dimension set, so RemoveDimension's
	// still-referenced check below sees the new names, not the old ones.
	for _, name := range affected {
		v, ok := schema.Variable(name)
		if !ok {
			continue
		}
		schema.SetShape(name, rewireShape(v.Shape, srcXDim, srcYDim, p.XDimName, p.YDimName))
	}

	if srcXDim != p.XDimName {
		schema.RemoveVariable(srcXDim)
	}
	if srcYDim != p.YDimName {
		schema.RemoveVariable(srcYDim)
	}

	schema.AddDimension(reader.Dimension{Name: p.XDimName, Length: len(p.XValues)})
	schema.AddDimension(reader.Dimension{Name: p.YDimName, Length: len(p.YValues)})
	if srcXDim != p.XDimName {
		schema.RemoveDimension(srcXDim)
	}
	if srcYDim != p.YDimName {
		schema.RemoveDimension(srcYDim)
	}

	xStdName, yStdName := standardNameFor(p.DstProj4)
	schema.AddVariable(reader.Variable{
		Name:  p.XDimName,
		Shape: []string{p.XDimName},
		Type:  p.XType,
		Attributes: []reader.Attribute{
			{Name: "units", Value: p.XUnit},
			{Name: "standard_name", Value: xStdName},
		},
	})
	schema.AddVariable(reader.Variable{
		Name:  p.YDimName,
		Shape: []string{p.YDimName},
		Type:  p.YType,
		Attributes: []reader.Attribute{
			{Name: "units", Value: p.YUnit},
			{Name: "standard_name", Value: yStdName},
		},
	})

	gridMappingName := "latitude_longitude"
	if !proj.IsDegree(p.DstProj4) {
		gridMappingName = proj.Name(p.DstProj4)
	}
	const gmVar = "grid_mapping"
	schema.AddVariable(reader.Variable{
		Name: gmVar,
		Attributes: []reader.Attribute{
			{Name: "grid_mapping_name", Value: gridMappingName},
			{Name: "proj4", Value: p.DstProj4},
		},
	})

	var coordsAttr string
	if !proj.IsDegree(p.DstProj4) {
		genLon, genLat, genErr := r.reg.ToLonLat(p.DstProj4, meshgridX(p.XValues, len(p.YValues)), meshgridY(p.YValues, len(p.XValues)))
		if genErr != nil {
			return nil, nil, fmt.Errorf("metadata: generating projection coordinates: %w", genErr)
		}
		schema.AddVariable(reader.Variable{
			Name:  p.LongitudeName,
			Shape: []string{p.YDimName, p.XDimName},
			Type:  reader.Float64,
			Attributes: []reader.Attribute{
				{Name: "units", Value: "degrees_east"},
				{Name: "standard_name", Value: "longitude"},
			},
		})
		schema.AddVariable(reader.Variable{
			Name:  p.LatitudeName,
			Shape: []string{p.YDimName, p.XDimName},
			Type:  reader.Float64,
			Attributes: []reader.Attribute{
				{Name: "units", Value: "degrees_north"},
				{Name: "standard_name", Value: "latitude"},
			},
		})
		lonVals, latVals = genLon, genLat
		coordsAttr = p.LongitudeName + " " + p.LatitudeName
	}

	for _, name := range affected {
		schema.AddOrReplaceAttribute(name, reader.Attribute{Name: "grid_mapping", Value: gmVar})
		if coordsAttr != "" {
			schema.AddOrReplaceAttribute(name, reader.Attribute{Name: "coordinates", Value: coordsAttr})
		} else {
			schema.RemoveAttribute(name, "coordinates")
		}
	}

	return lonVals, latVals, nil
}

// variablesOnAxes returns the names of every variable whose shape
// references both xDim and yDim.
func variablesOnAxes(schema *reader.Schema, xDim, yDim string) []string {
	var out []string
	for _, v := range schema.Variables() {
		hasX, hasY := false, false
		for _, d := range v.Shape {
			if d == xDim {
				hasX = true
			}
			if d == yDim {
				hasY = true
			}
		}
		if hasX && hasY {
			out = append(out, v.Name)
		}
	}
	return out
}

// removeGridMapping drops any existing grid_mapping attribute (and the
// referenced grid-mapping variable, if now unused) from the affected
// variables, mirroring changeCDM's cleanup of the previous coordinate
// system's metadata before installing the new one.
func removeGridMapping(schema *reader.Schema, affected []string) {
	seen := make(map[string]bool)
	for _, name := range affected {
		v, ok := schema.Variable(name)
		if !ok {
			continue
		}
		if a, ok := v.Attribute("grid_mapping"); ok {
			if s, ok := a.Value.(string); ok {
				seen[s] = true
			}
		}
		schema.RemoveAttribute(name, "grid_mapping")
	}
	for gm := range seen {
		schema.RemoveVariable(gm)
	}
}

func rewireShape(shape []string, oldX, oldY, newX, newY string) []string {
	out := make([]string, len(shape))
	for i, d := range shape {
		switch d {
		case oldX:
			out[i] = newX
		case oldY:
			out[i] = newY
		default:
			out[i] = d
		}
	}
	return out
}

// meshgridX repeats xs ny times to build the flattened x-coordinate of a
// (ny, nx) mesh, row-major.
func meshgridX(xs []float64, ny int) []float64 {
	out := make([]float64, 0, len(xs)*ny)
	for j := 0; j < ny; j++ {
		out = append(out, xs...)
	}
	return out
}

// meshgridY repeats each element of ys nx times to build the flattened
// y-coordinate of a (ny, nx) mesh, row-major.
func meshgridY(ys []float64, nx int) []float64 {
	out := make([]float64, 0, len(ys)*nx)
	for _, y := range ys {
		for i := 0; i < nx; i++ {
			out = append(out, y)
		}
	}
	return out
}
