// Package vector implements the VectorReprojection component (spec.md
// §3, §4.4): rotating a pair of spatial-vector component fields (e.g.
// wind u/v) into a new coordinate frame, cell by cell, using a
// precomputed 2x2 rotation matrix per destination cell.
package vector

import (
	"strings"

	"github.com/nwxproj/reproject/proj"
)

// Reprojection holds the per-destination-cell rotation matrices built by
// proj.Registry.VectorMatrix for one (source, destination) projection
// pair. The "keep magnitude" size policy (spec.md §4.4) lives in how
// VectorMatrix normalizes those matrices; Apply itself does no rescaling.
type Reprojection struct {
	Matrices []proj.Matrix2x2
}

// New builds a Reprojection over n destination cells from precomputed
// matrices.
func New(matrices []proj.Matrix2x2) *Reprojection {
	return &Reprojection{Matrices: matrices}
}

// Apply rotates paired component arrays (xComp, yComp — already
// resampled onto the destination grid) and returns the rotated pair as
// new slices, leaving the inputs unchanged,
// following CDMInterpolator.cc's direction dispatch: the caller
// determines which of the two physical components is the "x-like"
// (longitude/eastward) one and which is "y-like" (latitude/northward)
// before calling Apply, since the rotation's argument order depends on
// that distinction (spec.md §4.4, "direction-dependent argument
// ordering").
func (r *Reprojection) Apply(xComp, yComp []float64) ([]float64, []float64) {
	n := len(r.Matrices)
	outX := make([]float64, n)
	outY := make([]float64, n)
	for i := 0; i < n; i++ {
		u, v := xComp[i], yComp[i]
		outX[i], outY[i] = r.Matrices[i].Apply(u, v)
	}
	return outX, outY
}

// Direction classifies a vector component variable's physical role so
// the planner can decide argument order, mirroring CDMInterpolator.cc's
// substring checks on the CF standard_name / variable "direction" hint
// ("x"/"longitude" vs "y"/"latitude").
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionX                // eastward / longitude-aligned component
	DirectionY                // northward / latitude-aligned component
)

// ClassifyDirection inspects a CF-style direction hint string the way
// CDMInterpolator.cc's hasSpatialVectors/getDataSlice does: a
// case-sensitive substring search for "x" or "longitude" (DirectionX),
// then "y" or "latitude" (DirectionY). Also recognizes the CF
// standard_name synonyms "eastward"/"northward" (e.g.
// "eastward_wind"/"northward_wind"), which carry neither an "x" nor a
// "y" substring but are the most common real-world direction hints a
// reader.Variable.VectorDirection is documented to carry.
func ClassifyDirection(hint string) Direction {
	if strings.Contains(hint, "x") || strings.Contains(hint, "longitude") || strings.Contains(hint, "eastward") {
		return DirectionX
	}
	if strings.Contains(hint, "y") || strings.Contains(hint, "latitude") || strings.Contains(hint, "northward") {
		return DirectionY
	}
	return DirectionUnknown
}
