package reproject

import (
	"context"
	"errors"
	"log"

	"github.com/nwxproj/reproject/geo"
	"github.com/nwxproj/reproject/internal/parallel"
	"github.com/nwxproj/reproject/reader"
	"github.com/nwxproj/reproject/vector"
)

// GetDataSlice fetches one horizontal plane of varName from the
// underlying dataset and resamples it onto the current destination grid
// (spec.md §4.7 "SliceEngine", CDMInterpolator.cc's getDataSlice /
// processArray_). ChangeProjection must have built a cache first.
//
// If varName is one component of a spatial vector pair and a vector
// rotation matrix is available, its counterpart is fetched and
// resampled too, and both are rotated into the destination frame before
// the requested component is returned. If the pairing metadata is
// present but no vector matrix was built (ChangeProjection builds one
// only when some variable was tagged as a spatial vector at that time),
// or the counterpart or directions cannot be resolved, the component is
// resampled as an ordinary scalar and a warning is logged rather than
// failing the read (SPEC_FULL.md §7, WARN-level degradations).
func (ip *Interpolator) GetDataSlice(varName string, unlimitedDimPos int) ([]float64, error) {
	if ip.cache == nil {
		return nil, newErr(UnsupportedMethod, "ChangeProjection has not been called")
	}

	v, ok := ip.src.Variable(varName)
	if !ok {
		return nil, wrapErr(ReaderFailure, &missingVariable{varName}, "resolving %s", varName)
	}

	resampled, err := ip.fetchAndResample(varName, v.FillValue, unlimitedDimPos)
	if err != nil {
		return nil, err
	}

	if !v.IsSpatialVector {
		return resampled, nil
	}
	if ip.vectorRep == nil {
		log.Printf("warn: reproject: %s is tagged as a spatial vector component but no vector reprojection matrix is available; returning a plain scalar resample", varName)
		return resampled, nil
	}

	counterpart, ok := ip.src.Variable(v.VectorCounterpart)
	if !ok {
		log.Printf("warn: reproject: %s names vector counterpart %q which does not exist; returning a plain scalar resample", varName, v.VectorCounterpart)
		return resampled, nil
	}

	dirSelf := vector.ClassifyDirection(v.VectorDirection)
	dirOther := vector.ClassifyDirection(counterpart.VectorDirection)
	if dirSelf == vector.DirectionUnknown || dirOther == vector.DirectionUnknown || dirSelf == dirOther {
		log.Printf("warn: reproject: could not classify vector direction for %s/%s; returning a plain scalar resample", varName, v.VectorCounterpart)
		return resampled, nil
	}

	counterResampled, err := ip.fetchAndResample(v.VectorCounterpart, counterpart.FillValue, unlimitedDimPos)
	if err != nil {
		return nil, err
	}

	var xComp, yComp []float64
	selfIsX := dirSelf == vector.DirectionX
	if selfIsX {
		xComp, yComp = resampled, counterResampled
	} else {
		xComp, yComp = counterResampled, resampled
	}

	outX, outY := ip.vectorRep.Apply(xComp, yComp)
	if selfIsX {
		return outX, nil
	}
	return outY, nil
}

// GetData fetches and resamples every z-plane of varName, running the
// registered preprocessors and the cached interpolation across planes on
// the same worker-pool schedule CDMInterpolator.cc's
// "#pragma omp parallel for if (nz >= 4)" uses (SPEC_FULL.md §5), via
// internal/parallel.Planes.
func (ip *Interpolator) GetData(varName string) ([]float64, error) {
	if ip.cache == nil {
		return nil, newErr(UnsupportedMethod, "ChangeProjection has not been called")
	}
	v, ok := ip.src.Variable(varName)
	if !ok {
		return nil, wrapErr(ReaderFailure, &missingVariable{varName}, "resolving %s", varName)
	}

	nz := nzOf(v, ip.src.Dimensions())
	planeLen := ip.cache.DstNx * ip.cache.DstNy
	out := make([]float64, planeLen*nz)

	err := parallel.Planes(context.Background(), nz, ip.cfg.workers, func(z int) error {
		resampled, err := ip.fetchAndResample(varName, v.FillValue, z)
		if err != nil {
			return err
		}
		copy(out[z*planeLen:(z+1)*planeLen], resampled)
		return nil
	})
	if err != nil {
		var domainErr *Error
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, wrapErr(ReaderFailure, err, "reading %s", varName)
	}
	return out, nil
}

// fetchAndResample reads one plane, bridges its fill value to NaN, runs
// the registered preprocessors over it, and resamples it through the
// current cache.
func (ip *Interpolator) fetchAndResample(varName string, fillValue float64, unlimitedDimPos int) ([]float64, error) {
	raw, err := ip.src.GetDataSlice(varName, unlimitedDimPos)
	if err != nil {
		return nil, wrapErr(ReaderFailure, err, "reading %s", varName)
	}
	plane := geo.NaNFromFill(raw, fillValue)
	for _, p := range ip.preprocessors {
		p.Apply(plane, ip.cache.SrcNx, ip.cache.SrcNy)
	}
	return ip.cache.Apply(plane), nil
}

// nzOf returns the number of horizontal planes a variable carries beyond
// its innermost two (x, y) dimensions, 1 for a purely horizontal
// variable.
func nzOf(v reader.Variable, dims []reader.Dimension) int {
	if len(v.Shape) <= 2 {
		return 1
	}
	lengths := make(map[string]int, len(dims))
	for _, d := range dims {
		lengths[d.Name] = d.Length
	}
	nz := 1
	for _, d := range v.Shape[:len(v.Shape)-2] {
		if n, ok := lengths[d]; ok && n > 0 {
			nz *= n
		}
	}
	return nz
}

type missingVariable struct{ name string }

func (e *missingVariable) Error() string { return "reproject: unknown variable " + e.name }
