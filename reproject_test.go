package reproject

import (
	"errors"
	"math"
	"testing"

	"github.com/nwxproj/reproject/geo"
	"github.com/nwxproj/reproject/reader"
)

// buildLonLatDataset builds a small in-memory regular lon/lat grid
// carrying a single scalar variable, for exercising ChangeProjection end
// to end without a real file-format reader.
func buildLonLatDataset(lons, lats []float64, values []float64) *reader.MemDataset {
	schema := reader.NewSchema(
		[]reader.Variable{
			{Name: "lon", Shape: []string{"lon"}, Type: reader.Float64,
				Attributes: []reader.Attribute{{Name: "units", Value: "degrees_east"}}},
			{Name: "lat", Shape: []string{"lat"}, Type: reader.Float64,
				Attributes: []reader.Attribute{{Name: "units", Value: "degrees_north"}}},
			{Name: "air_temperature", Shape: []string{"lat", "lon"}, Type: reader.Float64, FillValue: geo.FillValue,
				Attributes: []reader.Attribute{{Name: "units", Value: "K"}}},
		},
		[]reader.Dimension{
			{Name: "lon", Length: len(lons)},
			{Name: "lat", Length: len(lats)},
		},
	)
	return reader.NewMemDataset(schema, map[string][]float64{
		"lon":             lons,
		"lat":             lats,
		"air_temperature": values,
	})
}

func regularGrid(lons, lats []float64, f func(lon, lat float64) float64) []float64 {
	out := make([]float64, 0, len(lons)*len(lats))
	for _, lat := range lats {
		for _, lon := range lons {
			out = append(out, f(lon, lat))
		}
	}
	return out
}

func TestChangeProjectionBilinearOntoPolarStereographic(t *testing.T) {
	lons := []float64{-10, -5, 0, 5, 10}
	lats := []float64{40, 45, 50, 55, 60}
	values := regularGrid(lons, lats, func(lon, lat float64) float64 { return 273.15 + lat })

	ds := buildLonLatDataset(lons, lats, values)
	ip := NewInterpolator(ds)

	dstProj := "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000"
	err := ip.ChangeProjection(
		MethodBilinear, dstProj,
		AxisSpec{N: 4}, AxisSpec{N: 4},
		"m", "m", reader.Float64, reader.Float64,
	)
	if err != nil {
		t.Fatalf("ChangeProjection: %v", err)
	}

	values2, err := ip.GetDataSlice("air_temperature", 0)
	if err != nil {
		t.Fatalf("GetDataSlice: %v", err)
	}
	if len(values2) != 4*4 {
		t.Fatalf("expected 16 values, got %d", len(values2))
	}

	valid := 0
	for _, v := range values2 {
		if !math.IsNaN(v) {
			valid++
			if v < 200 || v > 400 {
				t.Errorf("resampled value out of plausible range: %v", v)
			}
		}
	}
	if valid == 0 {
		t.Fatal("expected at least one non-NaN resampled value")
	}

	schema := ip.Schema()
	if schema == nil {
		t.Fatal("expected a rewritten schema after ChangeProjection on a MemDataset")
	}
	if !schema.HasVariable("air_temperature") {
		t.Error("rewritten schema lost the air_temperature variable")
	}
}

func TestChangeProjectionAutoBBoxFillsAxisFromSourceBounds(t *testing.T) {
	lons := []float64{-20, -10, 0, 10, 20}
	lats := []float64{30, 40, 50, 60, 70}
	values := regularGrid(lons, lats, func(lon, lat float64) float64 { return lat })

	ds := buildLonLatDataset(lons, lats, values)
	ip := NewInterpolator(ds)

	dstProj := "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000"
	err := ip.ChangeProjection(
		MethodNearest, dstProj,
		AxisSpec{N: 5}, AxisSpec{N: 5},
		"m", "m", reader.Float64, reader.Float64,
	)
	if err != nil {
		t.Fatalf("ChangeProjection: %v", err)
	}

	values2, err := ip.GetDataSlice("air_temperature", 0)
	if err != nil {
		t.Fatalf("GetDataSlice: %v", err)
	}

	valid := 0
	for _, v := range values2 {
		if !math.IsNaN(v) {
			valid++
		}
	}
	if valid == 0 {
		t.Fatal("auto-bbox axis should land at least some destination cells inside the source domain")
	}
}

func TestChangeProjectionCoordinateNearest(t *testing.T) {
	lons := []float64{-10, -5, 0, 5, 10}
	lats := []float64{40, 45, 50, 55, 60}
	values := regularGrid(lons, lats, func(lon, lat float64) float64 { return lon })

	ds := buildLonLatDataset(lons, lats, values)
	ip := NewInterpolator(ds)

	dstProj := "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000"
	err := ip.ChangeProjection(
		MethodCoordNN, dstProj,
		AxisSpec{N: 3}, AxisSpec{N: 3},
		"m", "m", reader.Float64, reader.Float64,
	)
	if err != nil {
		t.Fatalf("ChangeProjection: %v", err)
	}

	values2, err := ip.GetDataSlice("air_temperature", 0)
	if err != nil {
		t.Fatalf("GetDataSlice: %v", err)
	}
	if len(values2) != 9 {
		t.Fatalf("expected 9 values, got %d", len(values2))
	}
}

func TestChangeProjectionForwardMean(t *testing.T) {
	lons := []float64{-20, -10, 0, 10, 20}
	lats := []float64{30, 40, 50, 60, 70}
	values := regularGrid(lons, lats, func(lon, lat float64) float64 { return lat })

	ds := buildLonLatDataset(lons, lats, values)
	ip := NewInterpolator(ds)

	dstProj := "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000"
	err := ip.ChangeProjection(
		MethodForwardMean, dstProj,
		AxisSpec{N: 4}, AxisSpec{N: 4},
		"m", "m", reader.Float64, reader.Float64,
	)
	if err != nil {
		t.Fatalf("ChangeProjection: %v", err)
	}

	values2, err := ip.GetDataSlice("air_temperature", 0)
	if err != nil {
		t.Fatalf("GetDataSlice: %v", err)
	}

	valid := 0
	for _, v := range values2 {
		if !math.IsNaN(v) {
			valid++
		}
	}
	if valid == 0 {
		t.Fatal("expected at least one destination cell to receive an aggregated source value")
	}
}

func TestChangeProjectionFailureLeavesPreviousCacheIntact(t *testing.T) {
	lons := []float64{-10, -5, 0, 5, 10}
	lats := []float64{40, 45, 50, 55, 60}
	values := regularGrid(lons, lats, func(lon, lat float64) float64 { return lat })

	ds := buildLonLatDataset(lons, lats, values)
	ip := NewInterpolator(ds)

	dstProj := "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000"
	if err := ip.ChangeProjection(
		MethodNearest, dstProj,
		AxisSpec{N: 3}, AxisSpec{N: 3},
		"m", "m", reader.Float64, reader.Float64,
	); err != nil {
		t.Fatalf("initial ChangeProjection: %v", err)
	}
	firstCache := ip.cache

	// Auto-bbox axis detection against an angular destination projection
	// is unsupported (see UnsupportedMethod) and must fail without disturbing
	// the interpolator's existing cache.
	err := ip.ChangeProjection(
		MethodNearest, "+proj=longlat",
		AxisSpec{N: 3}, AxisSpec{N: 3},
		"degrees", "degrees", reader.Float64, reader.Float64,
	)
	if err == nil {
		t.Fatal("expected an error for auto-bbox against an angular destination projection")
	}
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected a *Error, got %T: %v", err, err)
	}
	if domainErr.Kind != UnsupportedMethod {
		t.Errorf("expected UnsupportedMethod, got %v", domainErr.Kind)
	}
	if ip.cache != firstCache {
		t.Error("a failed ChangeProjection call must not replace the previously installed cache")
	}
}

func TestGetDataSliceWithoutChangeProjectionFails(t *testing.T) {
	ds := buildLonLatDataset([]float64{0, 1}, []float64{0, 1}, []float64{1, 2, 3, 4})
	ip := NewInterpolator(ds)
	if _, err := ip.GetDataSlice("air_temperature", 0); err == nil {
		t.Fatal("expected an error before any ChangeProjection call")
	}
}

func TestGetDataUnknownVariable(t *testing.T) {
	lons := []float64{-10, 0, 10}
	lats := []float64{40, 50, 60}
	values := regularGrid(lons, lats, func(lon, lat float64) float64 { return lat })
	ds := buildLonLatDataset(lons, lats, values)
	ip := NewInterpolator(ds)

	err := ip.ChangeProjection(
		MethodNearest, "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000",
		AxisSpec{N: 3}, AxisSpec{N: 3},
		"m", "m", reader.Float64, reader.Float64,
	)
	if err != nil {
		t.Fatalf("ChangeProjection: %v", err)
	}
	if _, err := ip.GetDataSlice("no_such_variable", 0); err == nil {
		t.Fatal("expected an error for an unknown variable")
	}
}

func TestGetDataAllPlanes(t *testing.T) {
	lons := []float64{-10, 0, 10}
	lats := []float64{40, 50, 60}
	nz := 3
	values := make([]float64, 0, nz*len(lons)*len(lats))
	for z := 0; z < nz; z++ {
		values = append(values, regularGrid(lons, lats, func(lon, lat float64) float64 { return lat + float64(z) })...)
	}

	schema := reader.NewSchema(
		[]reader.Variable{
			{Name: "lon", Shape: []string{"lon"}, Type: reader.Float64},
			{Name: "lat", Shape: []string{"lat"}, Type: reader.Float64},
			{Name: "level", Shape: []string{"level"}, Type: reader.Float64},
			{Name: "air_temperature", Shape: []string{"level", "lat", "lon"}, Type: reader.Float64, FillValue: geo.FillValue},
		},
		[]reader.Dimension{
			{Name: "lon", Length: len(lons)},
			{Name: "lat", Length: len(lats)},
			{Name: "level", Length: nz},
		},
	)
	ds := reader.NewMemDataset(schema, map[string][]float64{
		"lon":             lons,
		"lat":             lats,
		"level":           {1, 2, 3},
		"air_temperature": values,
	})

	ip := NewInterpolator(ds, WithWorkers(2))
	err := ip.ChangeProjection(
		MethodNearest, "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000",
		AxisSpec{N: 3}, AxisSpec{N: 3},
		"m", "m", reader.Float64, reader.Float64,
	)
	if err != nil {
		t.Fatalf("ChangeProjection: %v", err)
	}

	out, err := ip.GetData("air_temperature")
	if err != nil {
		t.Fatalf("GetData: %v", err)
	}
	if len(out) != nz*3*3 {
		t.Fatalf("expected %d values, got %d", nz*3*3, len(out))
	}
}

func TestVectorPairRotation(t *testing.T) {
	lons := []float64{-10, -5, 0, 5, 10}
	lats := []float64{40, 45, 50, 55, 60}
	uValues := regularGrid(lons, lats, func(lon, lat float64) float64 { return 1 })
	vValues := regularGrid(lons, lats, func(lon, lat float64) float64 { return 0 })

	schema := reader.NewSchema(
		[]reader.Variable{
			{Name: "lon", Shape: []string{"lon"}, Type: reader.Float64},
			{Name: "lat", Shape: []string{"lat"}, Type: reader.Float64},
			{Name: "x_wind", Shape: []string{"lat", "lon"}, Type: reader.Float64, FillValue: geo.FillValue,
				IsSpatialVector: true, VectorCounterpart: "y_wind", VectorDirection: "x_wind"},
			{Name: "y_wind", Shape: []string{"lat", "lon"}, Type: reader.Float64, FillValue: geo.FillValue,
				IsSpatialVector: true, VectorCounterpart: "x_wind", VectorDirection: "y_wind"},
		},
		[]reader.Dimension{
			{Name: "lon", Length: len(lons)},
			{Name: "lat", Length: len(lats)},
		},
	)
	ds := reader.NewMemDataset(schema, map[string][]float64{
		"lon":    lons,
		"lat":    lats,
		"x_wind": uValues,
		"y_wind": vValues,
	})

	ip := NewInterpolator(ds)
	err := ip.ChangeProjection(
		MethodBilinear, "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000",
		AxisSpec{N: 4}, AxisSpec{N: 4},
		"m", "m", reader.Float64, reader.Float64,
	)
	if err != nil {
		t.Fatalf("ChangeProjection: %v", err)
	}

	out, err := ip.GetDataSlice("x_wind", 0)
	if err != nil {
		t.Fatalf("GetDataSlice: %v", err)
	}

	// The vector-pair path (counterpart fetch, resample, rotation) must
	// yield at least one resolved x_wind value on the destination grid.
	valid := 0
	for _, v := range out {
		if !math.IsNaN(v) {
			valid++
		}
	}
	if valid == 0 {
		t.Fatal("expected at least one resolved vector component")
	}
}

