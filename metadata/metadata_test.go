package metadata

import (
	"testing"

	"github.com/nwxproj/reproject/proj"
	"github.com/nwxproj/reproject/reader"
)

func baseSchema() *reader.Schema {
	s := reader.NewSchema(
		[]reader.Variable{
			{Name: "lon", Shape: []string{"lon"}, Type: reader.Float64},
			{Name: "lat", Shape: []string{"lat"}, Type: reader.Float64},
			{Name: "air_temperature", Shape: []string{"lat", "lon"}, Type: reader.Float64},
		},
		[]reader.Dimension{
			{Name: "lon", Length: 4},
			{Name: "lat", Length: 3},
		},
	)
	return s
}

func TestChangeCoordinateSystemToLatLon(t *testing.T) {
	s := baseSchema()
	rw := New(&proj.Registry{})
	_, _, err := rw.ChangeCoordinateSystem(s, "lon", "lat", Params{
		DstProj4: "+proj=longlat",
		XValues:  []float64{-10, 0, 10},
		YValues:  []float64{0, 10},
		XUnit:    "degrees_east",
		YUnit:    "degrees_north",
	})
	if err != nil {
		t.Fatal(err)
	}

	v, ok := s.Variable("air_temperature")
	if !ok {
		t.Fatal("air_temperature missing after rewrite")
	}
	if v.Shape[0] != "y" || v.Shape[1] != "x" {
		t.Errorf("expected shape rewired to [y x], got %v", v.Shape)
	}
	if !s.HasDimension("x") || !s.HasDimension("y") {
		t.Error("expected new x/y dimensions")
	}
	if s.HasDimension("lon") || s.HasDimension("lat") {
		t.Error("expected old lon/lat dimensions removed")
	}
}

func TestChangeCoordinateSystemToProjectedGrid(t *testing.T) {
	s := baseSchema()
	rw := New(&proj.Registry{})
	lons, lats, err := rw.ChangeCoordinateSystem(s, "lon", "lat", Params{
		DstProj4: "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000",
		XValues:  []float64{-1000, 0, 1000},
		YValues:  []float64{-1000, 0},
		XUnit:    "m",
		YUnit:    "m",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(lons) != 6 || len(lats) != 6 {
		t.Fatalf("expected 6 generated coordinate points, got %d/%d", len(lons), len(lats))
	}

	v, ok := s.Variable("air_temperature")
	if !ok {
		t.Fatal("air_temperature missing after rewrite")
	}
	if c, ok := v.Attribute("coordinates"); !ok || c.Value != "lon lat" {
		t.Errorf("expected coordinates attribute 'lon lat', got %v", c.Value)
	}
	if gm, ok := v.Attribute("grid_mapping"); !ok || gm.Value != "grid_mapping" {
		t.Errorf("expected grid_mapping attribute, got %v", gm)
	}
	if !s.HasVariable("lon") || !s.HasVariable("lat") {
		t.Error("expected generated 2D lon/lat coordinate variables")
	}
}
