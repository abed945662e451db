package proj

import "testing"

func roundTrip(t *testing.T, proj4 string, lon, lat float64) {
	t.Helper()
	p, err := parse(proj4)
	if err != nil {
		t.Fatalf("parse(%q): %v", proj4, err)
	}
	x, y := p.Forward(lon, lat)
	gotLon, gotLat := p.Inverse(x, y)
	if absf(gotLon-lon) > 1e-6 || absf(gotLat-lat) > 1e-6 {
		t.Errorf("%s: round-trip (%v,%v) -> (%v,%v) -> (%v,%v)", proj4, lon, lat, x, y, gotLon, gotLat)
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		proj4    string
		lon, lat float64
	}{
		{"+proj=longlat", -95, 35},
		{"+proj=lcc +lat_1=25 +lat_2=25 +lat_0=25 +lon_0=-95 +R=6371000", -95, 35},
		{"+proj=lcc +lat_1=33 +lat_2=45 +lat_0=39 +lon_0=-96 +R=6371000", -100, 40},
		{"+proj=stere +lat_0=90 +lat_ts=60 +lon_0=-150 +R=6371000", -140, 70},
		{"+proj=stere +lat_0=-90 +south +lat_ts=-60 +lon_0=0 +R=6371000", 10, -70},
		{"+proj=merc +lat_ts=0 +lon_0=0 +R=6371000", 30, 10},
	}
	for _, c := range cases {
		roundTrip(t, c.proj4, c.lon, c.lat)
	}
}

func TestParseUnsupportedProjection(t *testing.T) {
	if _, err := parse("+proj=utm +zone=10"); err == nil {
		t.Fatal("expected error for unsupported projection family")
	}
}

func TestNameAndIsDegree(t *testing.T) {
	if Name("+proj=stere +lat_0=90") != "stere" {
		t.Errorf("Name: got %q", Name("+proj=stere +lat_0=90"))
	}
	if !IsDegree("+proj=longlat") {
		t.Error("longlat should be degree-based")
	}
	if IsDegree("+proj=lcc +lat_1=25") {
		t.Error("lcc should not be degree-based")
	}
}

func TestRegistryProjectAxes(t *testing.T) {
	var r Registry
	outX, outY, err := r.ProjectAxes("+proj=longlat", "+proj=longlat", []float64{-95, -90}, []float64{35, 40})
	if err != nil {
		t.Fatal(err)
	}
	if len(outX) != 2 || outX[0] != -95 || outY[1] != 40 {
		t.Errorf("identity ProjectAxes mismatch: %v %v", outX, outY)
	}
}

func TestFromLonLatRoundTripsWithToLonLat(t *testing.T) {
	var r Registry
	proj4 := "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000"
	lons := []float64{-10, 30, 170}
	lats := []float64{60, 75, 85}

	xs, ys, err := r.FromLonLat(proj4, lons, lats)
	if err != nil {
		t.Fatal(err)
	}
	gotLons, gotLats, err := r.ToLonLat(proj4, xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	for i := range lons {
		if absf(gotLons[i]-lons[i]) > 1e-6 || absf(gotLats[i]-lats[i]) > 1e-6 {
			t.Errorf("round trip mismatch at %d: want (%v,%v) got (%v,%v)", i, lons[i], lats[i], gotLons[i], gotLats[i])
		}
	}
}

func TestProjectAxesMapsDestinationIntoSourceCoordinates(t *testing.T) {
	var r Registry
	srcProj := "+proj=longlat"
	dstProj := "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000"

	// A destination point expressed in dstProj's native (x, y) metres.
	dstX, dstY, err := r.FromLonLat(dstProj, []float64{15}, []float64{70})
	if err != nil {
		t.Fatal(err)
	}

	// ProjectAxes(srcProj, dstProj, ...) should recover that point's
	// source-projection (here: plain lon/lat) coordinates.
	srcX, srcY, err := r.ProjectAxes(srcProj, dstProj, dstX, dstY)
	if err != nil {
		t.Fatal(err)
	}
	if absf(srcX[0]-15) > 1e-6 || absf(srcY[0]-70) > 1e-6 {
		t.Errorf("ProjectAxes: got (%v,%v), want (15,70)", srcX[0], srcY[0])
	}
}

func TestVectorMatrixIdentityIsOrthonormal(t *testing.T) {
	var r Registry
	mats, err := r.VectorMatrix("+proj=longlat", "+proj=longlat", []float64{-95}, []float64{35})
	if err != nil {
		t.Fatal(err)
	}
	u, v := mats[0].Apply(1, 0)
	if absf(u-1) > 1e-3 || absf(v) > 1e-3 {
		t.Errorf("identity vector matrix should preserve (1,0), got (%v,%v)", u, v)
	}
}
