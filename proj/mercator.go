package proj

import "math"

// mercator is the spherical Mercator projection with a standard-parallel
// scale factor, ported from the teacher's grid/mercator.go (which only
// had the inverse direction; forward is added here).
type mercator struct {
	lonOrigin float64 // radians, reference meridian (proj4 lon_0)
	laD       float64 // radians, standard parallel
	r         float64
	scale     float64
}

func newMercator(params map[string]string) (*mercator, error) {
	r := floatParam(params, "R", EarthRadiusMeters)
	laD := deg2rad(floatParam(params, "lat_ts", 0))
	lon0 := deg2rad(floatParam(params, "lon_0", 0))
	return &mercator{
		lonOrigin: lon0,
		laD:       laD,
		r:         r,
		scale:     1.0 / math.Cos(laD),
	}, nil
}

func (p *mercator) Name() string { return "mercator" }

func (p *mercator) IsDegree() bool { return false }

func (p *mercator) Forward(lon, lat float64) (x, y float64) {
	lonR := deg2rad(lon)
	latR := deg2rad(lat)
	x = p.r * (lonR - p.lonOrigin) * p.scale
	y = p.r * math.Log(math.Tan(math.Pi/4+latR/2)) * p.scale
	return x, y
}

func (p *mercator) Inverse(x, y float64) (lon, lat float64) {
	lonR := p.lonOrigin + (x/p.scale)/p.r
	latR := 2*math.Atan(math.Exp((y/p.scale)/p.r)) - math.Pi/2
	return normLon(rad2deg(lonR)), rad2deg(latR)
}
