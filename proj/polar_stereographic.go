package proj

import "math"

// polarStereographic is the spherical polar stereographic projection
// (USGS GCTP formulas), ported from the teacher's
// grid/polar_stereographic.go for both pole cases; forward direction
// added alongside the existing inverse.
type polarStereographic struct {
	north bool
	lonV  float64 // radians, orientation longitude (proj4 lon_0)
	mcs   float64
	tcs   float64
	r     float64
}

func newPolarStereographic(params map[string]string) (*polarStereographic, error) {
	r := floatParam(params, "R", EarthRadiusMeters)
	lat0 := floatParam(params, "lat_0", 90)
	north := lat0 >= 0
	_, southFlag := params["south"]
	if southFlag {
		north = false
	}
	laD := deg2rad(floatParam(params, "lat_ts", math.Abs(lat0)))
	lonV := deg2rad(floatParam(params, "lon_0", 0))

	return &polarStereographic{
		north: north,
		lonV:  lonV,
		mcs:   math.Cos(math.Abs(laD)),
		tcs:   math.Tan((math.Pi/2 - math.Abs(laD)) / 2),
		r:     r,
	}, nil
}

func (p *polarStereographic) Name() string { return "polar_stereographic" }

func (p *polarStereographic) IsDegree() bool { return false }

func (p *polarStereographic) Forward(lon, lat float64) (x, y float64) {
	lonR := deg2rad(lon)
	latR := deg2rad(lat)
	theta := lonR - p.lonV
	if p.north {
		t := math.Tan((math.Pi/2 - latR) / 2)
		rho := p.r * p.mcs * t / p.tcs
		x = rho * math.Sin(theta)
		y = -rho * math.Cos(theta)
	} else {
		t := math.Tan((math.Pi/2 + latR) / 2)
		rho := p.r * p.mcs * t / p.tcs
		x = rho * math.Sin(theta)
		y = rho * math.Cos(theta)
	}
	return x, y
}

func (p *polarStereographic) Inverse(x, y float64) (lon, lat float64) {
	rho := math.Hypot(x, y)
	if rho == 0 {
		if p.north {
			return 0, 90
		}
		return 0, -90
	}
	ts := rho * p.tcs / (p.r * p.mcs)
	var latR, lonR float64
	if p.north {
		latR = math.Pi/2 - 2*math.Atan(ts)
		lonR = p.lonV + math.Atan2(x, -y)
	} else {
		latR = -math.Pi/2 + 2*math.Atan(ts)
		lonR = p.lonV + math.Atan2(x, y)
	}
	return normLon(rad2deg(lonR)), rad2deg(latR)
}
