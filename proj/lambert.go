package proj

import "math"

// lambert is the spherical Lambert Conformal Conic projection, forward
// and inverse. The inverse direction (and the cone-constant/F/rho0 setup)
// is ported from the teacher's grid/lambert.go, generalized from fixed
// GRIB2 template fields to proj4 parameters; the forward direction is
// added so the engine can project destination points into this family
// when it is the *source* projection (changeProjectionByCoordinates,
// changeProjectionByProjectionParameters).
type lambert struct {
	lat1, lat2 float64 // standard parallels, radians
	lat0, lon0 float64 // origin, radians
	r          float64

	n    float64
	f    float64
	rho0 float64
}

func newLambert(params map[string]string) (*lambert, error) {
	r := floatParam(params, "R", EarthRadiusMeters)
	lat1 := deg2rad(floatParam(params, "lat_1", 25))
	lat2 := deg2rad(floatParam(params, "lat_2", lat1*180/math.Pi))
	lat0 := deg2rad(floatParam(params, "lat_0", lat1*180/math.Pi))
	lon0 := deg2rad(floatParam(params, "lon_0", 0))

	var n float64
	if math.Abs(lat1-lat2) < 1e-9 {
		n = math.Sin(lat1)
	} else {
		n = math.Log(math.Cos(lat1)/math.Cos(lat2)) /
			math.Log(math.Tan(math.Pi/4+lat2/2)/math.Tan(math.Pi/4+lat1/2))
	}
	f := (math.Cos(lat1) * math.Pow(math.Tan(math.Pi/4+lat1/2), n)) / n
	rho0 := r * f * math.Pow(math.Tan(math.Pi/4+lat0/2), -n)

	return &lambert{
		lat1: lat1, lat2: lat2, lat0: lat0, lon0: lon0, r: r,
		n: n, f: f, rho0: rho0,
	}, nil
}

func (p *lambert) Name() string { return "lambert_conformal_conic" }

func (p *lambert) IsDegree() bool { return false }

func (p *lambert) Forward(lon, lat float64) (x, y float64) {
	lonR := deg2rad(lon)
	latR := deg2rad(lat)
	rho := p.r * p.f * math.Pow(math.Tan(math.Pi/4+latR/2), -p.n)
	theta := p.n * (lonR - p.lon0)
	x = rho * math.Sin(theta)
	y = p.rho0 - rho*math.Cos(theta)
	return x, y
}

func (p *lambert) Inverse(x, y float64) (lon, lat float64) {
	rho := math.Sqrt(x*x + (p.rho0-y)*(p.rho0-y))
	if p.n < 0 {
		rho = -rho
	}
	theta := math.Atan2(x, p.rho0-y)

	latR := 2*math.Atan(math.Pow((p.r*p.f)/rho, 1/p.n)) - math.Pi/2
	lonR := p.lon0 + theta/p.n
	return normLon(rad2deg(lonR)), rad2deg(latR)
}
