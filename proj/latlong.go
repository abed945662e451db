package proj

// latlong is the trivial identity projection: geographic coordinates are
// their own projected plane. Grounded on the teacher's grid/latlon.go,
// the one template whose native coordinates are already lat/lon degrees.
type latlong struct{}

func newLatLong() *latlong { return &latlong{} }

func (p *latlong) Name() string { return "latlong" }

func (p *latlong) IsDegree() bool { return true }

func (p *latlong) Forward(lon, lat float64) (x, y float64) { return lon, lat }

func (p *latlong) Inverse(x, y float64) (lon, lat float64) { return x, y }
