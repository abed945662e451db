package locate

import "testing"

func gridLonsLats() ([]float64, []float64) {
	var lons, lats []float64
	for _, la := range []float64{-10, -5, 0, 5, 10} {
		for _, lo := range []float64{-10, -5, 0, 5, 10} {
			lons = append(lons, lo)
			lats = append(lats, la)
		}
	}
	return lons, lats
}

func TestBruteForceLocatorExactMatch(t *testing.T) {
	lons, lats := gridLonsLats()
	loc := NewBruteForceLocator(lons, lats, 0.1)
	idx := loc.Nearest(0, 0)
	if idx == NoMatch {
		t.Fatal("expected a match at an exact grid point")
	}
	if lons[idx] != 0 || lats[idx] != 0 {
		t.Errorf("expected nearest point (0,0), got (%v,%v)", lons[idx], lats[idx])
	}
}

func TestBruteForceLocatorOutOfRange(t *testing.T) {
	lons, lats := gridLonsLats()
	loc := NewBruteForceLocator(lons, lats, 0.001)
	idx := loc.Nearest(50, 50)
	if idx != NoMatch {
		t.Errorf("expected NoMatch far outside the grid, got index %d", idx)
	}
}

func TestTreeLocatorExactMatch(t *testing.T) {
	lons, lats := gridLonsLats()
	loc := NewTreeLocator(lons, lats, 0.1)
	idx := loc.Nearest(5, 5)
	if idx == NoMatch {
		t.Fatal("expected a match at an exact grid point")
	}
	if lons[idx] != 5 || lats[idx] != 5 {
		t.Errorf("expected nearest point (5,5), got (%v,%v)", lons[idx], lats[idx])
	}
}

func TestTreeLocatorOutOfRange(t *testing.T) {
	lons, lats := gridLonsLats()
	loc := NewTreeLocator(lons, lats, 0.001)
	idx := loc.Nearest(50, 50)
	if idx != NoMatch {
		t.Errorf("expected NoMatch far outside the grid, got index %d", idx)
	}
}

func TestRegionOfInfluencePositive(t *testing.T) {
	lons, lats := gridLonsLats()
	roi := RegionOfInfluence(lons, lats, 53, 2)
	if roi <= 0 {
		t.Errorf("expected positive region of influence, got %v", roi)
	}
}
