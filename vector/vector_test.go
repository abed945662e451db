package vector

import (
	"math"
	"testing"

	"github.com/nwxproj/reproject/proj"
)

func TestApplyRotation90Degrees(t *testing.T) {
	// A 90-degree rotation matrix: x' = -y, y' = x.
	r := New([]proj.Matrix2x2{{M11: 0, M12: -1, M21: 1, M22: 0}})
	outX, outY := r.Apply([]float64{1}, []float64{0})
	if math.Abs(outX[0]) > 1e-9 || math.Abs(outY[0]-1) > 1e-9 {
		t.Errorf("expected (0,1), got (%v,%v)", outX[0], outY[0])
	}
}

func TestApplyIdentityPreservesMagnitude(t *testing.T) {
	r := New([]proj.Matrix2x2{{M11: 1, M12: 0, M21: 0, M22: 1}})
	outX, outY := r.Apply([]float64{3}, []float64{4})
	mag := math.Hypot(outX[0], outY[0])
	if math.Abs(mag-5) > 1e-9 {
		t.Errorf("expected magnitude 5, got %v", mag)
	}
}

func TestClassifyDirection(t *testing.T) {
	cases := map[string]Direction{
		"eastward_wind":  DirectionX,
		"grid_longitude": DirectionX,
		"northward_wind": DirectionY,
		"grid_latitude":  DirectionY,
		"air_pressure":   DirectionUnknown,
	}
	for hint, want := range cases {
		if got := ClassifyDirection(hint); got != want {
			t.Errorf("ClassifyDirection(%q) = %v, want %v", hint, got, want)
		}
	}
}
