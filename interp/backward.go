package interp

import "math"

// at returns src[y*nx+x], or NaN if (x,y) falls outside [0,nx)x[0,ny).
func at(src []float64, nx, ny, x, y int) float64 {
	if x < 0 || x >= nx || y < 0 || y >= ny {
		return math.NaN()
	}
	return src[y*nx+x]
}

// NearestKernel rounds (fx, fy) to the closest source cell.
func NearestKernel(fx, fy float64, src []float64, nx, ny int) float64 {
	x := int(math.Round(fx))
	y := int(math.Round(fy))
	return at(src, nx, ny, x, y)
}

// BilinearKernel interpolates the four cells surrounding (fx, fy),
// propagating NaN if any of the four is missing (spec.md §4.3: a
// bilinear sample touching a fill cell is itself missing, not silently
// degraded to fewer corners).
func BilinearKernel(fx, fy float64, src []float64, nx, ny int) float64 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	v00 := at(src, nx, ny, x0, y0)
	v10 := at(src, nx, ny, x0+1, y0)
	v01 := at(src, nx, ny, x0, y0+1)
	v11 := at(src, nx, ny, x0+1, y0+1)
	if math.IsNaN(v00) || math.IsNaN(v10) || math.IsNaN(v01) || math.IsNaN(v11) {
		return math.NaN()
	}

	top := v00*(1-tx) + v10*tx
	bottom := v01*(1-tx) + v11*tx
	return top*(1-ty) + bottom*ty
}

// cubicWeight is the Catmull-Rom cubic convolution kernel with a = -0.5.
func cubicWeight(t float64) float64 {
	const a = -0.5
	t = math.Abs(t)
	switch {
	case t <= 1:
		return (a+2)*t*t*t - (a+3)*t*t + 1
	case t < 2:
		return a*t*t*t - 5*a*t*t + 8*a*t - 4*a
	default:
		return 0
	}
}

// BicubicKernel interpolates the 4x4 neighbourhood around (fx, fy) using
// Catmull-Rom convolution, propagating NaN if any of the sixteen source
// cells is missing. Near the source boundary, where the 4x4 stencil
// would reach outside the grid (fx < 1, fx > nx-2, and symmetrically in
// y), it falls back to BilinearKernel instead of returning NaN, per
// spec.md §4.3.1.
func BicubicKernel(fx, fy float64, src []float64, nx, ny int) float64 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))

	if x0-1 < 0 || x0+2 >= nx || y0-1 < 0 || y0+2 >= ny {
		return BilinearKernel(fx, fy, src, nx, ny)
	}

	var rows [4]float64
	for r := -1; r <= 2; r++ {
		var sum, wsum float64
		for cidx := -1; cidx <= 2; cidx++ {
			v := at(src, nx, ny, x0+cidx, y0+r)
			if math.IsNaN(v) {
				return math.NaN()
			}
			w := cubicWeight(fx - float64(x0+cidx))
			sum += v * w
			wsum += w
		}
		if wsum == 0 {
			return math.NaN()
		}
		rows[r+1] = sum / wsum
	}

	var sum, wsum float64
	for r := -1; r <= 2; r++ {
		w := cubicWeight(fy - float64(y0+r))
		sum += rows[r+1] * w
		wsum += w
	}
	if wsum == 0 {
		return math.NaN()
	}
	return sum / wsum
}
