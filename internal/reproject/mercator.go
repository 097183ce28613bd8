// Package reproject resamples regular lat/lon grids (EPSG:4326) into the
// spherical web-mercator projection (EPSG:3857) used by slippy-map overlays.
package reproject

import "math"

const (
	earthRadiusM = 6378137.0

	// maxLatitude is the latitude at which the square mercator world wraps.
	maxLatitude = 85.05112877980659
)

// Forward projects a lon/lat degree pair to mercator meters. Latitudes
// beyond the projectable range are clamped.
func Forward(lon, lat float64) (x, y float64) {
	if lat > maxLatitude {
		lat = maxLatitude
	}
	if lat < -maxLatitude {
		lat = -maxLatitude
	}
	x = earthRadiusM * lon * math.Pi / 180
	y = earthRadiusM * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// Inverse projects mercator meters back to a lon/lat degree pair.
func Inverse(x, y float64) (lon, lat float64) {
	lon = x / earthRadiusM * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/earthRadiusM)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}
