package geometry

import (
	"math"
)

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// DistNM returns the great-circle distance between two lat/lon points in
// nautical miles, via the haversine formula. Symmetric and always >= 0.
func DistNM(lat1, lon1, lat2, lon2 float64) float64 {
	r1 := lat1 * math.Pi / 180
	r2 := lat2 * math.Pi / 180

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	// normalize for dateline crossing
	for dLon > math.Pi {
		dLon -= 2 * math.Pi
	}
	for dLon < -math.Pi {
		dLon += 2 * math.Pi
	}

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(r1)*math.Cos(r2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusNM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// InitialBearing returns the initial great-circle bearing from point 1 to
// point 2 in degrees true, normalized to [0, 360).
func InitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	r1 := lat1 * math.Pi / 180
	r2 := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(r2)
	x := math.Cos(r1)*math.Sin(r2) - math.Sin(r1)*math.Cos(r2)*math.Cos(dLon)

	brg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(brg+360, 360)
}

// IsPointInPolygon reports whether the lat/lon point lies inside the polygon
// (points are [lat, lon] pairs). Ray casting, with segments that cross the
// 180/-180 line shifted so they are continuous relative to the test point.
func IsPointInPolygon(lat, lon float64, polygon [][2]float64) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i][0], polygon[i][1]
		xj, yj := polygon[j][0], polygon[j][1]

		if yi-lon > 180 {
			yi -= 360
		} else if yi-lon < -180 {
			yi += 360
		}
		if yj-lon > 180 {
			yj -= 360
		} else if yj-lon < -180 {
			yj += 360
		}

		if ((yi > lon) != (yj > lon)) &&
			(lat < (xj-xi)*(lon-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// RoughArea returns an unprojected shoelace area for the polygon, in square
// degrees. Only meaningful as a relative size for tie-breaking between
// overlapping boundaries, not as a true surface area.
func RoughArea(polygon [][2]float64) float64 {
	if len(polygon) < 3 {
		return 0
	}

	var area float64
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		latI, lonI := polygon[i][0], polygon[i][1]
		latJ, lonJ := polygon[j][0], polygon[j][1]

		// wrap-around segments get point J shifted relative to point I
		if lonJ-lonI > 180 {
			lonJ -= 360
		} else if lonJ-lonI < -180 {
			lonJ += 360
		}

		area += (latI * lonJ) - (latJ * lonI)
		j = i
	}

	return math.Abs(area / 2.0)
}
