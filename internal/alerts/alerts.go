// Package alerts correlates active airspace restrictions against a flight
// corridor. Pure functions of their inputs and the supplied clock, so tests
// inject a fixed time.
package alerts

import (
	"sort"
	"time"

	"github.com/aeroops/divert/internal/model"
	"github.com/aeroops/divert/pkg/geometry"
)

const (
	// pointThresholdNm is how close a point alert must be to the current
	// position to matter.
	pointThresholdNm = 100.0
	// corridorBufferNm widens a published alert radius to account for the
	// corridor width, not just the aircraft position.
	corridorBufferNm = 50.0
)

// IsActive reports whether the alert's time window contains now.
func IsActive(a model.AirspaceAlert, now time.Time) bool {
	return !now.Before(a.Timeframe.Start) && !now.After(a.Timeframe.End)
}

// Relevant returns the subset of alerts that intersect the flight corridor,
// ordered by severity descending, then by distance to the current position.
// Inactive alerts are returned flagged, never silently dropped: operators
// need to see upcoming restrictions.
func Relevant(all []model.AirspaceAlert, corridor model.FlightCorridor, now time.Time) []model.CorridorAlert {
	var out []model.CorridorAlert

	for _, a := range all {
		if corridor.AltitudeFt < a.Altitude.MinFt || corridor.AltitudeFt > a.Altitude.MaxFt {
			continue
		}

		dist := geometry.DistNM(
			corridor.CurrentPosition.Lat, corridor.CurrentPosition.Lon,
			a.Location.Position.Lat, a.Location.Position.Lon)

		if !intersects(a, corridor, dist) {
			continue
		}

		out = append(out, model.CorridorAlert{
			AirspaceAlert: a,
			DistanceNm:    dist,
			Active:        IsActive(a, now),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.DistanceNm != b.DistanceNm {
			return a.DistanceNm < b.DistanceNm
		}
		// overlapping boundaries: the tighter area ranks first
		aArea := geometry.RoughArea(a.Location.Boundary)
		bArea := geometry.RoughArea(b.Location.Boundary)
		if aArea != bArea {
			return aArea < bArea
		}
		return a.ID < b.ID
	})

	return out
}

// intersects applies the spatial filter: inside a published polygon
// boundary, within the published radius plus the corridor buffer, or within
// the flat point threshold.
func intersects(a model.AirspaceAlert, corridor model.FlightCorridor, dist float64) bool {
	if len(a.Location.Boundary) >= 3 &&
		geometry.IsPointInPolygon(corridor.CurrentPosition.Lat, corridor.CurrentPosition.Lon, a.Location.Boundary) {
		return true
	}
	if dist <= pointThresholdNm {
		return true
	}
	if a.Location.RadiusNm > 0 && dist <= a.Location.RadiusNm+corridorBufferNm {
		return true
	}
	return false
}
