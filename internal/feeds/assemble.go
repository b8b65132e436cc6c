package feeds

import (
	"context"
	"fmt"
	"log"

	"github.com/mohae/deepcopy"
	"golang.org/x/sync/errgroup"

	"github.com/aeroops/divert/internal/model"
)

// Assembler gathers the engine inputs for one decision request: candidate
// airports from the directory, live weather merged into each candidate, and
// the active alert list. Fetches run concurrently; weather and alert
// failures degrade gracefully (the engine floors what it cannot see), only
// a directory failure aborts the request.
type Assembler struct {
	Directory AirportDataProvider
	Weather   WeatherProvider
	Alerts    AlertProvider
	RadiusNm  float64
}

func (a *Assembler) Assemble(ctx context.Context, scenario model.EmergencyScenario) ([]model.AlternateAirport, []model.AirspaceAlert, error) {
	region := RegionAround(scenario.CurrentPosition, a.RadiusNm)

	var (
		airports []model.AlternateAirport
		alerts   []model.AirspaceAlert
		alertErr error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		airports, err = a.Directory.Airports(gctx, region)
		if err != nil {
			return fmt.Errorf("assembling candidates: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		alerts, alertErr = a.Alerts.Alerts(gctx, region)
		return nil // alert feed outage must not kill the decision
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if alertErr != nil {
		log.Printf("alert feed unavailable, correlating without alerts: %v", alertErr)
		alerts = nil
	}

	// the provider may hand back its cached slice; snapshot before the
	// overlay so no request mutates shared data
	if len(airports) > 0 {
		airports = deepcopy.Copy(airports).([]model.AlternateAirport)
	}

	a.mergeWeather(ctx, airports)
	return airports, alerts, nil
}

// mergeWeather overlays live observations onto the directory snapshot. A
// weather outage leaves the directory's own (possibly stale or nil) weather
// in place; the scorer notes the gap per airport.
func (a *Assembler) mergeWeather(ctx context.Context, airports []model.AlternateAirport) {
	if a.Weather == nil || len(airports) == 0 {
		return
	}

	icaos := make([]string, 0, len(airports))
	for _, apt := range airports {
		icaos = append(icaos, apt.ICAO)
	}

	obs, err := a.Weather.Weather(ctx, icaos)
	if err != nil {
		log.Printf("weather feed unavailable, using directory weather: %v", err)
		return
	}

	for i := range airports {
		if wx, ok := obs[airports[i].ICAO]; ok {
			w := wx
			airports[i].Weather = &w
		}
	}
}
