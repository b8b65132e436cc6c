// Package mockfeeds serves deterministic fixture data for the three
// upstream feed contracts, so the service runs end to end without live
// providers. Development and integration use only.
package mockfeeds

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aeroops/divert/internal/model"
)

// Start launches the mock feed server on the given port (e.g. "9090") and
// returns the *http.Server so the caller can shut it down.
func Start(port string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/airports", airportsHandler)
	mux.HandleFunc("/weather", weatherHandler)
	mux.HandleFunc("/alerts", alertsHandler)

	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		log.Printf("mockfeeds: listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("mockfeeds: ListenAndServe error: %v", err)
		}
	}()
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("mockfeeds: encode: %v", err)
	}
}

// North Atlantic diversion fixtures. Values are stable so repeated requests
// produce identical decisions.
func fixtureAirports() []model.AlternateAirport {
	return []model.AlternateAirport{
		{
			ICAO: "CYQX", Name: "GANDER INTL",
			Position:    model.Position{Lat: 48.9369, Lon: -54.5681},
			ElevationFt: 496,
			Weather: &model.AirportWeather{
				Category: model.CAT1, VisibilityM: 8000, CeilingFt: 2500,
				WindSpeedKt: 12, WindDirDeg: 250,
			},
			GroundHandling: &model.GroundHandling{Provider: "Gander Handling Ltd", Hours: "H24", Available: true, H24: true},
			Customs:        &model.Customs{Hours: "H24", H24: true, FastTrack: true, MedicalClearance: true},
			FireRescue:     &model.FireRescue{Category: 9, FoamCapability: true, ResponseTimeSec: 150, H24: true, Medevac: true},
			Slots:          &model.Slots{Available: true},
			Fuel:           &model.Fuel{Type: "Jet A-1", QuantityKg: 500000, Supplier: "North Atlantic Fuels", Available: true, PricePerGal: 2.55},
			Medical: []model.MedicalFacility{
				{Name: "James Paton Memorial Hospital", DistanceKm: 4.2, Trauma: false},
			},
		},
		{
			ICAO: "CYHZ", Name: "HALIFAX STANFIELD INTL",
			Position:    model.Position{Lat: 44.8808, Lon: -63.5086},
			ElevationFt: 477,
			Weather: &model.AirportWeather{
				Category: model.CAT2, VisibilityM: 3000, CeilingFt: 800,
				WindSpeedKt: 18, WindDirDeg: 200,
			},
			GroundHandling: &model.GroundHandling{Provider: "Stanfield Aviation Services", Hours: "H24", Available: true, H24: true},
			Customs:        &model.Customs{Hours: "H24", H24: true, FastTrack: true, MedicalClearance: true},
			FireRescue:     &model.FireRescue{Category: 10, FoamCapability: true, ResponseTimeSec: 120, H24: true, Medevac: true},
			Slots:          &model.Slots{Available: true},
			Fuel:           &model.Fuel{Type: "Jet A-1", QuantityKg: 900000, Supplier: "Maritime Fuel Co", Available: true, PricePerGal: 2.48},
			Medical: []model.MedicalFacility{
				{Name: "QEII Health Sciences Centre", DistanceKm: 28.0, Trauma: true},
			},
		},
		{
			ICAO: "CYYR", Name: "GOOSE BAY",
			Position:    model.Position{Lat: 53.3192, Lon: -60.4258},
			ElevationFt: 160,
			Weather: &model.AirportWeather{
				Category: model.CAT1, VisibilityM: 9999, CeilingFt: 4000,
				WindSpeedKt: 8, WindDirDeg: 310,
			},
			// no ground handling or customs descriptors published
			FireRescue: &model.FireRescue{Category: 8, FoamCapability: true, ResponseTimeSec: 180, H24: false, Medevac: false},
			Fuel:       &model.Fuel{Type: "Jet A-1", QuantityKg: 200000, Supplier: "Labrador Air Services", Available: true, PricePerGal: 2.80},
		},
	}
}

func fixtureAlerts() []model.AirspaceAlert {
	base := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	return []model.AirspaceAlert{
		{
			ID: "ZQX-W0231", Type: model.AlertWarning,
			Title:       "Military exercise, Gander oceanic transition",
			Description: "Live fire exercise active, avoid vertical band",
			Location:    model.AlertLocation{Position: model.Position{Lat: 46.2, Lon: -67.5}, RadiusNm: 30},
			Altitude:    model.AltitudeBand{MinFt: 20000, MaxFt: 45000},
			Timeframe:   model.Timeframe{Start: base, End: base.AddDate(1, 0, 0)},
			Severity:    model.SeverityCritical,
			Source:      "NAV CANADA",
			LastUpdated: base,
		},
		{
			ID: "CZQM-N1182", Type: model.AlertNOTAM,
			Title:       "Moncton FIR navaid maintenance",
			Description: "VOR out of service, GNSS approaches unaffected",
			Location:    model.AlertLocation{Position: model.Position{Lat: 46.1, Lon: -64.7}},
			Altitude:    model.AltitudeBand{MinFt: 0, MaxFt: 60000},
			Timeframe:   model.Timeframe{Start: base, End: base.AddDate(0, 3, 0)},
			Severity:    model.SeverityMedium,
			Source:      "NAV CANADA",
			LastUpdated: base,
		},
	}
}

func fixtureWeather() map[string]model.AirportWeather {
	out := make(map[string]model.AirportWeather)
	for _, apt := range fixtureAirports() {
		if apt.Weather != nil {
			out[apt.ICAO] = *apt.Weather
		}
	}
	return out
}

func airportsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"airports": fixtureAirports()})
}

func weatherHandler(w http.ResponseWriter, r *http.Request) {
	want := map[string]bool{}
	for _, icao := range strings.Split(r.URL.Query().Get("icao"), ",") {
		if icao != "" {
			want[strings.ToUpper(icao)] = true
		}
	}

	stations := fixtureWeather()
	if len(want) > 0 {
		for icao := range stations {
			if !want[icao] {
				delete(stations, icao)
			}
		}
	}
	writeJSON(w, map[string]any{"stations": stations})
}

func alertsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"alerts": fixtureAlerts()})
}
