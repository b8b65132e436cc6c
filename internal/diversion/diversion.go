// Package diversion ranks candidate alternate airports for an in-flight
// emergency and assembles the full decision response. Composition only: the
// geodesic and fuel math lives in perf/geometry, the operational scoring in
// scoring, the airspace correlation in alerts.
package diversion

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aeroops/divert/internal/alerts"
	"github.com/aeroops/divert/internal/model"
	"github.com/aeroops/divert/internal/perf"
	"github.com/aeroops/divert/internal/scoring"
	"github.com/aeroops/divert/pkg/geometry"
	"github.com/aeroops/divert/pkg/util"
)

// ErrNoCandidates signals an empty candidate list, distinct from "no
// candidate is reachable" (which still returns the full ranked list).
var ErrNoCandidates = errors.New("no candidate airports available")

// Config is the engine policy block, normally loaded from the service YAML.
type Config struct {
	Scoring scoring.Config `yaml:"scoring"`
	// ReserveFuelKg overrides the dynamic 30-minute reserve when > 0.
	ReserveFuelKg float64 `yaml:"reserve_fuel_kg"`
	// DiversionSpeedsKt maps aircraft type to a type-specific diversion
	// speed. Types not listed divert at the scenario's current speed.
	DiversionSpeedsKt map[string]float64 `yaml:"diversion_speeds_kt"`
}

type Engine struct {
	scorer     *scoring.Scorer
	scoringCfg scoring.Config
	reserveKg  float64
	speeds     map[string]float64
}

func New(cfg Config) *Engine {
	return &Engine{
		scorer:     scoring.New(cfg.Scoring),
		scoringCfg: cfg.Scoring,
		reserveKg:  cfg.ReserveFuelKg,
		speeds:     cfg.DiversionSpeedsKt,
	}
}

// reserveMinutes is the default safety margin: fuel for 30 minutes at
// diversion speed must remain after reaching the alternate.
const reserveMinutes = 30.0

func (e *Engine) diversionSpeed(scenario model.EmergencyScenario) float64 {
	if s, ok := e.speeds[scenario.AircraftType]; ok && s > 0 {
		return s
	}
	return scenario.SpeedKt
}

// reserveFor resolves the reserve in effect: an explicit request override,
// else the configured value, else 30 minutes of burn at diversion speed.
func (e *Engine) reserveFor(scenario model.EmergencyScenario, overrideKg *float64, speedKt float64) (float64, error) {
	if overrideKg != nil && *overrideKg >= 0 {
		return *overrideKg, nil
	}
	if e.reserveKg > 0 {
		return e.reserveKg, nil
	}
	reserveDistNm := speedKt * reserveMinutes / 60
	est, err := perf.EstimateFuelBurn(scenario.AircraftType, reserveDistNm, scenario.Passengers)
	if err != nil {
		return 0, err
	}
	return est.Kilograms, nil
}

// RankDiversions evaluates every candidate and returns the fully ordered
// option list: reachable options first, then overall suitability descending,
// ties resolved by the scoring chain (safety, distance, ICAO). Unreachable
// options are never dropped; the caller may still need "nearest unreachable".
func (e *Engine) RankDiversions(scenario model.EmergencyScenario,
	candidates []model.AlternateAirport, reserveOverrideKg *float64,
	now time.Time) ([]model.DiversionOption, error) {

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if scenario.CurrentPosition.Lat < -90 || scenario.CurrentPosition.Lat > 90 ||
		scenario.CurrentPosition.Lon < -180 || scenario.CurrentPosition.Lon > 180 {
		return nil, fmt.Errorf("%w: malformed position %.4f,%.4f",
			perf.ErrInvalidPerformanceInput, scenario.CurrentPosition.Lat, scenario.CurrentPosition.Lon)
	}

	speedKt := e.diversionSpeed(scenario)
	reserveKg, err := e.reserveFor(scenario, reserveOverrideKg, speedKt)
	if err != nil {
		return nil, err
	}

	night := scoring.IsNightUTC(now)
	options := make([]model.DiversionOption, 0, len(candidates))

	for _, apt := range candidates {
		opt, err := e.evaluateCandidate(scenario, apt, speedKt, reserveKg, night)
		if err != nil {
			// hard error: no partial ranking
			return nil, fmt.Errorf("candidate %s: %w", apt.ICAO, err)
		}
		options = append(options, opt)
	}

	scoring.SortOptions(options)
	// stable partition: reachable options lead, suitability order kept
	// within each group
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Reachable && !options[j].Reachable
	})

	return options, nil
}

func (e *Engine) evaluateCandidate(scenario model.EmergencyScenario,
	apt model.AlternateAirport, speedKt, reserveKg float64, night bool) (model.DiversionOption, error) {

	dist := geometry.DistNM(
		scenario.CurrentPosition.Lat, scenario.CurrentPosition.Lon,
		apt.Position.Lat, apt.Position.Lon)
	bearing := geometry.InitialBearing(
		scenario.CurrentPosition.Lat, scenario.CurrentPosition.Lon,
		apt.Position.Lat, apt.Position.Lon)

	timeHr, err := perf.FlightTime(dist, speedKt)
	if err != nil {
		return model.DiversionOption{}, err
	}

	est, err := perf.EstimateFuelBurn(scenario.AircraftType, dist, scenario.Passengers)
	if err != nil {
		return model.DiversionOption{}, err
	}

	// exact, no re-rounding: remaining must equal scenario fuel minus required
	remaining := scenario.FuelRemainingKg - est.Kilograms
	reachable := remaining >= reserveKg

	score, notes := e.scorer.Score(scenario, apt, dist, est.EstimatedCostUSD, night)

	if !est.TypeRecognized {
		notes = append(notes, fmt.Sprintf(
			"aircraft type %q not in performance table, using family default burn rate",
			scenario.AircraftType))
	}
	if !reachable {
		notes = append(notes, fmt.Sprintf(
			"unreachable: needs %.2f kg plus %.2f kg reserve, only %.2f kg remaining",
			est.Kilograms, reserveKg, scenario.FuelRemainingKg))
	}

	return model.DiversionOption{
		Airport:         apt,
		DistanceNm:      util.Round2(dist),
		BearingDeg:      util.Round2(bearing),
		GroundSpeedKt:   speedKt,
		TimeHr:          util.Round2(timeHr),
		FuelRequiredKg:  est.Kilograms,
		RemainingFuelKg: remaining,
		Reachable:       reachable,
		Notes:           notes,
		Score:           score,
	}, nil
}

// Evaluate runs the full decision: rank the candidates, correlate the
// corridor against active alerts, and pick the recommendation. Recommended
// is the top option when reachable, nil when nothing is.
func (e *Engine) Evaluate(req model.DecisionRequest, now time.Time) (model.DecisionResponse, error) {
	eng := e
	if req.Weights != nil {
		eng = e.WithWeights(*req.Weights)
	}

	options, err := eng.RankDiversions(req.Scenario, req.CandidateAirports, req.ReserveFuelKg, now)
	if err != nil {
		return model.DecisionResponse{}, err
	}

	corridor := model.FlightCorridor{
		CurrentPosition: req.Scenario.CurrentPosition,
		AltitudeFt:      req.Scenario.AltitudeFt,
	}
	corridorAlerts := alerts.Relevant(req.ActiveAlerts, corridor, now)

	var recommended *model.DiversionOption
	if len(options) > 0 && options[0].Reachable {
		rec := options[0]
		recommended = &rec
	}

	return model.DecisionResponse{
		Options:        options,
		CorridorAlerts: corridorAlerts,
		Recommended:    recommended,
		EvaluatedAt:    now,
	}, nil
}

// WithWeights returns an engine identical to e but scoring with the given
// per-request weights. Engines are cheap; requests carrying custom weights
// get a throwaway instance.
func (e *Engine) WithWeights(w model.ScoringWeights) *Engine {
	cfg := e.scoringCfg
	cfg.Weights = w
	return &Engine{
		scorer:     scoring.New(cfg),
		scoringCfg: cfg,
		reserveKg:  e.reserveKg,
		speeds:     e.speeds,
	}
}
