// Package scoring converts an AlternateAirport snapshot into a
// SuitabilityScore for a given emergency scenario. All scoring is a
// deterministic function of its inputs; missing airport data degrades that
// dimension to a conservative minimum instead of failing the evaluation.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aeroops/divert/internal/model"
	"github.com/aeroops/divert/pkg/util"
)

// Config carries the scoring policy. Weights must sum to 1.0; they are
// normalized defensively so a sloppy config file cannot push Overall outside
// [0,100]. TimeDecayNm sets how quickly the time sub-score falls off with
// distance.
type Config struct {
	Weights     model.ScoringWeights `yaml:"weights"`
	TimeDecayNm float64              `yaml:"time_decay_nm"`
}

// DefaultWeights are a starting point pending confirmation of production
// values with flight-ops.
func DefaultWeights() model.ScoringWeights {
	return model.ScoringWeights{
		Weather:    0.25,
		Facilities: 0.20,
		Cost:       0.10,
		Time:       0.20,
		Safety:     0.25,
	}
}

const defaultTimeDecayNm = 250

type Scorer struct {
	weights     model.ScoringWeights
	timeDecayNm float64
}

func New(cfg Config) *Scorer {
	w := cfg.Weights
	sum := w.Weather + w.Facilities + w.Cost + w.Time + w.Safety
	if sum <= 0 {
		w = DefaultWeights()
		sum = 1.0
	}
	w.Weather /= sum
	w.Facilities /= sum
	w.Cost /= sum
	w.Time /= sum
	w.Safety /= sum

	decay := cfg.TimeDecayNm
	if decay <= 0 {
		decay = defaultTimeDecayNm
	}

	return &Scorer{weights: w, timeDecayNm: decay}
}

// Weights returns the normalized weights in effect.
func (s *Scorer) Weights() model.ScoringWeights {
	return s.weights
}

// IsNightUTC is the night-operations test used by the weather sub-score.
func IsNightUTC(t time.Time) bool {
	h := t.UTC().Hour()
	return h >= 22 || h < 6
}

// Score evaluates one airport for one scenario. estCostUSD is the estimated
// fuel cost of the diversion leg from the performance model. Returned notes
// flag any dimension that was floored because of missing data.
func (s *Scorer) Score(scenario model.EmergencyScenario, apt model.AlternateAirport,
	distanceNm, estFuelCostUSD float64, night bool) (model.SuitabilityScore, []string) {

	var notes []string
	incomplete := func(field string) {
		notes = append(notes, fmt.Sprintf("dataIncomplete: %s", field))
	}

	weather := s.weatherScore(apt, night, &notes, incomplete)
	facilities := s.facilitiesScore(scenario, apt, incomplete)
	cost := s.costScore(scenario, estFuelCostUSD)
	timeScore := s.timeScore(distanceNm)
	safety := s.safetyScore(apt, incomplete)

	overall := weather*s.weights.Weather +
		facilities*s.weights.Facilities +
		cost*s.weights.Cost +
		timeScore*s.weights.Time +
		safety*s.weights.Safety

	return model.SuitabilityScore{
		Weather:    util.Round2(weather),
		Facilities: util.Round2(facilities),
		Cost:       util.Round2(cost),
		Time:       util.Round2(timeScore),
		Safety:     util.Round2(safety),
		Overall:    int(util.Clamp(math.Round(overall), 0, 100)),
	}, notes
}

// --- weather ---

var categoryBase = map[model.WeatherCategory]float64{
	model.CAT1:      100,
	model.CAT2:      85,
	model.CAT3A:     70,
	model.CAT3B:     55,
	model.BelowMins: 10,
}

func (s *Scorer) weatherScore(apt model.AlternateAirport, night bool,
	notes *[]string, incomplete func(string)) float64 {

	wx := apt.Weather
	if wx == nil {
		incomplete("weather")
		return 0
	}

	base, ok := categoryBase[wx.Category]
	if !ok {
		incomplete("weather.category")
		base = 0
	}

	// visibility against a 550 m CAT1 minimum, full credit at 5000 m and up
	vis := util.Clamp((wx.VisibilityM-550)/(5000-550)*100, 0, 100)
	// ceiling against a 200 ft decision height, full credit at 1000 ft and up
	ceil := util.Clamp((wx.CeilingFt-200)/(1000-200)*100, 0, 100)

	score := 0.6*base + 0.25*vis + 0.15*ceil

	// strong surface wind erodes the approach, capped penalty
	if wx.WindSpeedKt > 25 {
		score -= math.Min((wx.WindSpeedKt-25)*1.5, 15)
	}

	// a night diversion into a field without round-the-clock handling or
	// customs adds turnaround risk
	if night {
		h24 := (apt.GroundHandling != nil && apt.GroundHandling.H24) ||
			(apt.Customs != nil && apt.Customs.H24)
		if !h24 {
			score -= 15
			*notes = append(*notes, "night arrival without 24h handling or customs")
		}
	}

	return util.Clamp(score, 0, 100)
}

// --- facilities ---

// Each missing or degraded capability subtracts a fixed penalty. Partial
// credit: one gap never zeroes the dimension on its own.
func (s *Scorer) facilitiesScore(scenario model.EmergencyScenario,
	apt model.AlternateAirport, incomplete func(string)) float64 {

	score := 100.0

	if gh := apt.GroundHandling; gh == nil {
		incomplete("groundHandling")
		score -= 30
	} else {
		if !gh.Available {
			score -= 25
		}
		if !gh.H24 {
			score -= 10
		}
	}

	if c := apt.Customs; c == nil {
		incomplete("customs")
		score -= 20
	} else {
		if !c.H24 {
			score -= 5
		}
		if scenario.FailureType == model.MedicalEmergency && !c.MedicalClearance {
			score -= 10
		}
	}

	if fr := apt.FireRescue; fr == nil {
		incomplete("fireRescue")
		score -= 30
	} else {
		// ICAO category 10 is the ceiling; each tier below costs 4 points
		cat := fr.Category
		if cat < 1 {
			cat = 1
		}
		if cat > 10 {
			cat = 10
		}
		score -= float64(10-cat) * 4
		if scenario.FailureType == model.MedicalEmergency && !fr.Medevac {
			score -= 15
		}
	}

	if sl := apt.Slots; sl == nil {
		score -= 5
	} else if !sl.Available {
		score -= 10
	}

	if f := apt.Fuel; f == nil {
		incomplete("fuel")
		score -= 10
	} else if !f.Available {
		score -= 10
	}

	return util.Clamp(score, 0, 100)
}

// --- cost ---

const (
	handlingFeeUSD    = 3500.0
	paxCarePerHeadUSD = 180.0
	crewCostUSD       = 6000.0
	// diversion cost at or above this zeroes the dimension
	costCeilingUSD = 150000.0
)

func (s *Scorer) costScore(scenario model.EmergencyScenario, estFuelCostUSD float64) float64 {
	total := estFuelCostUSD + handlingFeeUSD + crewCostUSD +
		paxCarePerHeadUSD*float64(scenario.Passengers)
	return util.Clamp(100*(1-total/costCeilingUSD), 0, 100)
}

// --- time ---

// Exponential decay: 100 at zero distance, strictly decreasing with range.
func (s *Scorer) timeScore(distanceNm float64) float64 {
	if distanceNm < 0 {
		distanceNm = 0
	}
	return util.Clamp(100*math.Exp(-distanceNm/s.timeDecayNm), 0, 100)
}

// --- safety ---

const (
	rffFastSec  = 120.0
	rffSlowSec  = 600.0
	medNearKm   = 10.0
	medFarKm    = 100.0
	traumaBonus = 10.0
)

func (s *Scorer) safetyScore(apt model.AlternateAirport, incomplete func(string)) float64 {
	var rescue float64
	if fr := apt.FireRescue; fr == nil {
		incomplete("fireRescue.responseTime")
	} else {
		resp := float64(fr.ResponseTimeSec)
		rescue = util.Clamp(100*(rffSlowSec-resp)/(rffSlowSec-rffFastSec), 0, 100)
		if fr.FoamCapability {
			rescue = util.Clamp(rescue+5, 0, 100)
		}
	}

	var medical float64
	if len(apt.Medical) == 0 {
		incomplete("medical")
	} else {
		nearest := apt.Medical[0]
		for _, m := range apt.Medical[1:] {
			if m.DistanceKm < nearest.DistanceKm {
				nearest = m
			}
		}
		medical = util.Clamp(100*(medFarKm-nearest.DistanceKm)/(medFarKm-medNearKm), 0, 100)
		if nearest.Trauma {
			medical = util.Clamp(medical+traumaBonus, 0, 100)
		}
	}

	return util.Clamp(0.5*rescue+0.5*medical, 0, 100)
}

// --- ordering ---

// Less is the suitability tie-break chain shared with the ranker: higher
// safety first, then shorter distance, then lexical ICAO. Guarantees a
// stable total order for identical inputs.
func Less(aScore model.SuitabilityScore, aDist float64, aICAO string,
	bScore model.SuitabilityScore, bDist float64, bICAO string) bool {

	if aScore.Safety != bScore.Safety {
		return aScore.Safety > bScore.Safety
	}
	if aDist != bDist {
		return aDist < bDist
	}
	return aICAO < bICAO
}

// SortOptions orders options by overall suitability descending, resolving
// ties with the chain above. Used for option lists that are already split by
// reachability.
func SortOptions(opts []model.DiversionOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		a, b := opts[i], opts[j]
		if a.Score.Overall != b.Score.Overall {
			return a.Score.Overall > b.Score.Overall
		}
		return Less(a.Score, a.DistanceNm, a.Airport.ICAO, b.Score, b.DistanceNm, b.Airport.ICAO)
	})
}
