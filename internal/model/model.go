package model

import "time"

// Position is a geographic coordinate in decimal degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// --- emergency scenario ---

type FailureType string

const (
	EngineFailure     FailureType = "engine_failure"
	MedicalEmergency  FailureType = "medical_emergency"
	ElectricalFault   FailureType = "electrical_fault"
	HydraulicFailure  FailureType = "hydraulic_failure"
	Decompression     FailureType = "decompression"
	OverweightLanding FailureType = "overweight_landing"
)

// EmergencyScenario is the immutable input to a diversion decision.
// Built once per request and never mutated by the engine.
type EmergencyScenario struct {
	FailureType     FailureType `json:"failureType"`
	AircraftType    string      `json:"aircraftType"`
	CurrentPosition Position    `json:"currentPosition"`
	AltitudeFt      float64     `json:"altitudeFt"`
	SpeedKt         float64     `json:"speedKt"`
	FuelRemainingKg float64     `json:"fuelRemainingKg"`
	Passengers      int         `json:"passengers"`
}

// --- alternate airport reference data ---

type WeatherCategory string

const (
	CAT1      WeatherCategory = "CAT1"
	CAT2      WeatherCategory = "CAT2"
	CAT3A     WeatherCategory = "CAT3A"
	CAT3B     WeatherCategory = "CAT3B"
	BelowMins WeatherCategory = "BELOW_MINS"
)

type AirportWeather struct {
	Category     WeatherCategory `json:"category"`
	VisibilityM  float64         `json:"visibilityM"`
	CeilingFt    float64         `json:"ceilingFt"`
	WindSpeedKt  float64         `json:"windSpeedKt"`
	WindDirDeg   float64         `json:"windDirDeg"`
	ObservedZulu time.Time       `json:"observedZulu"`
}

type GroundHandling struct {
	Provider  string `json:"provider"`
	Hours     string `json:"hours"`
	Available bool   `json:"available"`
	H24       bool   `json:"h24"`
}

type Customs struct {
	Hours            string `json:"hours"`
	H24              bool   `json:"h24"`
	FastTrack        bool   `json:"fastTrack"`
	MedicalClearance bool   `json:"medicalClearance"`
}

// FireRescue describes the aerodrome rescue and firefighting service.
// Category is the ICAO RFF tier, 1 through 10.
type FireRescue struct {
	Category        int  `json:"category"`
	FoamCapability  bool `json:"foamCapability"`
	ResponseTimeSec int  `json:"responseTimeSec"`
	H24             bool `json:"h24"`
	Medevac         bool `json:"medevac"`
}

type Slots struct {
	Available    bool   `json:"available"`
	Restrictions string `json:"restrictions"`
}

type Fuel struct {
	Type        string  `json:"type"`
	QuantityKg  float64 `json:"quantityKg"`
	Supplier    string  `json:"supplier"`
	Available   bool    `json:"available"`
	PricePerGal float64 `json:"pricePerGal"`
}

type MedicalFacility struct {
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distanceKm"`
	Trauma     bool    `json:"trauma"`
}

// AlternateAirport is the per-candidate snapshot supplied by the airport
// intelligence provider. The engine treats it as read-only; descriptor
// pointers are nil when the provider could not supply the field.
type AlternateAirport struct {
	ICAO        string   `json:"icao"`
	Name        string   `json:"name"`
	Position    Position `json:"position"`
	ElevationFt float64  `json:"elevationFt"`

	Weather        *AirportWeather   `json:"weather,omitempty"`
	GroundHandling *GroundHandling   `json:"groundHandling,omitempty"`
	Customs        *Customs          `json:"customs,omitempty"`
	FireRescue     *FireRescue       `json:"fireRescue,omitempty"`
	Slots          *Slots            `json:"slots,omitempty"`
	Fuel           *Fuel             `json:"fuel,omitempty"`
	Medical        []MedicalFacility `json:"medical,omitempty"`
}

// --- scoring ---

// ScoringWeights must sum to 1.0. Treated as configuration, not constants.
type ScoringWeights struct {
	Weather    float64 `json:"weather" yaml:"weather"`
	Facilities float64 `json:"facilities" yaml:"facilities"`
	Cost       float64 `json:"cost" yaml:"cost"`
	Time       float64 `json:"time" yaml:"time"`
	Safety     float64 `json:"safety" yaml:"safety"`
}

// SuitabilityScore holds the per-dimension scores (0-100) and the weighted
// composite. Recomputed on every evaluation, never persisted by the engine.
type SuitabilityScore struct {
	Weather    float64 `json:"weather"`
	Facilities float64 `json:"facilities"`
	Cost       float64 `json:"cost"`
	Time       float64 `json:"time"`
	Safety     float64 `json:"safety"`
	Overall    int     `json:"overall"`
}

// --- diversion output ---

type DiversionOption struct {
	Airport         AlternateAirport `json:"airport"`
	DistanceNm      float64          `json:"distanceNm"`
	BearingDeg      float64          `json:"bearingDeg"`
	GroundSpeedKt   float64          `json:"groundSpeedKt"`
	TimeHr          float64          `json:"timeHr"`
	FuelRequiredKg  float64          `json:"fuelRequiredKg"`
	RemainingFuelKg float64          `json:"remainingFuelKg"`
	Reachable       bool             `json:"reachable"`
	Notes           []string         `json:"notes"`
	Score           SuitabilityScore `json:"score"`
}

// --- airspace alerts ---

type AlertType string

const (
	AlertNOTAM      AlertType = "NOTAM"
	AlertTFR        AlertType = "TFR"
	AlertRestricted AlertType = "RESTRICTED"
	AlertWarning    AlertType = "WARNING"
	AlertProhibited AlertType = "PROHIBITED"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities for sorting; unknown severities sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

type AlertLocation struct {
	Position Position `json:"position"`
	RadiusNm float64  `json:"radiusNm,omitempty"`
	// Boundary is an optional lat/lon polygon for alerts published as an
	// area rather than a point-and-radius (common for TFRs).
	Boundary [][2]float64 `json:"boundary,omitempty"`
}

type AltitudeBand struct {
	MinFt float64 `json:"minFt"`
	MaxFt float64 `json:"maxFt"`
}

type Timeframe struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AirspaceAlert is supplied by the NOTAM/alert feed. The engine filters and
// ranks alerts; it never creates or closes them.
type AirspaceAlert struct {
	ID          string        `json:"id"`
	Type        AlertType     `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    AlertLocation `json:"location"`
	Altitude    AltitudeBand  `json:"altitude"`
	Timeframe   Timeframe     `json:"timeframe"`
	Severity    Severity      `json:"severity"`
	Source      string        `json:"source"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// CorridorAlert is an alert annotated with its relevance to a specific
// flight corridor.
type CorridorAlert struct {
	AirspaceAlert
	DistanceNm float64 `json:"distanceNm"`
	Active     bool    `json:"active"`
}

// FlightCorridor describes where the aircraft is and, optionally, where it
// came from and was going.
type FlightCorridor struct {
	CurrentPosition Position  `json:"currentPosition"`
	AltitudeFt      float64   `json:"altitudeFt"`
	Origin          *Position `json:"origin,omitempty"`
	Destination     *Position `json:"destination,omitempty"`
}

// --- caller contract ---

// DecisionRequest is the caller-to-engine contract.
type DecisionRequest struct {
	Scenario          EmergencyScenario  `json:"scenario"`
	CandidateAirports []AlternateAirport `json:"candidateAirports"`
	ActiveAlerts      []AirspaceAlert    `json:"activeAlerts"`
	ReserveFuelKg     *float64           `json:"reserveFuelKg,omitempty"`
	Weights           *ScoringWeights    `json:"weights,omitempty"`
}

// DecisionResponse is the engine-to-caller contract. Recommended is the top
// ranked option when at least one option is reachable, nil otherwise.
type DecisionResponse struct {
	Options        []DiversionOption `json:"options"`
	CorridorAlerts []CorridorAlert   `json:"corridorAlerts"`
	Recommended    *DiversionOption  `json:"recommended"`
	EvaluatedAt    time.Time         `json:"evaluatedAt"`
}
