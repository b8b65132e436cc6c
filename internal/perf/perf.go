// Package perf holds the aircraft performance model: fuel burn estimation
// and time/speed arithmetic. Pure functions, no I/O.
package perf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aeroops/divert/pkg/util"
)

// ErrInvalidPerformanceInput is returned for non-positive speeds or negative
// distances. Hard error: callers must not produce a partial result from it.
var ErrInvalidPerformanceInput = errors.New("invalid performance input")

const (
	litersPerGallon = 3.78541
	kgPerLiter      = 0.8 // Jet A-1 density factor
	usdPerGallon    = 2.50
)

// baselineBurnGalPerNM is the per-type cruise burn rate in gallons per
// nautical mile at a 150-passenger reference load.
var baselineBurnGalPerNM = map[string]float64{
	"A350-1000": 8.2,
	"A350-900":  7.8,
	"787-9":     6.9,
	"787-10":    7.2,
	"777-300ER": 10.1,
	"777-200LR": 9.7,
	"A330-300":  9.5,
	"A330-200":  9.2,
	"767-300ER": 8.9,
	"747-8":     12.6,
	"747-400":   13.4,
	"A380-800":  14.8,
	"A321neo":   4.9,
	"A320neo":   4.4,
	"737-800":   4.8,
	"737 MAX 8": 4.4,
}

// family fallbacks, matched by substring when the exact type is unknown
var familyBurnGalPerNM = []struct {
	substr string
	rate   float64
}{
	{"A350", 8.0},
	{"787", 7.0},
	{"A380", 14.8},
	{"747", 13.0},
	{"777", 9.9},
	{"A330", 9.4},
	{"767", 8.9},
	{"A32", 4.7},
	{"737", 4.7},
}

const defaultBurnGalPerNM = 8.5 // unrecognized type: assume a mid-size wide-body

// FuelEstimate is the output of EstimateFuelBurn. All values rounded to two
// decimal places.
type FuelEstimate struct {
	Gallons          float64 `json:"gallons"`
	Liters           float64 `json:"liters"`
	Kilograms        float64 `json:"kilograms"`
	EstimatedCostUSD float64 `json:"estimatedCostUsd"`
	RateGalPerNM     float64 `json:"rateGalPerNm"`
	TypeRecognized   bool    `json:"typeRecognized"`
}

// BurnRate returns the baseline burn rate for an aircraft type and whether
// the exact type was found in the table. Unknown types fall back to a family
// default by substring match, then to a generic wide-body rate. Never fails.
func BurnRate(aircraftType string) (galPerNM float64, recognized bool) {
	if rate, ok := baselineBurnGalPerNM[aircraftType]; ok {
		return rate, true
	}

	upper := strings.ToUpper(strings.TrimSpace(aircraftType))
	for _, f := range familyBurnGalPerNM {
		if strings.Contains(upper, strings.ToUpper(f.substr)) {
			return f.rate, false
		}
	}
	return defaultBurnGalPerNM, false
}

// EstimateFuelBurn estimates the fuel needed to fly distanceNm with the given
// passenger load. The baseline rate gets a linear load-factor adjustment
// around the 150-passenger reference. Deterministic; unknown aircraft types
// degrade to a family default rather than failing.
func EstimateFuelBurn(aircraftType string, distanceNm float64, passengers int) (FuelEstimate, error) {
	if distanceNm < 0 {
		return FuelEstimate{}, fmt.Errorf("%w: distance %.2f nm", ErrInvalidPerformanceInput, distanceNm)
	}

	rate, recognized := BurnRate(aircraftType)
	rate *= 1 + float64(passengers-150)*0.0015

	gallons := rate * distanceNm
	liters := gallons * litersPerGallon
	kg := liters * kgPerLiter

	return FuelEstimate{
		Gallons:          util.Round2(gallons),
		Liters:           util.Round2(liters),
		Kilograms:        util.Round2(kg),
		EstimatedCostUSD: util.Round2(gallons * usdPerGallon),
		RateGalPerNM:     util.Round2(rate),
		TypeRecognized:   recognized,
	}, nil
}

// FlightTime returns the still-air flight time in hours for a distance and
// ground speed. Non-positive speed or negative distance is a hard error, so
// callers never see Inf or NaN.
func FlightTime(distanceNm, groundSpeedKt float64) (float64, error) {
	if groundSpeedKt <= 0 {
		return 0, fmt.Errorf("%w: ground speed %.2f kt", ErrInvalidPerformanceInput, groundSpeedKt)
	}
	if distanceNm < 0 {
		return 0, fmt.Errorf("%w: distance %.2f nm", ErrInvalidPerformanceInput, distanceNm)
	}
	return distanceNm / groundSpeedKt, nil
}
