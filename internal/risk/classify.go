// Package risk turns numeric risk figures into discrete, display-ready levels.
//
// Every function here is pure. Levels are always derived from their numeric
// source at the time of display and never cached alongside it.
package risk

import (
	"math"
	"strings"
)

// Level is a discrete risk class.
type Level string

const (
	Low     Level = "low"
	Medium  Level = "medium"
	High    Level = "high"
	Unknown Level = "unknown"
)

// Thresholds is a named three-band threshold profile. A score at or above
// High is high, at or above Medium is medium, anything lower is low.
type Thresholds struct {
	Name   string
	High   float64
	Medium float64
}

// Threshold profiles. Ensemble and composite scores share a 0-1 range but
// come from differently calibrated models, so each keeps its own scale.
var (
	// EnsembleThresholds applies to ensemble and frontend composite scores (0-1).
	EnsembleThresholds = Thresholds{Name: "ensemble", High: 0.7, Medium: 0.4}

	// CompositeThresholds applies to backend-origin composite scores (0-1).
	CompositeThresholds = Thresholds{Name: "composite", High: 0.6, Medium: 0.35}

	// GeoThresholds applies to 0-10 geopolitical country risk scores.
	GeoThresholds = Thresholds{Name: "geopolitical", High: 7, Medium: 4}
)

// Classify maps a score onto a level under the given profile. NaN is Unknown.
func Classify(score float64, t Thresholds) Level {
	switch {
	case math.IsNaN(score):
		return Unknown
	case score >= t.High:
		return High
	case score >= t.Medium:
		return Medium
	default:
		return Low
	}
}

// ClassifyOptional is Classify for an optional score; nil is Unknown.
func ClassifyOptional(score *float64, t Thresholds) Level {
	if score == nil {
		return Unknown
	}
	return Classify(*score, t)
}

// EnsembleLevel classifies a 0-1 ensemble score.
func EnsembleLevel(score float64) Level {
	return Classify(score, EnsembleThresholds)
}

// CompositeLevel classifies a 0-1 backend composite score.
func CompositeLevel(score float64) Level {
	return Classify(score, CompositeThresholds)
}

// GeoLevel classifies a 0-10 geopolitical risk score.
func GeoLevel(score float64) Level {
	return Classify(score, GeoThresholds)
}

// ParseLevel validates an upstream level label. Anything outside
// low/medium/high is Unknown.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case Low:
		return Low
	case Medium:
		return Medium
	case High:
		return High
	}
	return Unknown
}

// Confidence passes an upstream confidence label through. No numeric
// derivation happens locally.
func Confidence(s string) Level {
	return ParseLevel(s)
}

// Band is the semantic color band for a schedule performance index.
type Band string

const (
	BandGood    Band = "good"
	BandCaution Band = "caution"
	BandPoor    Band = "poor"
)

// SPI band edges.
const (
	spiGood    = 0.9
	spiCaution = 0.7
)

// SPIBand classifies a schedule performance index.
//   - good: spi >= 0.9
//   - caution: 0.7 <= spi < 0.9
//   - poor: spi < 0.7
func SPIBand(spi float64) Band {
	switch {
	case spi >= spiGood:
		return BandGood
	case spi >= spiCaution:
		return BandCaution
	default:
		return BandPoor
	}
}
