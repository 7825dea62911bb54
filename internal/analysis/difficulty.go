package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/jengzang/trails-backend-go/internal/stats"
)

// Rating scale bounds
const (
	MinRating = 1
	MaxRating = 10
)

// Normalisation caps: a metric at or above its cap contributes a full 1.0 factor
const (
	elevationGainCapM    = 1500.0
	lengthCapKm          = 20.0
	avgSlopeCapPct       = 15.0
	cardioVarianceCap    = 100.0
	maxSlopeCapPct       = 67.0
	technicalVarianceCap = 200.0
)

const unknownLiteral = "unknown"

// Rating is a 1-10 score that may be unknown. The zero value is Unknown, so an
// uncomputed score can never read as a real number.
type Rating struct {
	value int
	known bool
}

// Unknown is the rating of a metric with no estimator
var Unknown = Rating{}

// Known wraps a computed score
func Known(v int) Rating {
	return Rating{value: v, known: true}
}

// Int returns the score and whether it is known
func (r Rating) Int() (int, bool) {
	return r.value, r.known
}

// IsKnown reports whether the rating carries a score
func (r Rating) IsKnown() bool {
	return r.known
}

func (r Rating) String() string {
	if !r.known {
		return unknownLiteral
	}
	return strconv.Itoa(r.value)
}

// MarshalJSON encodes a known rating as a number and an unknown one as "unknown"
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.known {
		return []byte(`"` + unknownLiteral + `"`), nil
	}
	return strconv.AppendInt(nil, int64(r.value), 10), nil
}

// UnmarshalJSON accepts a number, "unknown" or null
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`"`+unknownLiteral+`"`)) {
		*r = Unknown
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid rating %s: %w", data, err)
	}
	*r = Known(v)
	return nil
}

// Difficulty is the five-field rating of a trail
type Difficulty struct {
	CardioIntensity      int    `json:"cardio_intensity"`
	TechnicalDifficulty  int    `json:"technical_difficulty"`
	Accessibility        Rating `json:"accessibility"`
	WeatherVulnerability Rating `json:"weather_vulnerability"`
	OverallDifficulty    int    `json:"overall_difficulty"`
}

// Rate scores whole-trail metrics
func Rate(m Metrics) Difficulty {
	cardio := CardioIntensity(m)
	technical := TechnicalDifficulty(m)

	return Difficulty{
		CardioIntensity:      cardio,
		TechnicalDifficulty:  technical,
		Accessibility:        Accessibility(m),
		WeatherVulnerability: WeatherVulnerability(m),
		OverallDifficulty:    OverallDifficulty(cardio, technical),
	}
}

// CardioIntensity combines elevation gain, length, average slope and elevation
// spread (weights 0.4, 0.3, 0.2, 0.1)
func CardioIntensity(m Metrics) int {
	score := factor(m.ElevationGain, elevationGainCapM)*0.4 +
		factor(m.LengthKm, lengthCapKm)*0.3 +
		factor(m.AvgSlope, avgSlopeCapPct)*0.2 +
		factor(m.ElevationVariance, cardioVarianceCap)*0.1

	return scaleToRating(score)
}

// TechnicalDifficulty combines maximum slope and elevation spread (weights 0.6, 0.4).
// Slope stands in for surface data we do not have.
func TechnicalDifficulty(m Metrics) int {
	score := factor(m.MaxSlope, maxSlopeCapPct)*0.6 +
		factor(m.ElevationVariance, technicalVarianceCap)*0.4

	return scaleToRating(score)
}

// Accessibility has no estimator yet
func Accessibility(Metrics) Rating {
	return Unknown
}

// WeatherVulnerability needs exposure and tree cover data; no estimator yet
func WeatherVulnerability(Metrics) Rating {
	return Unknown
}

// OverallDifficulty weights the already 1-10 scaled cardio and technical scores
// 0.6/0.4. Accessibility and weather are not part of the formula.
func OverallDifficulty(cardio, technical int) int {
	overall := float64(cardio)*0.6 + float64(technical)*0.4
	return clampRating(int(math.RoundToEven(overall)))
}

// factor normalises value to [0,1] against scaleCap
func factor(value, scaleCap float64) float64 {
	return stats.Clamp(value/scaleCap, 0, 1)
}

// scaleToRating maps a [0,1] score onto 1-10. Halves round to even.
func scaleToRating(score float64) int {
	return clampRating(int(math.RoundToEven(score*9)) + 1)
}

func clampRating(v int) int {
	return max(MinRating, min(MaxRating, v))
}
