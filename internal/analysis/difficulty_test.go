package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate_TwoPointTrail(t *testing.T) {
	m := ComputeMetrics(BuildPoints(meridian(0.001, 100, 150)))
	d := Rate(m)

	assert.Equal(t, 3, d.CardioIntensity)
	assert.Equal(t, 5, d.TechnicalDifficulty)
	assert.Equal(t, 4, d.OverallDifficulty)
	assert.False(t, d.Accessibility.IsKnown())
	assert.False(t, d.WeatherVulnerability.IsKnown())
}

func TestRate_Bounds(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want int
	}{
		{"zero metrics", Metrics{}, MinRating},
		{"everything past its cap", Metrics{
			LengthKm:          500,
			ElevationGain:     20000,
			AvgSlope:          90,
			MaxSlope:          400,
			ElevationVariance: 5000,
		}, MaxRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Rate(tt.m)
			assert.Equal(t, tt.want, d.CardioIntensity)
			assert.Equal(t, tt.want, d.TechnicalDifficulty)
			assert.Equal(t, tt.want, d.OverallDifficulty)
		})
	}
}

func TestScaleToRating_RoundsHalfToEven(t *testing.T) {
	// 0.5 * 9 = 4.5 rounds down to 4
	assert.Equal(t, 5, scaleToRating(0.5))
	assert.Equal(t, 1, scaleToRating(0))
	assert.Equal(t, 10, scaleToRating(1))
	assert.Equal(t, 10, scaleToRating(3))
	assert.Equal(t, 1, scaleToRating(-2))
}

func TestOverallDifficulty(t *testing.T) {
	assert.Equal(t, 4, OverallDifficulty(3, 5))
	assert.Equal(t, 1, OverallDifficulty(1, 1))
	assert.Equal(t, 10, OverallDifficulty(10, 10))
	assert.Equal(t, 7, OverallDifficulty(10, 3))
	assert.Equal(t, 10, OverallDifficulty(40, 40))
}

func TestRating(t *testing.T) {
	v, ok := Known(7).Int()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, "7", Known(7).String())

	_, ok = Unknown.Int()
	assert.False(t, ok)
	assert.Equal(t, "unknown", Unknown.String())

	var zero Rating
	assert.Equal(t, Unknown, zero)
}

func TestRating_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Rating `json:"a"`
		B Rating `json:"b"`
	}{Known(6), Unknown})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":6,"b":"unknown"}`, string(data))

	tests := []struct {
		in   string
		want Rating
	}{
		{`3`, Known(3)},
		{`"unknown"`, Unknown},
		{`null`, Unknown},
	}
	for _, tt := range tests {
		var r Rating
		require.NoError(t, json.Unmarshal([]byte(tt.in), &r), tt.in)
		assert.Equal(t, tt.want, r, tt.in)
	}

	var r Rating
	assert.Error(t, json.Unmarshal([]byte(`"hard"`), &r))
}
