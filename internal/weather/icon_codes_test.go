package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIconCode(t *testing.T) {
	tests := []struct {
		input string
		want  IconCode
	}{
		{"01d", IconClearDay},
		{"01n", IconClearNight},
		{"04d", IconBrokenCloudsDay},
		{"09n", IconShowerRainNight},
		{"10d", IconRainDay},
		{"11n", IconThunderstormNight},
		{"13d", IconSnowDay},
		{" 13N ", IconSnowNight},
		{"50d", IconUnknown},
		{"", IconUnknown},
		{"sun", IconUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIconCode(tt.input))
		})
	}
}

func TestIconDescriptionCoversAllCodes(t *testing.T) {
	for _, code := range []string{"01d", "02n", "03d", "04n", "09d", "10n", "11d", "13n"} {
		assert.NotEmpty(t, IconDescription[ParseIconCode(code)], code)
	}
}

func TestSummaryCode(t *testing.T) {
	assert.Equal(t, IconRainDay, Summary{Icon: "10d"}.Code())
	assert.Equal(t, IconUnknown, Summary{Icon: "50n"}.Code())
}
