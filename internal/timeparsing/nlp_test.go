package timeparsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, January 15, 2025, 10:00.
var reference = time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)

func TestParseNaturalLanguage(t *testing.T) {
	tests := []struct {
		input string
		month time.Month
		day   int
		hour  int // -1 skips the hour check
	}{
		{"tomorrow", time.January, 16, -1},
		{"yesterday", time.January, 14, -1},
		{"next monday", time.January, 20, -1},
		{"next friday", time.January, 17, -1},
		{"tomorrow at 9am", time.January, 16, 9},
		{"next monday at 2pm", time.January, 20, 14},
		{"in 3 days", time.January, 18, -1},
		{"3 days ago", time.January, 12, -1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNaturalLanguage(tt.input, reference)
			require.NoError(t, err)
			assert.Equal(t, 2025, got.Year())
			assert.Equal(t, tt.month, got.Month())
			assert.Equal(t, tt.day, got.Day())
			if tt.hour >= 0 {
				assert.Equal(t, tt.hour, got.Hour())
			}
		})
	}
}

func TestParseNaturalLanguageRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date at all"} {
		_, err := ParseNaturalLanguage(input, reference)
		assert.Error(t, err, input)
	}
}

func TestParseTimeLayers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"compact", "+1d", reference.AddDate(0, 0, 1)},
		{"compact hours", "+6h", reference.Add(6 * time.Hour)},
		{"date only is midnight local", "2025-02-01", time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)},
		{"rfc3339", "2025-03-15T14:30:00Z", time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)},
		{"surrounding space", "  +1d ", reference.AddDate(0, 0, 1)},
		{"unsigned follows direction", "2w", reference.AddDate(0, 0, 14)},
		{"go duration", "90s", reference.Add(90 * time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input, reference, Forward)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseTimeNaturalLanguage(t *testing.T) {
	got, err := ParseTime("tomorrow", reference, Backward)
	require.NoError(t, err)
	assert.Equal(t, 16, got.Day())
}

func TestParseTimeError(t *testing.T) {
	_, err := ParseTime("not-a-date", reference, Backward)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "try 2h")
}
