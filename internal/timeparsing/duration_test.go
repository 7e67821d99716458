package timeparsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompactDuration(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"+6h", now.Add(6 * time.Hour)},
		{"6h", now.Add(6 * time.Hour)},
		{"-6h", now.Add(-6 * time.Hour)},
		{"+1d", now.AddDate(0, 0, 1)},
		{"-1d", now.AddDate(0, 0, -1)},
		{"2w", now.AddDate(0, 0, 14)},
		{"3m", now.AddDate(0, 3, 0)},
		{"-1y", now.AddDate(-1, 0, 0)},
		{"+365d", now.AddDate(0, 0, 365)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.True(t, IsCompactDuration(tt.input))
			got, err := ParseCompactDuration(tt.input, now, Forward)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCompactDurationRejects(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	for _, input := range []string{"", "6", "h", "6h+", "++1d", "1x", "+ 6h", "30s", "1h30m", "2025-01-15", "tomorrow"} {
		assert.False(t, IsCompactDuration(input), input)
		_, err := ParseCompactDuration(input, now, Backward)
		assert.Error(t, err, input)
	}
}

func TestParseCompactDurationBackward(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"6h", now.Add(-6 * time.Hour)},
		{"2w", now.AddDate(0, 0, -14)},
		{"3m", now.AddDate(0, -3, 0)},
		{"-1d", now.AddDate(0, 0, -1)},
		{"+1d", now.AddDate(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCompactDuration(tt.input, now, Backward)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
