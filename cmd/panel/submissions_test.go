package main

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/entities"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"3.5", 3.5, true},
		{"3,5", 3.5, true},
		{" 4 ", 4, true},
		{"", 0, false},
		{"null", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseRating(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.InDelta(t, tt.want, got, 0.0001)
			}
		})
	}
}

func TestOverallAverage(t *testing.T) {
	data := map[string]string{
		"avg_zielgenauigkeit": "4",
		"avg_map_kenntnis":    "3,5",
		"avg_teamplay":        "5",
		"avg_kommunikation":   "4",
		"avg_reaktionszeit":   "3",
	}

	got, ok := overallAverage(data)
	require.True(t, ok)
	require.InDelta(t, 3.9, got, 0.0001)
}

func TestOverallAverageMissingField(t *testing.T) {
	data := map[string]string{
		"avg_zielgenauigkeit": "4",
		"avg_map_kenntnis":    "3,5",
		"avg_teamplay":        "5",
		"avg_kommunikation":   "4",
	}

	_, ok := overallAverage(data)
	require.False(t, ok)
}

func TestOverallAverageUnparsableField(t *testing.T) {
	data := map[string]string{
		"avg_zielgenauigkeit": "4",
		"avg_map_kenntnis":    "gut",
		"avg_teamplay":        "5",
		"avg_kommunikation":   "4",
		"avg_reaktionszeit":   "3",
	}

	_, ok := overallAverage(data)
	require.False(t, ok)
}

func submissionsWithAverages(averages ...float64) []*entities.Submission {
	subs := make([]*entities.Submission, 0, len(averages))
	for i, avg := range averages {
		subs = append(subs, &entities.Submission{
			ID:       i + 1,
			Username: "bob",
			Data: map[string]string{
				entities.FieldTotalAverage: strconv.FormatFloat(avg, 'f', 1, 64),
			},
		})
	}
	return subs
}

func TestSevenDayAverage(t *testing.T) {
	previous := submissionsWithAverages(3, 3.5, 4, 4, 3.5, 4.5)

	got, ok := sevenDayAverage(previous, 4.5)
	require.True(t, ok)

	// (3 + 3.5 + 4 + 4 + 3.5 + 4.5 + 4.5) / 7 = 3.857... -> 3.9
	require.InDelta(t, 3.9, got, 0.0001)
}

func TestSevenDayAverageTooFewValues(t *testing.T) {
	previous := submissionsWithAverages(3, 3.5, 4, 4, 3.5)

	_, ok := sevenDayAverage(previous, 4.5)
	require.False(t, ok)
}

func TestSevenDayAverageUsesLastSixOnly(t *testing.T) {
	// The first two entries fall outside the window and must not shift the
	// average.
	previous := submissionsWithAverages(1, 1, 4, 4, 4, 4, 4, 4)

	got, ok := sevenDayAverage(previous, 4)
	require.True(t, ok)
	require.InDelta(t, 4, got, 0.0001)
}

func TestSevenDayAverageSkipsEntriesWithoutOverall(t *testing.T) {
	previous := submissionsWithAverages(3, 3.5, 4, 4, 3.5, 4.5)
	previous[2].Data = map[string]string{}

	_, ok := sevenDayAverage(previous, 4.5)
	require.False(t, ok)
}

func TestFormatRating(t *testing.T) {
	require.Equal(t, "3.9", formatRating(3.9))
	require.Equal(t, "4.0", formatRating(4))
}
