package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMidnight(t *testing.T) {
	in := time.Date(2025, 1, 15, 13, 37, 42, 999, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), Midnight(in))
}

func TestDatesInRange(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse(time.DateOnly, s)
		assert.NoError(t, err)
		return d
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []string
	}{
		{
			name:  "single day",
			start: day("2025-01-01"),
			end:   day("2025-01-01"),
			want:  []string{"2025-01-01"},
		},
		{
			name:  "multi day crossing month boundary",
			start: day("2025-01-30"),
			end:   day("2025-02-02"),
			want:  []string{"2025-01-30", "2025-01-31", "2025-02-01", "2025-02-02"},
		},
		{
			name:  "inverted range is empty",
			start: day("2025-01-02"),
			end:   day("2025-01-01"),
			want:  nil,
		},
		{
			name:  "bounds with time-of-day are truncated",
			start: time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 1, 2, 6, 0, 0, 0, time.UTC),
			want:  []string{"2025-01-01", "2025-01-02"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := DatesInRange(tt.start, tt.end)

			var got []string
			for _, d := range dates {
				got = append(got, d.Format(time.DateOnly))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
