package load

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayBounds(t *testing.T) {
	day := time.Date(2025, 1, 15, 13, 37, 0, 0, time.UTC)
	start, end := dayBounds(day)

	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), end)
}

func TestDayBounds_MonthRollover(t *testing.T) {
	day := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	start, end := dayBounds(day)

	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), end)
}
