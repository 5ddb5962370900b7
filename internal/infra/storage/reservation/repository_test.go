package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

func TestDuplicateWindowSegments_Interior(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	segs := duplicateWindowSegments(date, 18*60, 120)

	require.Len(t, segs, 1)
	assert.Equal(t, date, segs[0].date)
	assert.Equal(t, types.TimeString("16:00"), segs[0].lower)
	assert.Equal(t, types.TimeString("20:00"), segs[0].upper)
}

func TestDuplicateWindowSegments_LateEveningSpillsToNextDate(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	segs := duplicateWindowSegments(date, 23*60+30, 120)

	require.Len(t, segs, 2)
	assert.Equal(t, date, segs[0].date)
	assert.Equal(t, types.TimeString("21:30"), segs[0].lower)
	assert.Equal(t, types.TimeString("24:00"), segs[0].upper)

	assert.Equal(t, date.AddDate(0, 0, 1), segs[1].date)
	assert.Equal(t, types.TimeString("00:00"), segs[1].lower)
	assert.Equal(t, types.TimeString("01:30"), segs[1].upper)
}

func TestDuplicateWindowSegments_EarlyMorningSpillsToPreviousDate(t *testing.T) {
	date := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

	segs := duplicateWindowSegments(date, 30, 120)

	require.Len(t, segs, 2)
	assert.Equal(t, date, segs[0].date)
	assert.Equal(t, types.TimeString("00:00"), segs[0].lower)
	assert.Equal(t, types.TimeString("02:30"), segs[0].upper)

	assert.Equal(t, date.AddDate(0, 0, -1), segs[1].date)
	assert.Equal(t, types.TimeString("22:30"), segs[1].lower)
	assert.Equal(t, types.TimeString("24:00"), segs[1].upper)
}

func TestDuplicateWindowSegments_BoundaryTouchStaysSingle(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	segs := duplicateWindowSegments(date, 22*60, 120)

	require.Len(t, segs, 1)
	assert.Equal(t, types.TimeString("20:00"), segs[0].lower)
	assert.Equal(t, types.TimeString("24:00"), segs[0].upper)
}

func TestMinutesToTimeString(t *testing.T) {
	assert.Equal(t, types.TimeString("00:00"), minutesToTimeString(0))
	assert.Equal(t, types.TimeString("09:05"), minutesToTimeString(9*60+5))
	assert.Equal(t, types.TimeString("24:00"), minutesToTimeString(minutesPerDay))
}
