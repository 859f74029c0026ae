package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelToTime(t *testing.T) {
	tests := []struct {
		y    float64
		want string
	}{
		{0, "00:00"},
		{-30, "00:00"},
		{11.9, "00:00"},
		{12, "00:15"},
		{48, "01:00"},
		{576, "12:00"},
		{580, "12:00"},
		{588, "12:15"},
		{1140, "23:45"},
		{1152, "24:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PixelToTime(tt.y), "y=%v", tt.y)
	}
}

func TestTimeToPixel(t *testing.T) {
	assert.Equal(t, 0.0, TimeToPixel("00:00"))
	assert.Equal(t, 576.0, TimeToPixel("12:00"))
	assert.Equal(t, 444.0, TimeToPixel("09:15"))
	assert.Equal(t, 1152.0, TimeToPixel("24:00"))
	assert.Equal(t, 0.0, TimeToPixel("bad"))
}

func TestGeometryRoundTrip(t *testing.T) {
	step := SnapMinutes * PixelsPerMinute
	for i := 0; i <= int(DayHeight)*10; i += 7 {
		y := float64(i) / 10
		back := TimeToPixel(PixelToTime(y))
		assert.LessOrEqual(t, back, y+1e-9, "y=%v", y)
		assert.Less(t, y-back, step, "y=%v", y)
	}
}

func TestDurationHours(t *testing.T) {
	assert.Equal(t, 1.0, DurationHours("09:00", "10:00"))
	assert.Equal(t, 0.25, DurationHours("12:00", "12:15"))
	assert.Equal(t, 2.0, DurationHours("23:00", "01:00"))
	assert.Equal(t, 0.0, DurationHours("x", "10:00"))

	assert.Equal(t, 90, DurationMinutes("09:00", "10:30"))
	assert.Equal(t, 120, DurationMinutes("23:00", "01:00"))
	assert.Equal(t, MinutesPerDay, DurationMinutes("00:00", "24:00"))
}

func TestMinutesBetween(t *testing.T) {
	assert.Equal(t, 10, MinutesBetween("09:50", "10:00"))
	assert.Equal(t, -120, MinutesBetween("10:00", "08:00"))
	assert.Equal(t, 0, MinutesBetween("10:00", "nope"))
}

func TestDisplayEndMinutes(t *testing.T) {
	assert.Equal(t, 600, DisplayEndMinutes("09:00", "10:00"))
	assert.Equal(t, MinutesPerDay, DisplayEndMinutes("23:00", "01:00"))
}

func TestAbsoluteTime(t *testing.T) {
	got, err := AbsoluteTime("2024-06-03", "14:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC), got)

	_, err = AbsoluteTime("2024-13-03", "14:30", time.UTC)
	assert.Error(t, err)

	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2023-02-29"))
}
