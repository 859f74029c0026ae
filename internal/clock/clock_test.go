package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	m, err := Parse("07:05")
	require.NoError(t, err)
	assert.Equal(t, 425, m)

	m, err = Parse("24:00")
	require.NoError(t, err)
	assert.Equal(t, MinutesPerDay, m)

	for _, bad := range []string{"", "7", "24:15", "10:60", "aa:bb", "10:5", "9:5"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalid, bad)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00", Format(0))
	assert.Equal(t, "00:00", Format(-5))
	assert.Equal(t, "09:30", Format(570))
	assert.Equal(t, "24:00", Format(MinutesPerDay))
}

func TestAdd(t *testing.T) {
	assert.Equal(t, "12:15", Add("12:00", 15))
	assert.Equal(t, "24:00", Add("23:50", 30))
	assert.Equal(t, "00:00", Add("00:10", -30))
	assert.Equal(t, "bad", Add("bad", 15))
}

func TestSpanMinutes(t *testing.T) {
	assert.Equal(t, 60, SpanMinutes(540, 600))
	assert.Equal(t, 120, SpanMinutes(23*60, 60))
	assert.Equal(t, 0, SpanMinutes(600, 600))
	assert.Equal(t, 60, SpanMinutes(23*60, MinutesPerDay))
	assert.Equal(t, MinutesPerDay, SpanMinutes(0, MinutesPerDay))
}
