package render

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/practice_calendar/internal/calendar"
	"github.com/Freeeeeet/practice_calendar/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func rgba(img image.Image, x, y int) [4]uint32 {
	r, g, b, a := img.At(x, y).RGBA()
	return [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8}
}

func TestGenerateWeekImageSize(t *testing.T) {
	data, err := GenerateWeekImage(monday.AddDate(0, 0, 2), nil, nil)
	require.NoError(t, err)

	img := decode(t, data)
	assert.Equal(t, ImageWidth, img.Bounds().Dx())
	assert.Equal(t, ImageHeight, img.Bounds().Dy())
	assert.Equal(t, HeaderHeight+24*calendar.PixelsPerHour, img.Bounds().Dy())
}

func TestSessionBlockUsesGridScale(t *testing.T) {
	sessions := []model.Session{
		{ID: "s1", Date: "2024-06-04", StartTime: "09:00", EndTime: "12:00", Status: model.SessionStatusScheduled},
	}
	data, err := GenerateWeekImage(monday, sessions, nil)
	require.NoError(t, err)
	img := decode(t, data)

	x := LeftLabelsWidth + DayWidth + DayWidth/2
	inside := HeaderHeight + int(calendar.TimeToPixel("11:00"))
	before := HeaderHeight + int(calendar.TimeToPixel("08:30"))

	c := scheduledColor
	assert.Equal(t, [4]uint32{uint32(c.R), uint32(c.G), uint32(c.B), 255}, rgba(img, x, inside))
	assert.NotEqual(t, rgba(img, x, inside), rgba(img, x, before))
}

func TestBlockRectClampsToEndOfDay(t *testing.T) {
	top, height := blockRect(model.Session{StartTime: "23:00", EndTime: "01:00"})
	assert.Equal(t, float64(HeaderHeight)+23*calendar.PixelsPerHour, top)
	assert.Equal(t, float64(calendar.PixelsPerHour), height)

	_, height = blockRect(model.Session{StartTime: "10:00", EndTime: "10:05"})
	assert.Equal(t, minSlotHeight, height)
}

func TestPreviewOverlay(t *testing.T) {
	plain, err := GenerateWeekImage(monday, nil, nil)
	require.NoError(t, err)

	preview := &calendar.PreviewRect{Kind: calendar.PreviewCreating, Date: "2024-06-05", Top: 576, Height: 96}
	withPreview, err := GenerateWeekImage(monday, nil, preview)
	require.NoError(t, err)

	x := LeftLabelsWidth + 2*DayWidth + DayWidth/2
	y := HeaderHeight + 576 + 48
	assert.NotEqual(t, rgba(decode(t, plain), x, y), rgba(decode(t, withPreview), x, y))

	outside := &calendar.PreviewRect{Kind: calendar.PreviewDragging, Date: "2024-06-20", Top: 0, Height: 48}
	_, err = GenerateWeekImage(monday, nil, outside)
	assert.NoError(t, err)
}

func TestWeekLayoutMatchesImage(t *testing.T) {
	layout := WeekLayout(monday.AddDate(0, 0, 4))

	date, ok := layout.ColumnAt(LeftLabelsWidth + 1)
	require.True(t, ok)
	assert.Equal(t, "2024-06-03", date)

	date, ok = layout.ColumnAt(LeftLabelsWidth + 6*DayWidth + 10)
	require.True(t, ok)
	assert.Equal(t, "2024-06-09", date)

	_, ok = layout.ColumnAt(10)
	assert.False(t, ok)
}

func TestTruncateKeepsRunes(t *testing.T) {
	assert.Equal(t, "Анна", truncate("Анна", 20))
	assert.Equal(t, "Кон…", truncate("Константин", 4))
}
