package timeutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToPixels_PixelsToTime_RoundTrip(t *testing.T) {
	times := []int64{0, 1, 999, 1000, 1500, 60000, 3_600_000, 10_800_000, 12_345_678}
	zooms := []float64{0.1, 0.5, 1, 2, 4, 10}

	for _, ms := range times {
		for _, zoom := range zooms {
			px := TimeToPixels(ms, zoom)
			back := PixelsToTime(px, zoom)
			assert.InDelta(t, ms, back, 1,
				"round trip for ms=%d zoom=%v", ms, zoom)
		}
	}
}

func TestPixelsPerSecond(t *testing.T) {
	assert.InDelta(t, 0.25, PixelsPerSecond(1), 1e-9)
	assert.InDelta(t, 0.5, PixelsPerSecond(2), 1e-9)
	assert.InDelta(t, 0.125, PixelsPerSecond(0.5), 1e-9)
}

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		name   string
		ms     int64
		gridMs int64
		want   int64
	}{
		{"below midpoint rounds down", 1499, 1000, 1000},
		{"exact midpoint rounds up", 1500, 1000, 2000},
		{"above midpoint rounds up", 1501, 1000, 2000},
		{"already on grid", 3000, 1000, 3000},
		{"zero stays zero", 0, 1000, 0},
		{"small grid", 130, 100, 100},
		{"small grid midpoint", 150, 100, 200},
		{"zero grid is passthrough", 1234, 0, 1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SnapToGrid(tt.ms, tt.gridMs))
		})
	}
}

func TestFormatTimeMs(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{1000, "0:01"},
		{59_000, "0:59"},
		{60_000, "1:00"},
		{90_000, "1:30"},
		{600_000, "10:00"},
		{3_599_000, "59:59"},
		{3_600_000, "1:00:00"},
		{3_661_000, "1:01:01"},
		{36_000_000, "10:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimeMs(tt.ms))
		})
	}
}

func TestParseTimeToMs_RoundTrip(t *testing.T) {
	// Whole-second values are the representable domain of m:ss / h:mm:ss
	for _, seconds := range []int64{0, 1, 59, 60, 61, 599, 3599, 3600, 3661, 7322, 86399} {
		ms := seconds * 1000
		t.Run(fmt.Sprintf("%ds", seconds), func(t *testing.T) {
			parsed, err := ParseTimeToMs(FormatTimeMs(ms))
			require.NoError(t, err)
			assert.Equal(t, ms, parsed)
		})
	}
}

func TestParseTimeToMs_Invalid(t *testing.T) {
	invalid := []string{"", "12", "1:2:3:4", "1:60", "1:00:60", "a:bc", "-1:00", "1:-5"}
	for _, s := range invalid {
		t.Run(s, func(t *testing.T) {
			_, err := ParseTimeToMs(s)
			assert.Error(t, err)
		})
	}
}

func TestParseTimeToMs_UnpaddedMinutes(t *testing.T) {
	ms, err := ParseTimeToMs("2:05")
	require.NoError(t, err)
	assert.Equal(t, int64(125_000), ms)

	ms, err = ParseTimeToMs("1:02:05")
	require.NoError(t, err)
	assert.Equal(t, int64(3_725_000), ms)
}
