// Package timeutil provides pure conversions between timeline milliseconds,
// display strings, and horizontal pixel offsets at a given zoom level. These
// are the shared units for everything the timeline editor renders.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BasePixelsPerSecond is the horizontal scale at zoom level 1
const BasePixelsPerSecond = 0.25

// PixelsPerSecond returns the horizontal scale for a zoom level
func PixelsPerSecond(zoom float64) float64 {
	return BasePixelsPerSecond * zoom
}

// TimeToPixels converts a timeline position in milliseconds to a pixel offset
// at the given zoom level.
func TimeToPixels(ms int64, zoom float64) float64 {
	return float64(ms) / 1000.0 * PixelsPerSecond(zoom)
}

// PixelsToTime converts a pixel offset back to a timeline position in
// milliseconds. Inverse of TimeToPixels up to floating point rounding.
func PixelsToTime(px float64, zoom float64) int64 {
	pps := PixelsPerSecond(zoom)
	if pps == 0 {
		return 0
	}
	return int64(math.Round(px / pps * 1000.0))
}

// SnapToGrid rounds a timeline position to the nearest multiple of gridMs.
// Ties round toward the larger multiple (round half up).
func SnapToGrid(ms, gridMs int64) int64 {
	if gridMs <= 0 {
		return ms
	}
	return (ms + gridMs/2) / gridMs * gridMs
}

// FormatTimeMs formats a non-negative millisecond position as "m:ss", or
// "h:mm:ss" when an hour or more. Seconds and minutes are zero-padded to two
// digits whenever a larger unit is present.
func FormatTimeMs(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ParseTimeToMs parses "m:ss" or "h:mm:ss" back into milliseconds.
// Round-trips with FormatTimeMs for all whole-second values.
func ParseTimeToMs(s string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time format: %q", s)
	}

	values := make([]int64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time component %q: %w", part, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("negative time component in %q", s)
		}
		// Trailing components carry an upper bound; the leading one does not
		if i > 0 && v > 59 {
			return 0, fmt.Errorf("time component %d out of range in %q", v, s)
		}
		values[i] = v
	}

	var totalSeconds int64
	for _, v := range values {
		totalSeconds = totalSeconds*60 + v
	}
	return totalSeconds * 1000, nil
}
