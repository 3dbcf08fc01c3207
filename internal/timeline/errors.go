package timeline

import "errors"

// Custom timeline errors
var (
	// ErrClipOverlap is returned when a mutation would place two clips on the
	// same lane with intersecting intervals. The model is never changed.
	ErrClipOverlap = errors.New("clip overlaps an existing clip on the lane")

	// ErrInvalidTrim is returned when trim bounds violate 0 <= start < end
	ErrInvalidTrim = errors.New("invalid trim bounds")

	// ErrLaneNotFound is returned when the requested lane does not exist on the timeline
	ErrLaneNotFound = errors.New("lane not found")

	// ErrLaneLimit is returned when adding a lane would exceed the maximum lane count
	ErrLaneLimit = errors.New("maximum lane count reached")

	// ErrClipNotFound is returned when the requested clip does not exist
	ErrClipNotFound = errors.New("clip not found")

	// ErrTimelineNotFound is returned when the requested game has no timeline
	ErrTimelineNotFound = errors.New("timeline not found")

	// ErrEmptyCombine is returned when a virtual sequence would reference no clips
	ErrEmptyCombine = errors.New("virtual sequence requires at least one clip")

	// ErrSequenceNotFound is returned when the requested virtual sequence does not exist
	ErrSequenceNotFound = errors.New("virtual sequence not found")
)

// IsClipOverlap checks if the error is a clip overlap error
func IsClipOverlap(err error) bool {
	return errors.Is(err, ErrClipOverlap)
}

// IsInvalidTrim checks if the error is an invalid trim error
func IsInvalidTrim(err error) bool {
	return errors.Is(err, ErrInvalidTrim)
}

// IsNotFound checks if the error is any of the timeline not-found errors
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLaneNotFound) ||
		errors.Is(err, ErrClipNotFound) ||
		errors.Is(err, ErrTimelineNotFound) ||
		errors.Is(err, ErrSequenceNotFound)
}
