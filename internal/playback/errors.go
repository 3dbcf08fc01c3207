package playback

import "errors"

// Custom playback errors
var (
	// ErrSwitchInProgress is returned when a camera switch is requested while
	// one is already underway. The pending switch is unchanged; the request is
	// simply dropped and never surfaced to the end user.
	ErrSwitchInProgress = errors.New("camera switch already in progress")

	// ErrSwitchDebounced is returned when switch requests arrive faster than
	// the minimum interval guard. Dropped, not surfaced.
	ErrSwitchDebounced = errors.New("camera switch request debounced")

	// ErrMediaUnavailable is returned when the target clip's media URL could
	// not be obtained or loaded. Recoverable: retry the switch.
	ErrMediaUnavailable = errors.New("media unavailable")

	// ErrAutoplayBlocked is returned by MediaPlayer.Play when the runtime
	// refuses to start playback without a user gesture. Playback stays paused
	// at the restored position; not a failure.
	ErrAutoplayBlocked = errors.New("autoplay blocked by runtime")

	// ErrSessionClosed is returned when a switch is requested on a session
	// that has been shut down. The session cannot be reused.
	ErrSessionClosed = errors.New("playback session closed")
)

// IsDropped checks whether the error is an internally-dropped switch request
// rather than a real failure
func IsDropped(err error) bool {
	return errors.Is(err, ErrSwitchInProgress) || errors.Is(err, ErrSwitchDebounced)
}
