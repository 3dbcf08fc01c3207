package signedurl

import "errors"

var (
	// ErrNoMediaRef indicates a clip with no backing media object, such as a
	// virtual sequence placeholder. These never reach the issuer.
	ErrNoMediaRef = errors.New("clip has no media reference")

	// ErrMediaUnavailable indicates the issuer could not produce a usable URL
	ErrMediaUnavailable = errors.New("media unavailable")
)

// IsNoMediaRef checks if an error is a no-media-ref error
func IsNoMediaRef(err error) bool {
	return errors.Is(err, ErrNoMediaRef)
}

// IsMediaUnavailable checks if an error is a media-unavailable error
func IsMediaUnavailable(err error) bool {
	return errors.Is(err, ErrMediaUnavailable)
}
