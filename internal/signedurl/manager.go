package signedurl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// Issuer produces a time-limited URL for a media object
type Issuer interface {
	SignURL(ctx context.Context, mediaRef string, ttl time.Duration) (url string, issuedAt time.Time, err error)
}

// Player is the subset of playback control the manager needs to swap a
// refreshed URL under an active session without losing the viewer's place
type Player interface {
	Load(ctx context.Context, url string) error
	Seek(ctx context.Context, positionMs int64) error
	Play(ctx context.Context) error
	IsPlaying() bool
	PositionMs() int64
}

type cachedURL struct {
	url      string
	issuedAt time.Time
}

// expired reports whether the URL is past its TTL at the given instant
func (c cachedURL) expired(now time.Time, ttl time.Duration) bool {
	return !now.Before(c.issuedAt.Add(ttl))
}

// stale reports whether the URL has entered the refresh window
func (c cachedURL) stale(now time.Time, ttl, refreshLead time.Duration) bool {
	return !now.Before(c.issuedAt.Add(ttl - refreshLead))
}

type inflight struct {
	done chan struct{}
	url  string
	err  error
}

// Manager caches signed media URLs per media reference and re-issues them
// before they expire. Concurrent requests for the same media ref are
// coalesced: one call reaches the issuer, the rest wait for its result.
type Manager struct {
	issuer      Issuer
	ttl         time.Duration
	refreshLead time.Duration

	mu      sync.Mutex
	cache   map[string]cachedURL
	pending map[string]*inflight

	now func() time.Time
}

// NewManager creates a URL lifecycle manager. refreshLead is how long before
// expiry a cached URL is considered due for re-issue.
func NewManager(issuer Issuer, ttl, refreshLead time.Duration) *Manager {
	return &Manager{
		issuer:      issuer,
		ttl:         ttl,
		refreshLead: refreshLead,
		cache:       make(map[string]cachedURL),
		pending:     make(map[string]*inflight),
		now:         time.Now,
	}
}

// EnsureURL returns a playable URL for the clip's media, issuing or
// re-issuing through the issuer as needed. Clips without a media reference
// return ErrNoMediaRef without reaching the issuer. When a re-issue fails but
// the cached URL has not yet expired, the cached URL is returned instead of
// an error.
func (m *Manager) EnsureURL(ctx context.Context, clip *models.TimelineClip) (string, error) {
	if clip == nil || !clip.HasMedia() {
		return "", ErrNoMediaRef
	}
	mediaRef := clip.MediaRef

	m.mu.Lock()
	now := m.now()

	if cached, ok := m.cache[mediaRef]; ok && !cached.stale(now, m.ttl, m.refreshLead) {
		m.mu.Unlock()
		return cached.url, nil
	}

	if req, ok := m.pending[mediaRef]; ok {
		m.mu.Unlock()
		select {
		case <-req.done:
			return req.url, req.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	req := &inflight{done: make(chan struct{})}
	m.pending[mediaRef] = req
	m.mu.Unlock()

	url, issuedAt, err := m.issuer.SignURL(ctx, mediaRef, m.ttl)

	m.mu.Lock()
	delete(m.pending, mediaRef)
	if err != nil {
		// Keep serving the cached URL until it actually expires
		if cached, ok := m.cache[mediaRef]; ok && !cached.expired(m.now(), m.ttl) {
			req.url = cached.url
			m.mu.Unlock()
			close(req.done)

			logger.Log.Warn().
				Err(err).
				Str("media_ref", mediaRef).
				Msg("URL re-issue failed, serving cached URL until expiry")
			return cached.url, nil
		}
		req.err = fmt.Errorf("%w: %v", ErrMediaUnavailable, err)
		m.mu.Unlock()
		close(req.done)
		return "", req.err
	}

	m.cache[mediaRef] = cachedURL{url: url, issuedAt: issuedAt}
	req.url = url
	m.mu.Unlock()
	close(req.done)

	return url, nil
}

// RefreshActive re-issues the URL for a clip that is currently loaded in the
// player and swaps it in without losing the viewer's place: position is
// restored and playback resumes if it was running. A blocked resume is logged
// but does not fail the refresh.
func (m *Manager) RefreshActive(ctx context.Context, clip *models.TimelineClip, player Player) error {
	if clip == nil || !clip.HasMedia() {
		return ErrNoMediaRef
	}

	wasPlaying := player.IsPlaying()
	positionMs := player.PositionMs()

	url, issuedAt, err := m.issuer.SignURL(ctx, clip.MediaRef, m.ttl)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMediaUnavailable, err)
	}

	m.mu.Lock()
	m.cache[clip.MediaRef] = cachedURL{url: url, issuedAt: issuedAt}
	m.mu.Unlock()

	if err := player.Load(ctx, url); err != nil {
		return fmt.Errorf("%w: load: %v", ErrMediaUnavailable, err)
	}
	if err := player.Seek(ctx, positionMs); err != nil {
		return fmt.Errorf("failed to restore position after refresh: %w", err)
	}
	if wasPlaying {
		if err := player.Play(ctx); err != nil {
			logger.Log.Debug().
				Err(err).
				Str("media_ref", clip.MediaRef).
				Msg("Resume after URL refresh blocked, leaving paused")
		}
	}

	logger.Log.Debug().
		Str("media_ref", clip.MediaRef).
		Int64("position_ms", positionMs).
		Bool("resumed", wasPlaying).
		Msg("Refreshed media URL under active playback")

	return nil
}

// Invalidate drops the cached URL for a media reference
func (m *Manager) Invalidate(mediaRef string) {
	m.mu.Lock()
	delete(m.cache, mediaRef)
	m.mu.Unlock()
}
