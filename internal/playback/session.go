package playback

import (
	"context"

	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/config"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/timeline"
)

// NewSession assembles a playback session for one game from the configured
// tuning: the virtual clock ticks at cfg.TickInterval and the switcher drops
// repeat requests inside cfg.SwitchDebounce. The clock resolves against the
// switcher's current lane, so a gap traversal keeps following camera switches
// made while the clock runs. handoff fires once when the clock reaches a
// clip; recorder may be nil.
func NewSession(
	gameID uuid.UUID,
	cfg *config.PlaybackConfig,
	resolver Resolver,
	urls URLProvider,
	player MediaPlayer,
	recorder SelectionRecorder,
	handoff HandoffFunc,
) *Switcher {
	var sw *Switcher
	resolve := func(timeMs int64) timeline.ActiveClip {
		result, err := resolver.ResolveAt(context.Background(), gameID, sw.CurrentLane(), timeMs)
		if err != nil {
			logger.Log.Warn().
				Err(err).
				Str("game_id", gameID.String()).
				Int64("time_ms", timeMs).
				Msg("Virtual clock resolve failed")
			return timeline.ActiveClip{InGap: true}
		}
		return result
	}
	clock := NewVirtualClock(cfg.TickInterval, resolve, handoff)
	sw = NewSwitcher(gameID, resolver, urls, player, clock, recorder, cfg.SwitchDebounce)
	return sw
}
