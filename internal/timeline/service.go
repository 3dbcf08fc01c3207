package timeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/db"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// Service handles business logic for timeline operations. It loads timelines
// from the database, applies the in-memory mutation contract, and persists the
// results. Playback components only read; a single editing session mutates.
type Service struct {
	repos    *db.Repositories
	maxLanes int
}

// NewService creates a new timeline service instance
func NewService(repos *db.Repositories, maxLanes int) *Service {
	if maxLanes <= 0 || maxLanes > models.MaxLanes {
		maxLanes = models.MaxLanes
	}
	return &Service{
		repos:    repos,
		maxLanes: maxLanes,
	}
}

// GetTimeline loads a game's timeline with all lanes and their clips
func (s *Service) GetTimeline(ctx context.Context, gameID uuid.UUID) (*models.GameTimeline, error) {
	timeline, err := s.repos.Timelines.GetByGameID(ctx, gameID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrTimelineNotFound
		}
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}

	lanes, err := s.repos.Lanes.GetByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lanes: %w", err)
	}

	clips, err := s.repos.Clips.GetByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clips: %w", err)
	}

	byLane := make(map[int][]*models.TimelineClip)
	for _, clip := range clips {
		byLane[clip.Lane] = append(byLane[clip.Lane], clip)
	}
	for _, lane := range lanes {
		lane.Clips = byLane[lane.Lane]
	}
	timeline.Lanes = lanes

	return timeline, nil
}

// EnsureTimeline returns the game's timeline, creating it with a single
// default lane when the game has none yet.
func (s *Service) EnsureTimeline(ctx context.Context, gameID uuid.UUID) (*models.GameTimeline, error) {
	timeline, err := s.GetTimeline(ctx, gameID)
	if err == nil {
		return timeline, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	timeline = models.NewGameTimeline(gameID)
	if err := s.repos.Timelines.Create(ctx, timeline); err != nil {
		return nil, fmt.Errorf("failed to create timeline: %w", err)
	}

	lane := models.NewCameraLane(gameID, 1, "Camera 1")
	if err := s.repos.Lanes.Create(ctx, lane); err != nil {
		return nil, fmt.Errorf("failed to create default lane: %w", err)
	}
	timeline.Lanes = []*models.CameraLane{lane}

	logger.Log.Info().
		Str("game_id", gameID.String()).
		Msg("Timeline created")

	return timeline, nil
}

// AddLane adds a camera lane to a game's timeline, up to the configured maximum
func (s *Service) AddLane(ctx context.Context, gameID uuid.UUID, lane int, label string) (*models.CameraLane, error) {
	timeline, err := s.EnsureTimeline(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if timeline.Lane(lane) != nil {
		return nil, fmt.Errorf("failed to add lane: %w", db.ErrDuplicate)
	}
	if len(timeline.Lanes) >= s.maxLanes || lane < 1 || lane > s.maxLanes {
		logger.Log.Warn().
			Str("game_id", gameID.String()).
			Int("lane", lane).
			Int("max_lanes", s.maxLanes).
			Msg("Lane limit reached")
		return nil, ErrLaneLimit
	}

	l := models.NewCameraLane(gameID, lane, label)
	if err := s.repos.Lanes.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create lane: %w", err)
	}

	logger.Log.Info().
		Str("game_id", gameID.String()).
		Int("lane", lane).
		Str("label", label).
		Msg("Lane added")

	return l, nil
}

// AppendClipParams carries the caller-supplied fields for an append
type AppendClipParams struct {
	Lane           int
	MediaRef       string
	LanePositionMs int64
	DurationMs     int64
	OpenEnded      bool
}

// AppendClip places a new clip on a lane, implicitly closing an open-ended
// predecessor at the new clip's start. Returns ErrClipOverlap without touching
// the database when the non-overlap invariant would be violated.
func (s *Service) AppendClip(ctx context.Context, gameID uuid.UUID, params AppendClipParams) (*models.TimelineClip, error) {
	timeline, err := s.EnsureTimeline(ctx, gameID)
	if err != nil {
		return nil, err
	}

	lane := timeline.Lane(params.Lane)
	if lane == nil {
		if _, err := s.AddLane(ctx, gameID, params.Lane, fmt.Sprintf("Camera %d", params.Lane)); err != nil {
			return nil, err
		}
		timeline, err = s.GetTimeline(ctx, gameID)
		if err != nil {
			return nil, err
		}
		lane = timeline.Lane(params.Lane)
	}

	// Track which clip an append may implicitly close so only that row is rewritten
	var closedCandidate *models.TimelineClip
	for _, c := range lane.Clips {
		if c.OpenEnded {
			closedCandidate = c
			break
		}
	}

	clip := models.NewTimelineClip(gameID, params.Lane, params.MediaRef, params.LanePositionMs, params.DurationMs)
	clip.OpenEnded = params.OpenEnded

	if err := AppendClip(timeline, params.Lane, clip); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("game_id", gameID.String()).
			Int("lane", params.Lane).
			Int64("position_ms", params.LanePositionMs).
			Msg("Clip append rejected")
		return nil, err
	}

	// The close-out and the insert commit together or not at all
	var closed *models.TimelineClip
	if closedCandidate != nil && !closedCandidate.OpenEnded {
		closed = closedCandidate
	}
	if err := s.repos.Clips.CreateWithClose(ctx, closed, clip); err != nil {
		return nil, fmt.Errorf("failed to persist clip append: %w", err)
	}
	if err := s.repos.Timelines.Touch(ctx, gameID); err != nil {
		logger.Log.Warn().Err(err).Str("game_id", gameID.String()).Msg("Failed to touch timeline")
	}

	logger.Log.Info().
		Str("game_id", gameID.String()).
		Str("clip_id", clip.ID.String()).
		Int("lane", params.Lane).
		Int64("position_ms", clip.LanePositionMs).
		Int64("duration_ms", clip.DurationMs).
		Msg("Clip appended")

	return clip, nil
}

// MoveClip changes a clip's lane and/or position, revalidating non-overlap
// against the destination lane.
func (s *Service) MoveClip(ctx context.Context, clipID uuid.UUID, newLane int, newPositionMs int64) (*models.TimelineClip, error) {
	clip, err := s.getClip(ctx, clipID)
	if err != nil {
		return nil, err
	}

	timeline, err := s.GetTimeline(ctx, clip.GameID)
	if err != nil {
		return nil, err
	}

	if err := MoveClip(timeline, clipID, newLane, newPositionMs); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("clip_id", clipID.String()).
			Int("new_lane", newLane).
			Int64("new_position_ms", newPositionMs).
			Msg("Clip move rejected")
		return nil, err
	}

	moved, _ := findClip(timeline, clipID)
	if err := s.repos.Clips.Update(ctx, moved); err != nil {
		return nil, fmt.Errorf("failed to persist clip move: %w", err)
	}

	logger.Log.Info().
		Str("clip_id", clipID.String()).
		Int("lane", newLane).
		Int64("position_ms", newPositionMs).
		Msg("Clip moved")

	return moved, nil
}

// TrimClip sets a clip's playback window. Lane placement is unaffected.
func (s *Service) TrimClip(ctx context.Context, clipID uuid.UUID, trimStartMs int64, trimEndMs *int64) (*models.TimelineClip, error) {
	clip, err := s.getClip(ctx, clipID)
	if err != nil {
		return nil, err
	}

	if err := TrimClip(clip, trimStartMs, trimEndMs); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("clip_id", clipID.String()).
			Int64("trim_start_ms", trimStartMs).
			Msg("Clip trim rejected")
		return nil, err
	}

	if err := s.repos.Clips.Update(ctx, clip); err != nil {
		return nil, fmt.Errorf("failed to persist clip trim: %w", err)
	}

	logger.Log.Info().
		Str("clip_id", clipID.String()).
		Int64("trim_start_ms", trimStartMs).
		Msg("Clip trimmed")

	return clip, nil
}

// RemoveClip deletes a clip; later clips keep their positions and the gap remains
func (s *Service) RemoveClip(ctx context.Context, clipID uuid.UUID) error {
	clip, err := s.getClip(ctx, clipID)
	if err != nil {
		return err
	}

	if err := s.repos.Clips.Delete(ctx, clipID); err != nil {
		if db.IsNotFound(err) {
			return ErrClipNotFound
		}
		return fmt.Errorf("failed to delete clip: %w", err)
	}
	if err := s.repos.Timelines.Touch(ctx, clip.GameID); err != nil {
		logger.Log.Warn().Err(err).Str("game_id", clip.GameID.String()).Msg("Failed to touch timeline")
	}

	logger.Log.Info().
		Str("clip_id", clipID.String()).
		Str("game_id", clip.GameID.String()).
		Msg("Clip removed")

	return nil
}

// Combine creates a virtual sequence referencing the given clips in order.
// The source clips are read, never written.
func (s *Service) Combine(ctx context.Context, gameID uuid.UUID, name string, clipIDs []uuid.UUID) (*models.VirtualSequence, error) {
	if len(clipIDs) == 0 {
		return nil, ErrEmptyCombine
	}

	clips, err := s.repos.Clips.GetByIDs(ctx, clipIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load clips: %w", err)
	}

	byID := make(map[uuid.UUID]*models.TimelineClip, len(clips))
	for _, clip := range clips {
		byID[clip.ID] = clip
	}

	// Preserve the caller's playback order. A clip belonging to another game
	// is treated as not found for this one.
	ordered := make([]*models.TimelineClip, 0, len(clipIDs))
	for _, id := range clipIDs {
		clip, ok := byID[id]
		if !ok || clip.GameID != gameID {
			return nil, ErrClipNotFound
		}
		ordered = append(ordered, clip)
	}

	seq, entries, err := CombineClips(gameID, name, ordered)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Sequences.Create(ctx, seq, entries); err != nil {
		return nil, fmt.Errorf("failed to persist virtual sequence: %w", err)
	}
	seq.Entries = entries

	logger.Log.Info().
		Str("game_id", gameID.String()).
		Str("sequence_id", seq.ID.String()).
		Int("clip_count", seq.ClipCount).
		Msg("Virtual sequence created")

	return seq, nil
}

// GetSequence retrieves a virtual sequence with its entries
func (s *Service) GetSequence(ctx context.Context, id uuid.UUID) (*models.VirtualSequence, error) {
	seq, err := s.repos.Sequences.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrSequenceNotFound
		}
		return nil, fmt.Errorf("failed to get sequence: %w", err)
	}
	return seq, nil
}

// ResolveAt loads a game's timeline and resolves the active clip on a lane at
// the given absolute time.
func (s *Service) ResolveAt(ctx context.Context, gameID uuid.UUID, lane int, timeMs int64) (ActiveClip, error) {
	timeline, err := s.GetTimeline(ctx, gameID)
	if err != nil {
		return ActiveClip{InGap: true}, err
	}

	result := ResolveTimeline(timeline, lane, timeMs)

	logger.Log.Debug().
		Str("game_id", gameID.String()).
		Int("lane", lane).
		Int64("time_ms", timeMs).
		Bool("in_gap", result.InGap).
		Msg("Resolved timeline position")

	return result, nil
}

// GetClip retrieves a single clip by ID
func (s *Service) GetClip(ctx context.Context, clipID uuid.UUID) (*models.TimelineClip, error) {
	return s.getClip(ctx, clipID)
}

func (s *Service) getClip(ctx context.Context, clipID uuid.UUID) (*models.TimelineClip, error) {
	clip, err := s.repos.Clips.GetByID(ctx, clipID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrClipNotFound
		}
		return nil, fmt.Errorf("failed to get clip: %w", err)
	}
	return clip, nil
}
