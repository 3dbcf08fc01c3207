package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/signedurl"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/timeline"
)

// Request/Response DTOs

// AppendClipRequest represents a request to append a clip to a lane
type AppendClipRequest struct {
	Lane       int    `json:"lane" binding:"required,gte=1"`
	MediaRef   string `json:"media_ref"`
	PositionMs *int64 `json:"position_ms" binding:"required"`
	DurationMs int64  `json:"duration_ms" binding:"gte=0"`
	OpenEnded  bool   `json:"open_ended"`
}

// MoveClipRequest represents a request to move a clip to a new lane/position
type MoveClipRequest struct {
	Lane       int    `json:"lane" binding:"required,gte=1"`
	PositionMs *int64 `json:"position_ms" binding:"required"`
}

// TrimClipRequest represents a request to set a clip's playback window
type TrimClipRequest struct {
	TrimStartMs int64  `json:"trim_start_ms" binding:"gte=0"`
	TrimEndMs   *int64 `json:"trim_end_ms,omitempty"`
}

// CombineRequest represents a request to build a virtual sequence from clips
type CombineRequest struct {
	Name    string   `json:"name" binding:"required"`
	ClipIDs []string `json:"clip_ids"`
}

// TimelineResponse represents a full game timeline with lanes and clips
type TimelineResponse struct {
	ID           string               `json:"id"`
	GameID       string               `json:"game_id"`
	TimelineMode bool                 `json:"timeline_mode"`
	DurationMs   int64                `json:"duration_ms"`
	Lanes        []*models.CameraLane `json:"lanes"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ResolveResponse represents the active-clip resolution at a timeline position
type ResolveResponse struct {
	InGap           bool                 `json:"in_gap"`
	Clip            *models.TimelineClip `json:"clip,omitempty"`
	ClipTimeMs      int64                `json:"clip_time_ms"`
	NextClipStartMs *int64               `json:"next_clip_start_ms,omitempty"`
}

// ClipURLResponse represents a signed playback URL for a clip's media
type ClipURLResponse struct {
	ClipID string `json:"clip_id"`
	URL    string `json:"url"`
}

// DeleteResponse represents a successful deletion
type DeleteResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TimelineHandler handles timeline-related API requests
type TimelineHandler struct {
	timelineService *timeline.Service
	urlManager      *signedurl.Manager
}

// NewTimelineHandler creates a new timeline handler instance
func NewTimelineHandler(timelineService *timeline.Service, urlManager *signedurl.Manager) *TimelineHandler {
	return &TimelineHandler{
		timelineService: timelineService,
		urlManager:      urlManager,
	}
}

// toTimelineResponse converts a timeline model to API response format
func toTimelineResponse(t *models.GameTimeline) *TimelineResponse {
	return &TimelineResponse{
		ID:           t.ID.String(),
		GameID:       t.GameID.String(),
		TimelineMode: t.TimelineMode,
		DurationMs:   t.DurationMs(),
		Lanes:        t.Lanes,
		UpdatedAt:    t.UpdatedAt,
	}
}

// GetTimeline handles GET /api/v1/games/:game_id/timeline
func (h *TimelineHandler) GetTimeline(c *gin.Context) {
	gameID, ok := parseUUIDParam(c, "game_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	t, err := h.timelineService.EnsureTimeline(ctx, gameID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("game_id", gameID.String()).
			Msg("Failed to get timeline")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve timeline",
		})
		return
	}

	c.JSON(http.StatusOK, toTimelineResponse(t))
}

// AppendClip handles POST /api/v1/games/:game_id/timeline/clips
func (h *TimelineHandler) AppendClip(c *gin.Context) {
	gameID, ok := parseUUIDParam(c, "game_id")
	if !ok {
		return
	}

	var req AppendClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	clip, err := h.timelineService.AppendClip(ctx, gameID, timeline.AppendClipParams{
		Lane:           req.Lane,
		MediaRef:       req.MediaRef,
		LanePositionMs: *req.PositionMs,
		DurationMs:     req.DurationMs,
		OpenEnded:      req.OpenEnded,
	})
	if err != nil {
		if errors.Is(err, timeline.ErrClipOverlap) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "clip_overlap",
				Message: "Clip would overlap an existing clip on this lane",
			})
			return
		}
		if errors.Is(err, timeline.ErrLaneLimit) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "lane_limit",
				Message: "Camera lane limit reached for this game",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("game_id", gameID.String()).
			Int("lane", req.Lane).
			Msg("Failed to append clip")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "append_failed",
			Message: "Failed to append clip",
		})
		return
	}

	c.JSON(http.StatusCreated, clip)
}

// MoveClip handles PATCH /api/v1/clips/:clip_id/move
func (h *TimelineHandler) MoveClip(c *gin.Context) {
	clipID, ok := parseUUIDParam(c, "clip_id")
	if !ok {
		return
	}

	var req MoveClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	clip, err := h.timelineService.MoveClip(ctx, clipID, req.Lane, *req.PositionMs)
	if err != nil {
		if errors.Is(err, timeline.ErrClipNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Clip not found",
			})
			return
		}
		if errors.Is(err, timeline.ErrClipOverlap) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "clip_overlap",
				Message: "Clip would overlap an existing clip on the destination lane",
			})
			return
		}
		if errors.Is(err, timeline.ErrLaneNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "lane_not_found",
				Message: "Destination lane does not exist",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("clip_id", clipID.String()).
			Msg("Failed to move clip")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "move_failed",
			Message: "Failed to move clip",
		})
		return
	}

	c.JSON(http.StatusOK, clip)
}

// TrimClip handles PATCH /api/v1/clips/:clip_id/trim
func (h *TimelineHandler) TrimClip(c *gin.Context) {
	clipID, ok := parseUUIDParam(c, "clip_id")
	if !ok {
		return
	}

	var req TrimClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	clip, err := h.timelineService.TrimClip(ctx, clipID, req.TrimStartMs, req.TrimEndMs)
	if err != nil {
		if errors.Is(err, timeline.ErrClipNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Clip not found",
			})
			return
		}
		if errors.Is(err, timeline.ErrInvalidTrim) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "invalid_trim",
				Message: "Trim window must satisfy 0 <= start < end <= duration",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("clip_id", clipID.String()).
			Msg("Failed to trim clip")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "trim_failed",
			Message: "Failed to trim clip",
		})
		return
	}

	c.JSON(http.StatusOK, clip)
}

// DeleteClip handles DELETE /api/v1/clips/:clip_id
func (h *TimelineHandler) DeleteClip(c *gin.Context) {
	clipID, ok := parseUUIDParam(c, "clip_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.timelineService.RemoveClip(ctx, clipID); err != nil {
		if errors.Is(err, timeline.ErrClipNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Clip not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("clip_id", clipID.String()).
			Msg("Failed to delete clip")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delete_failed",
			Message: "Failed to delete clip",
		})
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{
		Message: "Clip removed successfully",
	})
}

// Combine handles POST /api/v1/games/:game_id/timeline/combine
func (h *TimelineHandler) Combine(c *gin.Context) {
	gameID, ok := parseUUIDParam(c, "game_id")
	if !ok {
		return
	}

	var req CombineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	clipIDs := make([]uuid.UUID, 0, len(req.ClipIDs))
	for _, idStr := range req.ClipIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_clip_id",
				Message: "Invalid clip ID format: " + idStr,
			})
			return
		}
		clipIDs = append(clipIDs, id)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	seq, err := h.timelineService.Combine(ctx, gameID, req.Name, clipIDs)
	if err != nil {
		if errors.Is(err, timeline.ErrEmptyCombine) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "empty_combine",
				Message: "A virtual sequence needs at least one clip",
			})
			return
		}
		if errors.Is(err, timeline.ErrClipNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "clip_not_found",
				Message: "One or more clips not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("game_id", gameID.String()).
			Int("clip_count", len(clipIDs)).
			Msg("Failed to create virtual sequence")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "combine_failed",
			Message: "Failed to create virtual sequence",
		})
		return
	}

	c.JSON(http.StatusCreated, seq)
}

// GetSequence handles GET /api/v1/sequences/:sequence_id
func (h *TimelineHandler) GetSequence(c *gin.Context) {
	seqID, ok := parseUUIDParam(c, "sequence_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	seq, err := h.timelineService.GetSequence(ctx, seqID)
	if err != nil {
		if errors.Is(err, timeline.ErrSequenceNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Virtual sequence not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("sequence_id", seqID.String()).
			Msg("Failed to get virtual sequence")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve virtual sequence",
		})
		return
	}

	c.JSON(http.StatusOK, seq)
}

// Resolve handles GET /api/v1/games/:game_id/timeline/resolve
func (h *TimelineHandler) Resolve(c *gin.Context) {
	gameID, ok := parseUUIDParam(c, "game_id")
	if !ok {
		return
	}

	lane, err := strconv.Atoi(c.Query("lane"))
	if err != nil || lane < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_lane",
			Message: "Query parameter 'lane' must be a positive integer",
		})
		return
	}

	timeMs, err := strconv.ParseInt(c.Query("time_ms"), 10, 64)
	if err != nil || timeMs < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_time",
			Message: "Query parameter 'time_ms' must be a non-negative integer",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.timelineService.ResolveAt(ctx, gameID, lane, timeMs)
	if err != nil {
		if errors.Is(err, timeline.ErrTimelineNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Game has no timeline",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("game_id", gameID.String()).
			Int("lane", lane).
			Int64("time_ms", timeMs).
			Msg("Failed to resolve timeline position")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "resolve_failed",
			Message: "Failed to resolve timeline position",
		})
		return
	}

	c.JSON(http.StatusOK, ResolveResponse{
		InGap:           result.InGap,
		Clip:            result.Clip,
		ClipTimeMs:      result.ClipTimeMs,
		NextClipStartMs: result.NextClipStartMs,
	})
}

// GetClipURL handles GET /api/v1/clips/:clip_id/url
func (h *TimelineHandler) GetClipURL(c *gin.Context) {
	clipID, ok := parseUUIDParam(c, "clip_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	clip, err := h.timelineService.GetClip(ctx, clipID)
	if err != nil {
		if errors.Is(err, timeline.ErrClipNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Clip not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("clip_id", clipID.String()).
			Msg("Failed to get clip for URL")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve clip",
		})
		return
	}

	url, err := h.urlManager.EnsureURL(ctx, clip)
	if err != nil {
		if errors.Is(err, signedurl.ErrNoMediaRef) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "no_media_ref",
				Message: "Clip has no media to play",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("clip_id", clipID.String()).
			Str("media_ref", clip.MediaRef).
			Msg("Failed to issue signed URL")

		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "media_unavailable",
			Message: "Media storage did not return a playable URL",
		})
		return
	}

	c.JSON(http.StatusOK, ClipURLResponse{
		ClipID: clipID.String(),
		URL:    url,
	})
}

// parseUUIDParam validates a UUID path parameter, writing the 400 itself
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + name + " format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// SetupTimelineRoutes registers timeline-related routes
func SetupTimelineRoutes(apiGroup *gin.RouterGroup, timelineService *timeline.Service, urlManager *signedurl.Manager) {
	handler := NewTimelineHandler(timelineService, urlManager)

	apiGroup.GET("/games/:game_id/timeline", handler.GetTimeline)
	apiGroup.POST("/games/:game_id/timeline/clips", handler.AppendClip)
	apiGroup.POST("/games/:game_id/timeline/combine", handler.Combine)
	apiGroup.GET("/games/:game_id/timeline/resolve", handler.Resolve)

	apiGroup.PATCH("/clips/:clip_id/move", handler.MoveClip)
	apiGroup.PATCH("/clips/:clip_id/trim", handler.TrimClip)
	apiGroup.DELETE("/clips/:clip_id", handler.DeleteClip)
	apiGroup.GET("/clips/:clip_id/url", handler.GetClipURL)

	apiGroup.GET("/sequences/:sequence_id", handler.GetSequence)
}
