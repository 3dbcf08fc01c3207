package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Reesemix123/the-coach-hub-sub011/internal/ledger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/logger"
	"github.com/Reesemix123/the-coach-hub-sub011/internal/models"
)

// AppendSelectionRequest represents a request to record a camera selection
type AppendSelectionRequest struct {
	Lane         int      `json:"lane" binding:"required,gte=1"`
	ClipID       *string  `json:"clip_id,omitempty"`
	StartSeconds *float64 `json:"start_seconds" binding:"required"`
}

// SelectionListResponse represents a game's selection ledger
type SelectionListResponse struct {
	Selections []*models.CameraSelection `json:"selections"`
}

// ClearSelectionsResponse represents the result of clearing a ledger
type ClearSelectionsResponse struct {
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

// SelectionHandler handles camera selection ledger API requests
type SelectionHandler struct {
	ledgerService *ledger.Service
}

// NewSelectionHandler creates a new selection handler instance
func NewSelectionHandler(ledgerService *ledger.Service) *SelectionHandler {
	return &SelectionHandler{ledgerService: ledgerService}
}

// Append handles POST /api/v1/games/:game_id/selections
func (h *SelectionHandler) Append(c *gin.Context) {
	gameID, ok := parseUUIDParam(c, "game_id")
	if !ok {
		return
	}

	var req AppendSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if *req.StartSeconds < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_start",
			Message: "start_seconds must be non-negative",
		})
		return
	}

	var clipID *uuid.UUID
	if req.ClipID != nil {
		id, err := uuid.Parse(*req.ClipID)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_clip_id",
				Message: "Invalid clip ID format",
			})
			return
		}
		clipID = &id
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.ledgerService.Append(ctx, gameID, req.Lane, clipID, *req.StartSeconds)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("game_id", gameID.String()).
			Int("lane", req.Lane).
			Msg("Failed to append selection")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "append_failed",
			Message: "Failed to record camera selection",
		})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// List handles GET /api/v1/games/:game_id/selections
func (h *SelectionHandler) List(c *gin.Context) {
	gameID, ok := parseUUIDParam(c, "game_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.ledgerService.List(ctx, gameID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("game_id", gameID.String()).
			Msg("Failed to list selections")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve selection ledger",
		})
		return
	}

	c.JSON(http.StatusOK, SelectionListResponse{Selections: entries})
}

// Clear handles DELETE /api/v1/games/:game_id/selections
func (h *SelectionHandler) Clear(c *gin.Context) {
	gameID, ok := parseUUIDParam(c, "game_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.ledgerService.Clear(ctx, gameID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("game_id", gameID.String()).
			Msg("Failed to clear selections")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "clear_failed",
			Message: "Failed to clear selection ledger",
		})
		return
	}

	c.JSON(http.StatusOK, ClearSelectionsResponse{
		Deleted: deleted,
		Message: "Selection ledger cleared",
	})
}

// SetupSelectionRoutes registers camera selection ledger routes
func SetupSelectionRoutes(apiGroup *gin.RouterGroup, ledgerService *ledger.Service) {
	handler := NewSelectionHandler(ledgerService)

	apiGroup.POST("/games/:game_id/selections", handler.Append)
	apiGroup.GET("/games/:game_id/selections", handler.List)
	apiGroup.DELETE("/games/:game_id/selections", handler.Clear)
}
