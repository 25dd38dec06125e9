package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
	"github.com/SscSPs/activity_settlement_app/internal/middleware"

	portssvc "github.com/SscSPs/activity_settlement_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// ParticipantHandler handles activity participant related requests.
type ParticipantHandler struct {
	participantService portssvc.ParticipantSvcFacade
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(ps portssvc.ParticipantSvcFacade) *ParticipantHandler {
	return &ParticipantHandler{participantService: ps}
}

// registerParticipantRoutes registers participant routes under an activity group.
func registerParticipantRoutes(rg *gin.RouterGroup, participantService portssvc.ParticipantSvcFacade) {
	h := NewParticipantHandler(participantService)

	participants := rg.Group("/participants")
	{
		participants.POST("", h.AddParticipant)
		participants.GET("", h.ListParticipants)
		participants.POST("/:participant_id/approve", h.ApproveParticipant)
		participants.POST("/:participant_id/reject", h.RejectParticipant)
	}
}

// AddParticipant godoc
// @Summary Add a participant to an activity
// @Description Registers a new pending participant on the activity.
// @Tags participants
// @Accept json
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param participant body dto.AddParticipantRequest true "Participant details"
// @Success 201 {object} dto.ParticipantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User is already a participant"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/participants [post]
func (h *ParticipantHandler) AddParticipant(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	activityID := c.Param("activity_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	participant, err := h.participantService.AddParticipant(ctx, activityID, req, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "User is already a participant of this activity"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to add participant", slog.String("error", err.Error()), slog.String("activity_id", activityID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to add participant"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToParticipantResponse(participant))
}

// ListParticipants godoc
// @Summary List participants of an activity
// @Description Retrieves every participant of the activity regardless of status.
// @Tags participants
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Success 200 {array} dto.ParticipantResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/participants [get]
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")

	participants, err := h.participantService.ListParticipants(ctx, activityID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list participants", slog.String("error", err.Error()), slog.String("activity_id", activityID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list participants"})
		return
	}

	c.JSON(http.StatusOK, dto.ToParticipantResponses(participants))
}

// ApproveParticipant godoc
// @Summary Approve a pending participant
// @Description Moves a pending participant to approved so they are included in settlements.
// @Tags participants
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Participant is not pending"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/participants/{participant_id}/approve [post]
func (h *ParticipantHandler) ApproveParticipant(c *gin.Context) {
	h.transition(c, h.participantService.ApproveParticipant, "Failed to approve participant")
}

// RejectParticipant godoc
// @Summary Reject a pending participant
// @Description Moves a pending participant to rejected.
// @Tags participants
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param participant_id path string true "Participant ID"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Participant is not pending"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/participants/{participant_id}/reject [post]
func (h *ParticipantHandler) RejectParticipant(c *gin.Context) {
	h.transition(c, h.participantService.RejectParticipant, "Failed to reject participant")
}

type participantTransitionFunc func(ctx context.Context, activityID string, participantID string, requestingUserID string) (*domain.Participant, error)

func (h *ParticipantHandler) transition(c *gin.Context, fn participantTransitionFunc, logMsg string) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")
	participantID := c.Param("participant_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	participant, err := fn(ctx, activityID, participantID, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Participant not found"})
		case errors.Is(err, apperrors.ErrInvalidState):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error(logMsg, slog.String("error", err.Error()), slog.String("participant_id", participantID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: logMsg})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToParticipantResponse(participant))
}
