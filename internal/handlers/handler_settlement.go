package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
	"github.com/SscSPs/activity_settlement_app/internal/middleware"

	portssvc "github.com/SscSPs/activity_settlement_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// SettlementHandler handles settlement and simulation requests within an activity.
type SettlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
	simulationService portssvc.SimulationSvcFacade
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(ss portssvc.SettlementSvcFacade, sim portssvc.SimulationSvcFacade) *SettlementHandler {
	return &SettlementHandler{settlementService: ss, simulationService: sim}
}

// RegisterSettlementRoutes registers settlement routes under an activity group.
func RegisterSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade, simulationService portssvc.SimulationSvcFacade) {
	h := NewSettlementHandler(settlementService, simulationService)

	settlements := rg.Group("/settlements")
	{
		settlements.POST("/simulate", h.SimulateSettlement)
		settlements.POST("", h.CreateSettlement)
		settlements.GET("", h.ListSettlements)
		settlements.GET("/:settlement_id", h.GetSettlement)
		settlements.POST("/:settlement_id/finalize", h.FinalizeSettlement)
	}
}

// SimulateSettlement godoc
// @Summary Simulate a settlement
// @Description Computes a cost allocation preview from the activity's current records and roster. Nothing is persisted.
// @Tags settlements
// @Accept json
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param options body dto.SimulateSettlementRequest true "Simulation options"
// @Success 200 {object} dto.AllocationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/settlements/simulate [post]
func (h *SettlementHandler) SimulateSettlement(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	activityID := c.Param("activity_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.SimulateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.simulationService.SimulateSettlement(ctx, activityID, req, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to simulate settlement", slog.String("error", err.Error()), slog.String("activity_id", activityID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to simulate settlement"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateSettlement godoc
// @Summary Create a draft settlement
// @Description Persists a draft settlement from a simulation result, or from a fresh allocation when no result is supplied.
// @Tags settlements
// @Accept json
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param settlement body dto.CreateSettlementRequest true "Settlement details"
// @Success 201 {object} dto.SettlementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Simulation result is stale"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/settlements [post]
func (h *SettlementHandler) CreateSettlement(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	activityID := c.Param("activity_id")

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	settlement, err := h.settlementService.CreateSettlement(ctx, activityID, req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrInvalidState):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrConcurrencyConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Concurrent settlement creation detected, please retry"})
		default:
			logger.Error("Failed to create settlement", slog.String("error", err.Error()), slog.String("activity_id", activityID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create settlement"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToSettlementResponse(settlement))
}

// GetSettlement godoc
// @Summary Get a settlement by ID
// @Description Retrieves a settlement with its full per-participant breakdown.
// @Tags settlements
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param settlement_id path string true "Settlement ID"
// @Success 200 {object} dto.SettlementResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/settlements/{settlement_id} [get]
func (h *SettlementHandler) GetSettlement(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")
	settlementID := c.Param("settlement_id")

	settlement, err := h.settlementService.GetSettlementByID(ctx, activityID, settlementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Settlement not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to get settlement", slog.String("error", err.Error()), slog.String("settlement_id", settlementID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get settlement"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement))
}

// ListSettlements godoc
// @Summary List settlements of an activity
// @Description Retrieves a paginated list of the activity's settlements, newest first.
// @Tags settlements
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param limit query int false "Max settlements to return" default(20)
// @Param next_token query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListSettlementsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/settlements [get]
func (h *SettlementHandler) ListSettlements(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")

	var params dto.ListSettlementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.settlementService.ListSettlements(ctx, activityID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list settlements", slog.String("error", err.Error()), slog.String("activity_id", activityID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list settlements"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FinalizeSettlement godoc
// @Summary Finalize a draft settlement
// @Description Promotes a draft settlement to finalized. Any previously finalized settlement of the activity becomes superseded.
// @Tags settlements
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param settlement_id path string true "Settlement ID"
// @Success 200 {object} dto.SettlementResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Settlement is not a draft or was finalized concurrently"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/settlements/{settlement_id}/finalize [post]
func (h *SettlementHandler) FinalizeSettlement(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")
	settlementID := c.Param("settlement_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	settlement, err := h.settlementService.FinalizeSettlement(ctx, activityID, settlementID, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Settlement not found"})
		case errors.Is(err, apperrors.ErrInvalidState):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrConcurrencyConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Settlement was modified concurrently, please retry"})
		default:
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Error("Failed to finalize settlement", slog.String("error", err.Error()), slog.String("settlement_id", settlementID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to finalize settlement"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement))
}
