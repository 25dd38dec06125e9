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

// RecordHandler handles accounting record related requests within an activity.
type RecordHandler struct {
	recordService portssvc.RecordSvcFacade
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(rs portssvc.RecordSvcFacade) *RecordHandler {
	return &RecordHandler{recordService: rs}
}

// registerRecordRoutes registers record routes under an activity group.
func registerRecordRoutes(rg *gin.RouterGroup, recordService portssvc.RecordSvcFacade) {
	h := NewRecordHandler(recordService)

	records := rg.Group("/records")
	{
		records.POST("", h.CreateRecord)
		records.GET("", h.ListRecords)
		records.GET("/:record_id", h.GetRecord)
		records.PUT("/:record_id", h.UpdateRecord)
		records.DELETE("/:record_id", h.DeleteRecord)
		records.POST("/:record_id/confirm", h.ConfirmRecord)
		records.POST("/:record_id/cancel", h.CancelRecord)
	}
}

// registerCategoryRoutes registers the expense category listing route.
func registerCategoryRoutes(rg *gin.RouterGroup, recordService portssvc.RecordSvcFacade) {
	h := NewRecordHandler(recordService)
	rg.GET("/expense-categories", h.ListCategories)
}

// CreateRecord godoc
// @Summary Create a new accounting record
// @Description Creates a draft expense, reserve contribution or adjustment in the activity.
// @Tags records
// @Accept json
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param record body dto.CreateRecordRequest true "Record details"
// @Success 201 {object} dto.RecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/records [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	activityID := c.Param("activity_id")

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	record, err := h.recordService.CreateRecord(ctx, activityID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create record", slog.String("error", err.Error()), slog.String("activity_id", activityID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create record"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToRecordResponse(record))
}

// GetRecord godoc
// @Summary Get a record by ID
// @Description Retrieves a single accounting record from the activity.
// @Tags records
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param record_id path string true "Record ID"
// @Success 200 {object} dto.RecordResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/records/{record_id} [get]
func (h *RecordHandler) GetRecord(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")
	recordID := c.Param("record_id")

	record, err := h.recordService.GetRecordByID(ctx, activityID, recordID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Record not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to get record", slog.String("error", err.Error()), slog.String("record_id", recordID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get record"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

// ListRecords godoc
// @Summary List records in an activity
// @Description Retrieves a paginated list of accounting records, newest first.
// @Tags records
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param limit query int false "Max records to return" default(20)
// @Param next_token query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListRecordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/records [get]
func (h *RecordHandler) ListRecords(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")

	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.recordService.ListRecords(ctx, activityID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list records", slog.String("error", err.Error()), slog.String("activity_id", activityID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list records"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateRecord godoc
// @Summary Update a draft record
// @Description Updates details of a record that is still in draft status.
// @Tags records
// @Accept json
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param record_id path string true "Record ID"
// @Param record body dto.UpdateRecordRequest true "Fields to update"
// @Success 200 {object} dto.RecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Record is not in draft status"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/records/{record_id} [put]
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")
	recordID := c.Param("record_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req dto.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	record, err := h.recordService.UpdateRecord(ctx, activityID, recordID, req, requestingUserID)
	if err != nil {
		h.respondRecordError(c, err, "Failed to update record", recordID)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

// DeleteRecord godoc
// @Summary Delete a draft record
// @Description Deletes a record that is still in draft status.
// @Tags records
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param record_id path string true "Record ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Record is not in draft status"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/records/{record_id} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")
	recordID := c.Param("record_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	if err := h.recordService.DeleteRecord(ctx, activityID, recordID, requestingUserID); err != nil {
		h.respondRecordError(c, err, "Failed to delete record", recordID)
		return
	}

	c.Status(http.StatusNoContent)
}

// ConfirmRecord godoc
// @Summary Confirm a draft record
// @Description Moves a draft record to confirmed so it counts towards settlements.
// @Tags records
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param record_id path string true "Record ID"
// @Success 200 {object} dto.RecordResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid status transition"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/records/{record_id}/confirm [post]
func (h *RecordHandler) ConfirmRecord(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")
	recordID := c.Param("record_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	record, err := h.recordService.ConfirmRecord(ctx, activityID, recordID, requestingUserID)
	if err != nil {
		h.respondRecordError(c, err, "Failed to confirm record", recordID)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

// CancelRecord godoc
// @Summary Cancel a record
// @Description Moves a draft or confirmed record to cancelled.
// @Tags records
// @Produce json
// @Param activity_id path string true "Activity ID"
// @Param record_id path string true "Record ID"
// @Success 200 {object} dto.RecordResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid status transition"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities/{activity_id}/records/{record_id}/cancel [post]
func (h *RecordHandler) CancelRecord(c *gin.Context) {
	ctx := c.Request.Context()
	activityID := c.Param("activity_id")
	recordID := c.Param("record_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	record, err := h.recordService.CancelRecord(ctx, activityID, recordID, requestingUserID)
	if err != nil {
		h.respondRecordError(c, err, "Failed to cancel record", recordID)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

// ListCategories godoc
// @Summary List expense categories
// @Description Retrieves the fixed set of expense categories.
// @Tags categories
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /expense-categories [get]
func (h *RecordHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := h.recordService.ListCategories(ctx)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("Failed to list categories", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}

// respondRecordError maps service errors for record mutations to HTTP responses.
func (h *RecordHandler) respondRecordError(c *gin.Context, err error, logMsg string, recordID string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Record not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed"})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error(logMsg, slog.String("error", err.Error()), slog.String("record_id", recordID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: logMsg})
	}
}
