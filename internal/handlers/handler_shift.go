package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
	"github.com/wagetrack/wagetrack/internal/dto"
	"github.com/wagetrack/wagetrack/internal/middleware"
)

// shiftHandler handles HTTP requests for shifts and their segments.
type shiftHandler struct {
	shiftService portssvc.ShiftSvcFacade
}

func newShiftHandler(shiftService portssvc.ShiftSvcFacade) *shiftHandler {
	return &shiftHandler{shiftService: shiftService}
}

// startShift opens a live shift with one open work segment.
func (h *shiftHandler) startShift(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req dto.StartShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	shift, err := h.shiftService.StartShift(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Shift started", slog.Int64("shift_id", shift.ShiftID))
	c.JSON(http.StatusCreated, dto.ToShiftResponse(shift, time.Now().UTC()))
}

// pauseSegment closes the open work segment and opens a pause.
func (h *shiftHandler) pauseSegment(c *gin.Context) {
	h.flipSegment(c, h.shiftService.PauseSegment)
}

// resumeSegment closes the open pause segment and opens a work segment.
func (h *shiftHandler) resumeSegment(c *gin.Context) {
	h.flipSegment(c, h.shiftService.ResumeSegment)
}

func (h *shiftHandler) flipSegment(c *gin.Context, op func(ctx context.Context, actor domain.Actor, segmentID int64) (*domain.Segment, error)) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	segmentID, ok := pathID(c, "segmentID")
	if !ok {
		return
	}

	segment, err := op(c.Request.Context(), actor, segmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSegmentResponse(*segment))
}

// switchTask closes the open segment and opens a new work segment with a
// fresh description without stopping the clock.
func (h *shiftHandler) switchTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	shiftID, ok := pathID(c, "shiftID")
	if !ok {
		return
	}

	var req dto.SwitchTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	segment, err := h.shiftService.SwitchTask(c.Request.Context(), actor, shiftID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSegmentResponse(*segment))
}

// stopSegment closes the open segment, closing the shift and generating its
// wage obligation.
func (h *shiftHandler) stopSegment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	segmentID, ok := pathID(c, "segmentID")
	if !ok {
		return
	}

	shift, obligation, err := h.shiftService.StopSegment(c.Request.Context(), actor, segmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if obligation != nil {
		logger.Info("Shift stopped", slog.Int64("shift_id", shift.ShiftID), slog.Int64("obligation_id", obligation.ObligationID))
	} else {
		logger.Info("Shift stopped", slog.Int64("shift_id", shift.ShiftID))
	}

	resp := gin.H{"shift": dto.ToShiftResponse(shift, time.Now().UTC())}
	if obligation != nil {
		resp["obligation"] = dto.ToObligationResponse(obligation)
	}
	c.JSON(http.StatusOK, resp)
}

// manualCreateShift records a fully specified past shift.
func (h *shiftHandler) manualCreateShift(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req dto.ManualCreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	shift, obligation, err := h.shiftService.ManualCreateShift(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"shift": dto.ToShiftResponse(shift, time.Now().UTC())}
	if obligation != nil {
		resp["obligation"] = dto.ToObligationResponse(obligation)
	}
	c.JSON(http.StatusCreated, resp)
}

// recordTimeOff records a non-work absence over a date span.
func (h *shiftHandler) recordTimeOff(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req dto.TimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	shift, obligation, err := h.shiftService.RecordTimeOff(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"shift": dto.ToShiftResponse(shift, time.Now().UTC())}
	if obligation != nil {
		resp["obligation"] = dto.ToObligationResponse(obligation)
	}
	c.JSON(http.StatusCreated, resp)
}

// updateSegment edits a segment's times, kind, or description.
func (h *shiftHandler) updateSegment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	segmentID, ok := pathID(c, "segmentID")
	if !ok {
		return
	}

	var req dto.UpdateSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	segment, err := h.shiftService.UpdateSegment(c.Request.Context(), actor, segmentID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSegmentResponse(*segment))
}

// updateShift edits a shift's description.
func (h *shiftHandler) updateShift(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	shiftID, ok := pathID(c, "shiftID")
	if !ok {
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	shift, err := h.shiftService.UpdateShift(c.Request.Context(), actor, shiftID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToShiftResponse(shift, time.Now().UTC()))
}

// deleteSegment removes a segment; removing the last one removes the shift.
func (h *shiftHandler) deleteSegment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	segmentID, ok := pathID(c, "segmentID")
	if !ok {
		return
	}

	if err := h.shiftService.DeleteSegment(c.Request.Context(), actor, segmentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteShift removes a shift with its segments and unpaid obligation.
func (h *shiftHandler) deleteShift(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	shiftID, ok := pathID(c, "shiftID")
	if !ok {
		return
	}

	if err := h.shiftService.DeleteShift(c.Request.Context(), actor, shiftID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bulkDeleteShifts removes several shifts in one transaction (admin only).
func (h *shiftHandler) bulkDeleteShifts(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req dto.BulkDeleteShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.shiftService.DeleteShifts(c.Request.Context(), actor, req.ShiftIDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getShift returns one shift with its segments.
func (h *shiftHandler) getShift(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	shiftID, ok := pathID(c, "shiftID")
	if !ok {
		return
	}

	shift, err := h.shiftService.GetShift(c.Request.Context(), actor, shiftID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToShiftResponse(shift, time.Now().UTC()))
}

// listShifts returns a newest-first page of shifts grouped with segments.
func (h *shiftHandler) listShifts(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var params dto.ListShiftsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	shifts, nextToken, err := h.shiftService.ListShifts(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	out := make([]dto.ShiftResponse, len(shifts))
	for i := range shifts {
		out[i] = dto.ToShiftResponse(&shifts[i], now)
	}
	c.JSON(http.StatusOK, dto.ListShiftsResponse{Shifts: out, NextToken: nextToken})
}

func registerShiftRoutes(rg *gin.RouterGroup, shiftService portssvc.ShiftSvcFacade) {
	handler := newShiftHandler(shiftService)

	shifts := rg.Group("/shifts")
	{
		shifts.POST("/start", handler.startShift)
		shifts.POST("", handler.manualCreateShift)
		shifts.POST("/bulk-delete", handler.bulkDeleteShifts)
		shifts.GET("", handler.listShifts)
		shifts.GET("/:shiftID", handler.getShift)
		shifts.POST("/:shiftID/switch", handler.switchTask)
		shifts.PATCH("/:shiftID", handler.updateShift)
		shifts.DELETE("/:shiftID", handler.deleteShift)
	}

	segments := rg.Group("/segments")
	{
		segments.POST("/:segmentID/pause", handler.pauseSegment)
		segments.POST("/:segmentID/resume", handler.resumeSegment)
		segments.POST("/:segmentID/stop", handler.stopSegment)
		segments.PATCH("/:segmentID", handler.updateSegment)
		segments.DELETE("/:segmentID", handler.deleteSegment)
	}

	rg.POST("/timeoff", handler.recordTimeOff)
}
