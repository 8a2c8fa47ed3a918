package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
	"github.com/wagetrack/wagetrack/internal/dto"
	"github.com/wagetrack/wagetrack/internal/middleware"
)

// obligationHandler handles HTTP requests for the wage ledger.
type obligationHandler struct {
	obligationService portssvc.ObligationSvcFacade
}

func newObligationHandler(obligationService portssvc.ObligationSvcFacade) *obligationHandler {
	return &obligationHandler{obligationService: obligationService}
}

// createObligation records a manually entered obligation (admin only).
func (h *obligationHandler) createObligation(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req dto.CreateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	obligation, err := h.obligationService.CreateObligation(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Obligation created", slog.Int64("obligation_id", obligation.ObligationID))
	c.JSON(http.StatusCreated, dto.ToObligationResponse(obligation))
}

// payObligation marks an unpaid obligation paid and runs the debt settlement
// scan when applicable.
func (h *obligationHandler) payObligation(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	obligationID, ok := pathID(c, "obligationID")
	if !ok {
		return
	}

	obligation, offsetIDs, err := h.obligationService.PayObligation(c.Request.Context(), actor, obligationID)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Obligation paid",
		slog.Int64("obligation_id", obligation.ObligationID),
		slog.Int("offset_count", len(offsetIDs)),
	)
	c.JSON(http.StatusOK, dto.PayObligationResponse{
		Obligation: dto.ToObligationResponse(obligation),
		OffsetIDs:  offsetIDs,
	})
}

// deleteObligation removes an obligation while it is still unpaid.
func (h *obligationHandler) deleteObligation(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	obligationID, ok := pathID(c, "obligationID")
	if !ok {
		return
	}

	if err := h.obligationService.DeleteObligation(c.Request.Context(), actor, obligationID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getObligation returns one obligation.
func (h *obligationHandler) getObligation(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	obligationID, ok := pathID(c, "obligationID")
	if !ok {
		return
	}

	obligation, err := h.obligationService.GetObligation(c.Request.Context(), actor, obligationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToObligationResponse(obligation))
}

// listObligations returns a newest-first page of obligations.
func (h *obligationHandler) listObligations(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var params dto.ListObligationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	obligations, nextToken, err := h.obligationService.ListObligations(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListObligationsResponse{
		Obligations: dto.ToObligationResponses(obligations),
		NextToken:   nextToken,
	})
}

func registerObligationRoutes(rg *gin.RouterGroup, obligationService portssvc.ObligationSvcFacade) {
	handler := newObligationHandler(obligationService)

	obligations := rg.Group("/obligations")
	{
		obligations.POST("", handler.createObligation)
		obligations.GET("", handler.listObligations)
		obligations.GET("/:obligationID", handler.getObligation)
		obligations.POST("/:obligationID/pay", handler.payObligation)
		obligations.DELETE("/:obligationID", handler.deleteObligation)
	}
}
