package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
)

// balanceHandler exposes the read side of the ledger.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func newBalanceHandler(balanceService portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: balanceService}
}

// dashboard returns aggregated totals, optionally scoped to one worker.
func (h *balanceHandler) dashboard(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var workerID *int64
	if raw := c.Query("workerID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workerID"})
			return
		}
		workerID = &id
	}

	totals, err := h.balanceService.Dashboard(c.Request.Context(), actor, workerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// monthly returns per-calendar-month rollups, newest first (admin only).
func (h *balanceHandler) monthly(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	months := 0
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid months"})
			return
		}
		months = parsed
	}

	rollups, err := h.balanceService.Monthly(c.Request.Context(), actor, months)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": rollups})
}

// mutual returns outstanding per-worker debt lines (admin only).
func (h *balanceHandler) mutual(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	balances, err := h.balanceService.Mutual(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	handler := newBalanceHandler(balanceService)

	balance := rg.Group("/balance")
	{
		balance.GET("/dashboard", handler.dashboard)
		balance.GET("/monthly", handler.monthly)
		balance.GET("/mutual", handler.mutual)
	}
}
