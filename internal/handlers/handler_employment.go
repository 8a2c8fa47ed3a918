package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
	"github.com/wagetrack/wagetrack/internal/dto"
)

// employmentHandler exposes employment record lookups.
type employmentHandler struct {
	employmentService portssvc.EmploymentSvcFacade
}

func newEmploymentHandler(employmentService portssvc.EmploymentSvcFacade) *employmentHandler {
	return &employmentHandler{employmentService: employmentService}
}

// activeEmployment returns a worker's active employment record.
func (h *employmentHandler) activeEmployment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	workerID, ok := pathID(c, "workerID")
	if !ok {
		return
	}

	record, err := h.employmentService.ActiveForWorker(c.Request.Context(), actor, workerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEmploymentResponse(record))
}

func registerEmploymentRoutes(rg *gin.RouterGroup, employmentService portssvc.EmploymentSvcFacade) {
	handler := newEmploymentHandler(employmentService)

	rg.GET("/workers/:workerID/employment", handler.activeEmployment)
}
