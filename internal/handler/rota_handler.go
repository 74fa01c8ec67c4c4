package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/service"
	appErrors "github.com/calloway-health/pbx-rota-api/pkg/errors"
	"github.com/calloway-health/pbx-rota-api/pkg/response"
)

// RotaHandler exposes rota generation and inspection endpoints.
type RotaHandler struct {
	rota *service.RotaService
}

// NewRotaHandler constructs the handler.
func NewRotaHandler(rota *service.RotaService) *RotaHandler {
	return &RotaHandler{rota: rota}
}

// Generate builds and publishes the rota for a date window.
func (h *RotaHandler) Generate(c *gin.Context) {
	var req dto.GenerateRotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.rota.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListAssignments returns published assignments.
func (h *RotaHandler) ListAssignments(c *gin.Context) {
	var query dto.AssignmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	list, err := h.rota.ListAssignments(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// CoverageReport returns the under-staffed windows for a date range.
func (h *RotaHandler) CoverageReport(c *gin.Context) {
	var query dto.CoverageReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	report, err := h.rota.CoverageReport(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
