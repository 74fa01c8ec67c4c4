package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/service"
	appErrors "github.com/calloway-health/pbx-rota-api/pkg/errors"
	"github.com/calloway-health/pbx-rota-api/pkg/response"
)

// TimeOffHandler exposes absence request endpoints.
type TimeOffHandler struct {
	timeOff *service.TimeOffService
}

// NewTimeOffHandler constructs the handler.
func NewTimeOffHandler(timeOff *service.TimeOffService) *TimeOffHandler {
	return &TimeOffHandler{timeOff: timeOff}
}

// Create records a pending absence request.
func (h *TimeOffHandler) Create(c *gin.Context) {
	var req dto.CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	record, err := h.timeOff.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Decide approves or denies a pending request.
func (h *TimeOffHandler) Decide(c *gin.Context) {
	var req dto.DecideTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	record, err := h.timeOff.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// List returns absence requests.
func (h *TimeOffHandler) List(c *gin.Context) {
	var query dto.TimeOffQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	list, total, err := h.timeOff.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, paginationFor(query.Page, query.PageSize, total))
}
