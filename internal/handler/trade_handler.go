package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/service"
	appErrors "github.com/calloway-health/pbx-rota-api/pkg/errors"
	"github.com/calloway-health/pbx-rota-api/pkg/response"
)

// TradeHandler exposes shift trade endpoints.
type TradeHandler struct {
	trades *service.TradeService
}

// NewTradeHandler constructs the handler.
func NewTradeHandler(trades *service.TradeService) *TradeHandler {
	return &TradeHandler{trades: trades}
}

// Propose records a pending trade between two assignments.
func (h *TradeHandler) Propose(c *gin.Context) {
	var req dto.CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	trade, err := h.trades.Propose(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trade)
}

// Decide approves or denies a pending trade. Approval swaps the two assignments.
func (h *TradeHandler) Decide(c *gin.Context) {
	var req dto.DecideTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	trade, err := h.trades.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trade, nil)
}

// List returns trades, optionally filtered by employee or status.
func (h *TradeHandler) List(c *gin.Context) {
	var query dto.TradeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	list, total, err := h.trades.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, paginationFor(query.Page, query.PageSize, total))
}
