package handler

import "github.com/calloway-health/pbx-rota-api/internal/models"

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
