package dto

import "github.com/calloway-health/pbx-rota-api/internal/models"

// ExportRequest captures POST /exports payload.
type ExportRequest struct {
	StartDate string              `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string              `json:"endDate" validate:"required,datetime=2006-01-02"`
	Format    models.ExportFormat `json:"format" validate:"required,oneof=csv pdf xlsx"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID          string              `json:"id"`
	Status      models.ExportStatus `json:"status"`
	Progress    int                 `json:"progress"`
	Format      models.ExportFormat `json:"format"`
	DownloadURL *string             `json:"downloadUrl,omitempty"`
	Error       *string             `json:"error,omitempty"`
}
