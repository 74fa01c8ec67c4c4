package dto

import "github.com/calloway-health/pbx-rota-api/internal/models"

// GenerateRotaRequest captures POST /rota/generate payload. Dates are
// ISO 8601 calendar dates (YYYY-MM-DD).
type GenerateRotaRequest struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	Weeks     int    `json:"weeks" validate:"required,min=1,max=8"`
}

// AssignmentQuery filters published assignments by range and employee.
type AssignmentQuery struct {
	StartDate  string `form:"startDate" json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"endDate" json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	EmployeeID string `form:"employeeId" json:"employeeId" validate:"omitempty,uuid4"`
}

// GenerateRotaResponse returns the published rota with its gap and coverage
// reports.
type GenerateRotaResponse struct {
	StartDate   string                     `json:"startDate"`
	Weeks       int                        `json:"weeks"`
	Assignments []models.Assignment        `json:"assignments"`
	Unfilled    []models.UnfilledSlot      `json:"unfilledSlots"`
	Violations  []models.CoverageViolation `json:"coverageViolations"`
}

// CoverageReportQuery selects the audited window.
type CoverageReportQuery struct {
	StartDate string `form:"startDate" json:"startDate" validate:"required,datetime=2006-01-02"`
	Days      int    `form:"days" json:"days" validate:"omitempty,min=1,max=56"`
}

// CoverageReportResponse lists the under-staffed sample windows.
type CoverageReportResponse struct {
	StartDate  string                     `json:"startDate"`
	Days       int                        `json:"days"`
	Violations []models.CoverageViolation `json:"violations"`
}
