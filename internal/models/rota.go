package models

import "time"

// ShiftPeriod distinguishes day and night portions of the coverage window.
type ShiftPeriod string

const (
	PeriodDay   ShiftPeriod = "DAY"
	PeriodNight ShiftPeriod = "NIGHT"
)

// Assignment is one filled slot on one calendar date.
type Assignment struct {
	ID                 string      `db:"id" json:"id"`
	EmployeeID         string      `db:"employee_id" json:"employee_id"`
	EmployeeName       string      `db:"employee_name" json:"employee_name,omitempty"`
	Date               time.Time   `db:"shift_date" json:"date"`
	Period             ShiftPeriod `db:"period" json:"period"`
	Role               string      `db:"role" json:"role"`
	StartTime          string      `db:"start_time" json:"start_time"`
	EndTime            string      `db:"end_time" json:"end_time"`
	Hours              float64     `db:"hours" json:"hours"`
	IsOvertime         bool        `db:"is_overtime" json:"is_overtime"`
	IsCoverageFallback bool        `db:"is_coverage_fallback" json:"is_coverage_fallback"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
}

// AssignmentFilter describes query params for listing assignments.
type AssignmentFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	EmployeeID string
}

// UnfilledSlot marks a slot left open because no eligible candidate existed.
type UnfilledSlot struct {
	Date   time.Time   `json:"date"`
	Period ShiftPeriod `json:"period"`
	Role   string      `json:"role"`
	Reason string      `json:"reason"`
}

// CoverageViolation is one sampled instant where headcount fell short.
type CoverageViolation struct {
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
	Required int       `json:"required"`
	Actual   int       `json:"actual"`
}
