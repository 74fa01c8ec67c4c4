package models

import "time"

// AbsenceScope limits which shift periods an absence blocks.
type AbsenceScope string

const (
	ScopeDay   AbsenceScope = "DAY"
	ScopeNight AbsenceScope = "NIGHT"
	ScopeBoth  AbsenceScope = "BOTH"
)

// TimeOffStatus captures the approval lifecycle of a request.
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "PENDING"
	TimeOffApproved TimeOffStatus = "APPROVED"
	TimeOffDenied   TimeOffStatus = "DENIED"
)

// TimeOffRequest is an absence record over an inclusive date range.
type TimeOffRequest struct {
	ID           string        `db:"id" json:"id"`
	EmployeeID   string        `db:"employee_id" json:"employee_id"`
	EmployeeName string        `db:"employee_name" json:"employee_name,omitempty"`
	StartDate    time.Time     `db:"start_date" json:"start_date"`
	EndDate      time.Time     `db:"end_date" json:"end_date"`
	Scope        AbsenceScope  `db:"scope" json:"scope"`
	Status       TimeOffStatus `db:"status" json:"status"`
	Reason       string        `db:"reason" json:"reason,omitempty"`
	ApprovedAt   *time.Time    `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

// Blocks reports whether the absence excludes the given period.
func (r TimeOffRequest) Blocks(period ShiftPeriod) bool {
	switch r.Scope {
	case ScopeBoth:
		return true
	case ScopeDay:
		return period == PeriodDay
	case ScopeNight:
		return period == PeriodNight
	default:
		return false
	}
}

// TimeOffFilter describes absence listing parameters.
type TimeOffFilter struct {
	EmployeeID string
	Status     TimeOffStatus
	Limit      int
	Offset     int
}
