package models

import "time"

// TradeStatus captures the approval lifecycle of a shift trade.
type TradeStatus string

const (
	TradePending  TradeStatus = "PENDING"
	TradeApproved TradeStatus = "APPROVED"
	TradeDenied   TradeStatus = "DENIED"
)

// ShiftTrade requests exchanging the employees on two published assignments.
type ShiftTrade struct {
	ID                    string      `db:"id" json:"id"`
	RequestingEmployeeID  string      `db:"requesting_employee_id" json:"requesting_employee_id"`
	TargetEmployeeID      string      `db:"target_employee_id" json:"target_employee_id"`
	RequestedAssignmentID string      `db:"requested_assignment_id" json:"requested_assignment_id"`
	TargetAssignmentID    string      `db:"target_assignment_id" json:"target_assignment_id"`
	Reason                string      `db:"reason" json:"reason,omitempty"`
	Status                TradeStatus `db:"status" json:"status"`
	ApprovedAt            *time.Time  `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt             time.Time   `db:"created_at" json:"created_at"`
}

// TradeFilter describes trade listing parameters.
type TradeFilter struct {
	EmployeeID string
	Status     TradeStatus
	Limit      int
	Offset     int
}
