package dto

// CreateTradeRequest proposes swapping two published assignments.
type CreateTradeRequest struct {
	RequestingEmployeeID  string `json:"requestingEmployeeId" validate:"required,uuid4"`
	TargetEmployeeID      string `json:"targetEmployeeId" validate:"required,uuid4,nefield=RequestingEmployeeID"`
	RequestedAssignmentID string `json:"requestedAssignmentId" validate:"required,uuid4"`
	TargetAssignmentID    string `json:"targetAssignmentId" validate:"required,uuid4,nefield=RequestedAssignmentID"`
	Reason                string `json:"reason" validate:"omitempty,max=500"`
}

// DecideTradeRequest approves or denies a pending trade.
type DecideTradeRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED DENIED"`
}

// TradeQuery filters trade listings.
type TradeQuery struct {
	EmployeeID string `form:"employeeId" json:"employeeId" validate:"omitempty,uuid4"`
	Status     string `form:"status" json:"status" validate:"omitempty,oneof=PENDING APPROVED DENIED"`
	Page       int    `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" json:"pageSize" validate:"omitempty,min=1,max=200"`
}
