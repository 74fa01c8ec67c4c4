package dto

// CreateTimeOffRequest captures POST /time-off payload.
type CreateTimeOffRequest struct {
	EmployeeID string `json:"employeeId" validate:"required,uuid4"`
	StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Scope      string `json:"scope" validate:"required,oneof=DAY NIGHT BOTH"`
	Reason     string `json:"reason" validate:"omitempty,max=500"`
}

// DecideTimeOffRequest approves or denies a pending request.
type DecideTimeOffRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED DENIED"`
}

// TimeOffQuery filters absence listings.
type TimeOffQuery struct {
	EmployeeID string `form:"employeeId" json:"employeeId" validate:"omitempty,uuid4"`
	Status     string `form:"status" json:"status" validate:"omitempty,oneof=PENDING APPROVED DENIED"`
	Page       int    `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" json:"pageSize" validate:"omitempty,min=1,max=200"`
}
