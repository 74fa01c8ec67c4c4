package dto

// CreateEmployeeRequest captures POST /employees payload.
type CreateEmployeeRequest struct {
	Name               string   `json:"name" validate:"required,min=2,max=120"`
	Email              string   `json:"email" validate:"required,email"`
	Mode               string   `json:"eligibilityMode" validate:"required,oneof=DAY NIGHT BOTH"`
	TargetHours        float64  `json:"targetHours" validate:"required,gt=0,lte=80"`
	MaxHours           float64  `json:"maxHours" validate:"required,gtefield=TargetHours"`
	BlackoutDays       []string `json:"blackoutDays" validate:"omitempty,dive,oneof=SUNDAY MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY"`
	MinRestHours       int      `json:"minRestHours" validate:"omitempty,min=1,max=24"`
	MaxConsecutiveDays int      `json:"maxConsecutiveDays" validate:"omitempty,min=1,max=14"`
}

// UpdateEmployeeRequest carries partial updates; nil fields are left alone.
type UpdateEmployeeRequest struct {
	Name               *string   `json:"name" validate:"omitempty,min=2,max=120"`
	Email              *string   `json:"email" validate:"omitempty,email"`
	Mode               *string   `json:"eligibilityMode" validate:"omitempty,oneof=DAY NIGHT BOTH"`
	TargetHours        *float64  `json:"targetHours" validate:"omitempty,gt=0,lte=80"`
	MaxHours           *float64  `json:"maxHours" validate:"omitempty,gt=0"`
	BlackoutDays       *[]string `json:"blackoutDays" validate:"omitempty,dive,oneof=SUNDAY MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY"`
	MinRestHours       *int      `json:"minRestHours" validate:"omitempty,min=1,max=24"`
	MaxConsecutiveDays *int      `json:"maxConsecutiveDays" validate:"omitempty,min=1,max=14"`
	Active             *bool     `json:"active"`
}

// EmployeeQuery filters the roster listing.
type EmployeeQuery struct {
	Active   *bool  `form:"active" json:"active"`
	Mode     string `form:"eligibilityMode" json:"eligibilityMode" validate:"omitempty,oneof=DAY NIGHT BOTH"`
	Page     int    `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" json:"pageSize" validate:"omitempty,min=1,max=200"`
}
