package leave

type ApplyLeaveRequest struct {
	LeaveType     string   `json:"leave_type" binding:"required,oneof=annual sick personal maternity paternity emergency unpaid"`
	StartDate     string   `json:"start_date" binding:"required"`
	EndDate       string   `json:"end_date" binding:"required"`
	TotalDays     *float64 `json:"total_days" binding:"omitempty,gte=0.5"`
	Reason        string   `json:"reason" binding:"required,max=1000"`
	IsEmergency   bool     `json:"is_emergency"`
	HandoverNotes string   `json:"handover_notes" binding:"max=1000"`
}

// UpdateLeaveRequest replaces the editable part of a pending request.
type UpdateLeaveRequest = ApplyLeaveRequest

type ProcessLeaveRequest struct {
	Decision        string  `json:"decision" binding:"required,oneof=approve reject"`
	RejectionReason *string `json:"rejection_reason" binding:"omitempty,max=1000"`
}

type ListFilter struct {
	EmployeeID string
	Status     string
	LeaveType  string
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       float64 `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	IsEmergency     bool    `json:"is_emergency"`
	HandoverNotes   string  `json:"handover_notes,omitempty"`
	AppliedAt       string  `json:"applied_at"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}
