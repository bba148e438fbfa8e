package leave

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypePersonal  = "personal"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
	TypeEmergency = "emergency"
	TypeUnpaid    = "unpaid"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// balanceColumns maps the balance-tracked leave types to their column on the
// employees table. Types missing here never touch a balance.
var balanceColumns = map[string]string{
	TypeAnnual:   "leave_balance_annual",
	TypeSick:     "leave_balance_sick",
	TypePersonal: "leave_balance_personal",
}

func IsBalanceTracked(leaveType string) bool {
	_, ok := balanceColumns[leaveType]
	return ok
}

type LeaveRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	LeaveType       string     `gorm:"type:varchar(20);not null"`
	StartDate       time.Time  `gorm:"type:date;not null"`
	EndDate         time.Time  `gorm:"type:date;not null"`
	TotalDays       float64    `gorm:"type:numeric(5,1);not null;check:chk_leave_total_days,total_days >= 0.5"`
	Reason          string     `gorm:"type:text;not null"`
	Status          string     `gorm:"type:varchar(20);not null;default:pending;index"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`
	IsEmergency     bool    `gorm:"not null;default:false"`
	HandoverNotes   string  `gorm:"type:text"`
	AppliedAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) float64 {
	return math.Floor(end.Sub(start).Hours()/24) + 1
}
