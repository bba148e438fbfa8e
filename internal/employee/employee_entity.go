package employee

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"
	StatusOnLeave    = "on_leave"
)

// Default yearly leave balances for new hires.
const (
	DefaultAnnualLeave   = 21
	DefaultSickLeave     = 10
	DefaultPersonalLeave = 5
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeCode string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_code"`
	FirstName    string     `gorm:"type:varchar(100);not null"`
	LastName     string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	Phone        string     `gorm:"type:varchar(30)"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Role         string     `gorm:"type:varchar(20);not null;default:employee;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	Designation  string     `gorm:"type:varchar(100)"`
	Status       string     `gorm:"type:varchar(20);not null;default:active;index"`
	ManagerID    *uuid.UUID `gorm:"type:uuid;index"`

	// cents
	BasicSalary int64 `gorm:"not null;default:0"`
	Allowances  int64 `gorm:"not null;default:0"`
	Deductions  int64 `gorm:"not null;default:0"`

	LeaveBalanceAnnual   float64 `gorm:"not null;default:21"`
	LeaveBalanceSick     float64 `gorm:"not null;default:10"`
	LeaveBalancePersonal float64 `gorm:"not null;default:5"`

	Address          json.RawMessage `gorm:"type:jsonb"`
	EmergencyContact json.RawMessage `gorm:"type:jsonb"`
	ProfileImage     string          `gorm:"type:varchar(500)"`

	JoiningDate time.Time `gorm:"type:date;not null"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// DashboardStats is read straight from the attendance, leave and payroll
// tables for a single employee.
type DashboardStats struct {
	AttendanceDays  int64
	LateDays        int64
	HoursWorked     float64
	PendingLeaves   int64
	LatestPayroll   *PayrollSnapshot
	LeaveTakenYTD   float64
}

type PayrollSnapshot struct {
	PeriodMonth   int
	PeriodYear    int
	NetSalary     int64
	PaymentStatus string
}
