package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPaid       = "paid"
	StatusFailed     = "failed"
)

const (
	MethodBankTransfer = "bank_transfer"
	MethodCash         = "cash"
	MethodCheque       = "cheque"
)

// Record holds one employee's payroll for a calendar month. Money columns are
// minor units (cents) to keep arithmetic exact.
type Record struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period,priority:1"`
	PeriodMonth int       `gorm:"not null;uniqueIndex:uq_payroll_employee_period,priority:2;check:chk_payroll_month,period_month BETWEEN 1 AND 12"`
	PeriodYear  int       `gorm:"not null;uniqueIndex:uq_payroll_employee_period,priority:3;check:chk_payroll_year,period_year >= 2020"`

	BasicSalary int64 `gorm:"type:bigint;not null;default:0"`

	// Allowances
	HRA            int64 `gorm:"column:allowance_hra;type:bigint;not null;default:0"`
	Transport      int64 `gorm:"column:allowance_transport;type:bigint;not null;default:0"`
	Medical        int64 `gorm:"column:allowance_medical;type:bigint;not null;default:0"`
	Food           int64 `gorm:"column:allowance_food;type:bigint;not null;default:0"`
	Bonus          int64 `gorm:"column:allowance_bonus;type:bigint;not null;default:0"`
	Overtime       int64 `gorm:"column:allowance_overtime;type:bigint;not null;default:0"`
	OtherAllowance int64 `gorm:"column:allowance_other;type:bigint;not null;default:0"`

	// Deductions
	Tax            int64 `gorm:"column:deduction_tax;type:bigint;not null;default:0"`
	ProvidentFund  int64 `gorm:"column:deduction_provident_fund;type:bigint;not null;default:0"`
	Insurance      int64 `gorm:"column:deduction_insurance;type:bigint;not null;default:0"`
	Loan           int64 `gorm:"column:deduction_loan;type:bigint;not null;default:0"`
	Advance        int64 `gorm:"column:deduction_advance;type:bigint;not null;default:0"`
	OtherDeduction int64 `gorm:"column:deduction_other;type:bigint;not null;default:0"`

	WorkingDays   int     `gorm:"not null;default:0"`
	PresentDays   int     `gorm:"not null;default:0"`
	AbsentDays    int     `gorm:"not null;default:0"`
	OvertimeHours float64 `gorm:"type:numeric(6,2);not null;default:0"`

	GrossSalary     int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions int64 `gorm:"type:bigint;not null;default:0"`
	NetSalary       int64 `gorm:"type:bigint;not null;default:0"`

	PaymentStatus      string     `gorm:"type:varchar(20);not null;default:pending;index"`
	PaymentDate        *time.Time `gorm:"index"`
	PaymentMethod      string     `gorm:"type:varchar(20);not null;default:bank_transfer"`
	TransactionID      *string    `gorm:"type:varchar(100)"`
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt         *time.Time
	Notes              string `gorm:"type:text"`
	PayslipURL         *string
	PayslipGeneratedAt *time.Time

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Record) TableName() string {
	return "payroll_records"
}

func (r *Record) allowances() int64 {
	return r.HRA + r.Transport + r.Medical + r.Food + r.Bonus + r.Overtime + r.OtherAllowance
}

func (r *Record) deductions() int64 {
	return r.Tax + r.ProvidentFund + r.Insurance + r.Loan + r.Advance + r.OtherDeduction
}

// recompute derives absent days and the salary totals from the stored
// components. Derived fields are never taken from input.
func (r *Record) recompute() {
	r.AbsentDays = max(0, r.WorkingDays-r.PresentDays)
	r.GrossSalary = r.BasicSalary + r.allowances()
	r.TotalDeductions = r.deductions()
	r.NetSalary = r.GrossSalary - r.TotalDeductions
}

// PayslipSubject joins a record with the employee fields printed on the
// payslip.
type PayslipSubject struct {
	Record
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Designation  string
}
