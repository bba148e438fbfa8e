package payroll

type Allowances struct {
	HRA       int64 `json:"hra" binding:"gte=0"`
	Transport int64 `json:"transport" binding:"gte=0"`
	Medical   int64 `json:"medical" binding:"gte=0"`
	Food      int64 `json:"food" binding:"gte=0"`
	Bonus     int64 `json:"bonus" binding:"gte=0"`
	Overtime  int64 `json:"overtime" binding:"gte=0"`
	Other     int64 `json:"other" binding:"gte=0"`
}

type Deductions struct {
	Tax           int64 `json:"tax" binding:"gte=0"`
	ProvidentFund int64 `json:"provident_fund" binding:"gte=0"`
	Insurance     int64 `json:"insurance" binding:"gte=0"`
	Loan          int64 `json:"loan" binding:"gte=0"`
	Advance       int64 `json:"advance" binding:"gte=0"`
	Other         int64 `json:"other" binding:"gte=0"`
}

type CreatePayrollRequest struct {
	EmployeeID    string     `json:"employee_id" binding:"required,uuid"`
	PeriodMonth   int        `json:"period_month" binding:"required,min=1,max=12"`
	PeriodYear    int        `json:"period_year" binding:"required,min=2020"`
	BasicSalary   *int64     `json:"basic_salary" binding:"omitempty,gte=0"`
	Allowances    Allowances `json:"allowances"`
	Deductions    Deductions `json:"deductions"`
	WorkingDays   int        `json:"working_days" binding:"gte=0,lte=31"`
	PresentDays   *int       `json:"present_days" binding:"omitempty,gte=0,lte=31"`
	OvertimeHours float64    `json:"overtime_hours" binding:"gte=0"`
	PaymentMethod string     `json:"payment_method" binding:"omitempty,oneof=bank_transfer cash cheque"`
	Notes         string     `json:"notes" binding:"max=1000"`
}

type UpdatePayrollRequest struct {
	BasicSalary   *int64      `json:"basic_salary" binding:"omitempty,gte=0"`
	Allowances    *Allowances `json:"allowances"`
	Deductions    *Deductions `json:"deductions"`
	WorkingDays   *int        `json:"working_days" binding:"omitempty,gte=0,lte=31"`
	PresentDays   *int        `json:"present_days" binding:"omitempty,gte=0,lte=31"`
	OvertimeHours *float64    `json:"overtime_hours" binding:"omitempty,gte=0"`
	PaymentStatus *string     `json:"payment_status" binding:"omitempty,oneof=pending processing failed"`
	PaymentMethod *string     `json:"payment_method" binding:"omitempty,oneof=bank_transfer cash cheque"`
	Notes         *string     `json:"notes" binding:"omitempty,max=1000"`
}

type ProcessPaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=bank_transfer cash cheque"`
	TransactionID string `json:"transaction_id" binding:"max=100"`
}

type ListFilter struct {
	EmployeeID string
	Month      int
	Year       int
	Status     string
}

type PayrollResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	PeriodMonth     int        `json:"period_month"`
	PeriodYear      int        `json:"period_year"`
	BasicSalary     int64      `json:"basic_salary"`
	Allowances      Allowances `json:"allowances"`
	Deductions      Deductions `json:"deductions"`
	WorkingDays     int        `json:"working_days"`
	PresentDays     int        `json:"present_days"`
	AbsentDays      int        `json:"absent_days"`
	OvertimeHours   float64    `json:"overtime_hours"`
	GrossSalary     int64      `json:"gross_salary"`
	TotalDeductions int64      `json:"total_deductions"`
	NetSalary       int64      `json:"net_salary"`
	PaymentStatus   string     `json:"payment_status"`
	PaymentMethod   string     `json:"payment_method"`
	PaymentDate     *string    `json:"payment_date,omitempty"`
	TransactionID   *string    `json:"transaction_id,omitempty"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *string    `json:"approved_at,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	PayslipURL      *string    `json:"payslip_url,omitempty"`
}
