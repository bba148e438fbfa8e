package employee

import (
	"encoding/json"
	"strings"
)

type CreateEmployeeRequest struct {
	EmployeeCode     string          `json:"employee_code" binding:"omitempty,max=20"`
	FirstName        string          `json:"first_name" binding:"required,max=100"`
	LastName         string          `json:"last_name" binding:"required,max=100"`
	Email            string          `json:"email" binding:"required,email"`
	Phone            string          `json:"phone" binding:"omitempty,max=30"`
	Password         string          `json:"password" binding:"omitempty,min=8"`
	Role             string          `json:"role" binding:"omitempty,oneof=super_admin admin hr manager employee"`
	DepartmentID     string          `json:"department_id" binding:"omitempty,uuid"`
	Designation      string          `json:"designation" binding:"omitempty,max=100"`
	ManagerID        string          `json:"manager_id" binding:"omitempty,uuid"`
	BasicSalary      int64           `json:"basic_salary" binding:"gte=0"`
	Allowances       int64           `json:"allowances" binding:"gte=0"`
	Deductions       int64           `json:"deductions" binding:"gte=0"`
	Address          json.RawMessage `json:"address"`
	EmergencyContact json.RawMessage `json:"emergency_contact"`
	JoiningDate      string          `json:"joining_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateEmployeeRequest is a partial update; nil fields are left untouched.
// An empty department_id or manager_id clears the reference.
type UpdateEmployeeRequest struct {
	FirstName            *string         `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName             *string         `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email                *string         `json:"email" binding:"omitempty,email"`
	Phone                *string         `json:"phone" binding:"omitempty,max=30"`
	Role                 *string         `json:"role" binding:"omitempty,oneof=super_admin admin hr manager employee"`
	DepartmentID         *string         `json:"department_id" binding:"omitempty,len=0|uuid"`
	Designation          *string         `json:"designation" binding:"omitempty,max=100"`
	ManagerID            *string         `json:"manager_id" binding:"omitempty,len=0|uuid"`
	Status               *string         `json:"status" binding:"omitempty,oneof=active inactive on_leave"`
	BasicSalary          *int64          `json:"basic_salary" binding:"omitempty,gte=0"`
	Allowances           *int64          `json:"allowances" binding:"omitempty,gte=0"`
	Deductions           *int64          `json:"deductions" binding:"omitempty,gte=0"`
	LeaveBalanceAnnual   *float64        `json:"leave_balance_annual" binding:"omitempty,gte=0"`
	LeaveBalanceSick     *float64        `json:"leave_balance_sick" binding:"omitempty,gte=0"`
	LeaveBalancePersonal *float64        `json:"leave_balance_personal" binding:"omitempty,gte=0"`
	Address              json.RawMessage `json:"address"`
	EmergencyContact     json.RawMessage `json:"emergency_contact"`
	ProfileImage         *string         `json:"profile_image" binding:"omitempty,max=500"`
}

// ChangedFields lists the json names of every field present in the request.
func (r UpdateEmployeeRequest) ChangedFields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(r.FirstName != nil, "first_name")
	add(r.LastName != nil, "last_name")
	add(r.Email != nil, "email")
	add(r.Phone != nil, "phone")
	add(r.Role != nil, "role")
	add(r.DepartmentID != nil, "department_id")
	add(r.Designation != nil, "designation")
	add(r.ManagerID != nil, "manager_id")
	add(r.Status != nil, "status")
	add(r.BasicSalary != nil, "basic_salary")
	add(r.Allowances != nil, "allowances")
	add(r.Deductions != nil, "deductions")
	add(r.LeaveBalanceAnnual != nil, "leave_balance_annual")
	add(r.LeaveBalanceSick != nil, "leave_balance_sick")
	add(r.LeaveBalancePersonal != nil, "leave_balance_personal")
	add(len(r.Address) > 0, "address")
	add(len(r.EmergencyContact) > 0, "emergency_contact")
	add(r.ProfileImage != nil, "profile_image")
	return fields
}

type ListFilter struct {
	DepartmentID      string
	Role              string
	Status            string
	Query             string
	IncludeTerminated bool
}

func (f ListFilter) normalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(f.Query))
}

type LeaveBalanceResponse struct {
	Annual   float64 `json:"annual"`
	Sick     float64 `json:"sick"`
	Personal float64 `json:"personal"`
}

type EmployeeResponse struct {
	ID               string               `json:"id"`
	EmployeeCode     string               `json:"employee_code"`
	FirstName        string               `json:"first_name"`
	LastName         string               `json:"last_name"`
	FullName         string               `json:"full_name"`
	Email            string               `json:"email"`
	Phone            string               `json:"phone,omitempty"`
	Role             string               `json:"role"`
	DepartmentID     string               `json:"department_id,omitempty"`
	Designation      string               `json:"designation,omitempty"`
	Status           string               `json:"status"`
	ManagerID        string               `json:"manager_id,omitempty"`
	BasicSalary      int64                `json:"basic_salary"`
	Allowances       int64                `json:"allowances"`
	Deductions       int64                `json:"deductions"`
	LeaveBalance     LeaveBalanceResponse `json:"leave_balance"`
	Address          json.RawMessage      `json:"address,omitempty"`
	EmergencyContact json.RawMessage      `json:"emergency_contact,omitempty"`
	ProfileImage     string               `json:"profile_image,omitempty"`
	JoiningDate      string               `json:"joining_date"`
	LastLoginAt      string               `json:"last_login_at,omitempty"`
	CreatedAt        string               `json:"created_at"`
}

type DashboardResponse struct {
	Employee      EmployeeResponse     `json:"employee"`
	Month         int                  `json:"month"`
	Year          int                  `json:"year"`
	Attendance    DashboardAttendance  `json:"attendance"`
	PendingLeaves int64                `json:"pending_leaves"`
	LeaveTaken    float64              `json:"leave_taken_this_year"`
	LatestPayroll *DashboardPayroll    `json:"latest_payroll,omitempty"`
	LeaveBalance  LeaveBalanceResponse `json:"leave_balance"`
}

type DashboardAttendance struct {
	Days        int64   `json:"days"`
	Late        int64   `json:"late"`
	HoursWorked float64 `json:"hours_worked"`
}

type DashboardPayroll struct {
	Month         int    `json:"month"`
	Year          int    `json:"year"`
	NetSalary     int64  `json:"net_salary"`
	PaymentStatus string `json:"payment_status"`
}
