package events

import "time"

// PayrollPaidTopic drives payslip generation once a record is paid.
const PayrollPaidTopic = "hr.payroll.paid.v1"

const EventPayrollPaid = "payroll_paid"

type PayrollPaidEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	PayrollID  string    `json:"payroll_id"`
	EmployeeID string    `json:"employee_id"`
	PaidBy     string    `json:"paid_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
