package attendance

import "time"

type ClockInRequest struct {
	Timestamp *time.Time `json:"timestamp"`
	Latitude  *float64   `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64   `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Notes     string     `json:"notes" binding:"omitempty,max=500"`
	Status    string     `json:"status" binding:"omitempty,oneof=present work_from_home half_day"`
}

type ClockOutRequest struct {
	Timestamp    *time.Time `json:"timestamp"`
	BreakMinutes *int       `json:"break_minutes" binding:"omitempty,gte=0,lte=720"`
	Notes        *string    `json:"notes" binding:"omitempty,max=500"`
}

// ManualEntryRequest back-fills or corrects a day on behalf of an employee.
type ManualEntryRequest struct {
	EmployeeID   string     `json:"employee_id" binding:"required,uuid"`
	Date         string     `json:"date" binding:"required,datetime=2006-01-02"`
	ClockIn      time.Time  `json:"clock_in" binding:"required"`
	ClockOut     *time.Time `json:"clock_out"`
	BreakMinutes int        `json:"break_minutes" binding:"gte=0,lte=720"`
	Status       string     `json:"status" binding:"omitempty,oneof=present absent late half_day work_from_home"`
	Notes        string     `json:"notes" binding:"omitempty,max=500"`
}

type ListFilter struct {
	EmployeeID string
	From       string
	To         string
	Status     string
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	AttendanceDate string   `json:"attendance_date"`
	ClockIn        string   `json:"clock_in"`
	ClockOut       *string  `json:"clock_out,omitempty"`
	BreakMinutes   int      `json:"break_minutes"`
	TotalHours     float64  `json:"total_hours"`
	Status         string   `json:"status"`
	Notes          string   `json:"notes,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	IsManualEntry  bool     `json:"is_manual_entry"`
	ApprovedBy     string   `json:"approved_by,omitempty"`
}

type SummaryResponse struct {
	EmployeeID   string  `json:"employee_id"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	Days         int64   `json:"days"`
	Present      int64   `json:"present"`
	Late         int64   `json:"late"`
	HalfDay      int64   `json:"half_day"`
	WorkFromHome int64   `json:"work_from_home"`
	Absent       int64   `json:"absent"`
	TotalHours   float64 `json:"total_hours"`
}
