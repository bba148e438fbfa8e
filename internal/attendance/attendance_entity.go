package attendance

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent      = "present"
	StatusAbsent       = "absent"
	StatusLate         = "late"
	StatusHalfDay      = "half_day"
	StatusWorkFromHome = "work_from_home"
)

type Record struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID     uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date,priority:1"`
	AttendanceDate time.Time  `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date,priority:2;index"`
	ClockIn        time.Time  `gorm:"column:clock_in;type:timestamptz;not null"`
	ClockOut       *time.Time `gorm:"column:clock_out;type:timestamptz"`
	BreakMinutes   int        `gorm:"column:break_minutes;not null;default:0"`
	TotalHours     float64    `gorm:"column:total_hours;type:numeric(5,2);not null;default:0"`
	Status         string     `gorm:"column:status;type:varchar(20);not null;default:present"`
	Notes          string     `gorm:"column:notes;type:text"`
	Latitude       *float64   `gorm:"column:latitude"`
	Longitude      *float64   `gorm:"column:longitude"`
	IsManualEntry  bool       `gorm:"column:is_manual_entry;not null;default:false"`
	ApprovedBy     *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ApprovedAt     *time.Time `gorm:"column:approved_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}

// WorkedHours is max(0, minutes between the stamps minus the break) in
// hours, rounded to two decimals.
func WorkedHours(clockIn, clockOut time.Time, breakMinutes int) float64 {
	minutes := clockOut.Sub(clockIn).Minutes() - float64(breakMinutes)
	if minutes <= 0 {
		return 0
	}
	return math.Round(minutes/60*100) / 100
}

// recompute refreshes TotalHours; it stays zero until clock-out is known.
func (r *Record) recompute() {
	if r.ClockOut == nil {
		r.TotalHours = 0
		return
	}
	r.TotalHours = WorkedHours(r.ClockIn, *r.ClockOut, r.BreakMinutes)
}

// StatusCount is one row of the monthly aggregate.
type StatusCount struct {
	Status string
	Days   int64
	Hours  float64
}
