package performance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft                 = "draft"
	StatusPendingEmployeeReview = "pending_employee_review"
	StatusPendingManagerReview  = "pending_manager_review"
	StatusCompleted             = "completed"
	StatusApproved              = "approved"
)

const (
	GoalNotStarted  = "not_started"
	GoalInProgress  = "in_progress"
	GoalCompleted   = "completed"
	GoalExceeded    = "exceeded"
	GoalNotAchieved = "not_achieved"
)

const (
	LevelOutstanding         = "outstanding"
	LevelExceedsExpectations = "exceeds_expectations"
	LevelMeetsExpectations   = "meets_expectations"
	LevelBelowExpectations   = "below_expectations"
	LevelUnsatisfactory      = "unsatisfactory"
)

type Goal struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Weight      int     `json:"weight"`
	Status      string  `json:"status"`
	Score       float64 `json:"score"`
}

// Competencies holds the eight scored dimensions. A nil score has not been
// rated yet and is left out of the average.
type Competencies struct {
	TechnicalSkills *int `gorm:"check:chk_review_technical_skills,technical_skills BETWEEN 1 AND 5"`
	Communication   *int `gorm:"check:chk_review_communication,communication BETWEEN 1 AND 5"`
	Teamwork        *int `gorm:"check:chk_review_teamwork,teamwork BETWEEN 1 AND 5"`
	Leadership      *int `gorm:"check:chk_review_leadership,leadership BETWEEN 1 AND 5"`
	ProblemSolving  *int `gorm:"check:chk_review_problem_solving,problem_solving BETWEEN 1 AND 5"`
	Initiative      *int `gorm:"check:chk_review_initiative,initiative BETWEEN 1 AND 5"`
	Punctuality     *int `gorm:"check:chk_review_punctuality,punctuality BETWEEN 1 AND 5"`
	QualityOfWork   *int `gorm:"check:chk_review_quality_of_work,quality_of_work BETWEEN 1 AND 5"`
}

func (c Competencies) scores() []*int {
	return []*int{
		c.TechnicalSkills, c.Communication, c.Teamwork, c.Leadership,
		c.ProblemSolving, c.Initiative, c.Punctuality, c.QualityOfWork,
	}
}

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_review_employee_period,priority:1"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quarter    string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_review_employee_period,priority:2"`
	Year       int       `gorm:"not null;uniqueIndex:uq_review_employee_period,priority:3;check:chk_review_year,year >= 2020"`

	PeriodStart time.Time `gorm:"type:date;not null"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`

	Goals        []Goal       `gorm:"type:jsonb;serializer:json;not null"`
	Competencies Competencies `gorm:"embedded"`

	OverallRating    *float64 `gorm:"type:numeric(3,2)"`
	PerformanceLevel string   `gorm:"type:varchar(30)"`

	Achievements        string `gorm:"type:text"`
	AreasForImprovement string `gorm:"type:text"`
	ReviewerComments    string `gorm:"type:text"`
	EmployeeComments    string `gorm:"type:text"`

	Status string `gorm:"type:varchar(30);not null;default:draft;index;check:chk_review_hr_approved,status <> 'approved' OR hr_approved"`

	EmployeeAcknowledged   bool `gorm:"not null;default:false"`
	EmployeeAcknowledgedAt *time.Time
	ManagerApproved        bool `gorm:"not null;default:false"`
	ManagerApprovedAt      *time.Time
	HRApproved             bool       `gorm:"column:hr_approved;not null;default:false"`
	HRApprovedAt           *time.Time `gorm:"column:hr_approved_at"`
	HRApprovedBy           *uuid.UUID `gorm:"column:hr_approved_by;type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Review) TableName() string {
	return "performance_reviews"
}
