package performance

type GoalInput struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"max=1000"`
	Weight      int     `json:"weight" binding:"gte=0,lte=100"`
	Status      string  `json:"status" binding:"omitempty,oneof=not_started in_progress completed exceeded not_achieved"`
	Score       float64 `json:"score" binding:"gte=0,lte=5"`
}

type CompetencyInput struct {
	TechnicalSkills *int `json:"technical_skills" binding:"omitempty,min=1,max=5"`
	Communication   *int `json:"communication" binding:"omitempty,min=1,max=5"`
	Teamwork        *int `json:"teamwork" binding:"omitempty,min=1,max=5"`
	Leadership      *int `json:"leadership" binding:"omitempty,min=1,max=5"`
	ProblemSolving  *int `json:"problem_solving" binding:"omitempty,min=1,max=5"`
	Initiative      *int `json:"initiative" binding:"omitempty,min=1,max=5"`
	Punctuality     *int `json:"punctuality" binding:"omitempty,min=1,max=5"`
	QualityOfWork   *int `json:"quality_of_work" binding:"omitempty,min=1,max=5"`
}

type CreateReviewRequest struct {
	EmployeeID          string          `json:"employee_id" binding:"required,uuid"`
	Quarter             string          `json:"quarter" binding:"required,oneof=Q1 Q2 Q3 Q4 Annual Mid-Year"`
	Year                int             `json:"year" binding:"required,min=2020"`
	PeriodStart         string          `json:"period_start" binding:"required"`
	PeriodEnd           string          `json:"period_end" binding:"required"`
	Goals               []GoalInput     `json:"goals" binding:"omitempty,dive"`
	Competencies        CompetencyInput `json:"competencies"`
	Achievements        string          `json:"achievements" binding:"max=2000"`
	AreasForImprovement string          `json:"areas_for_improvement" binding:"max=2000"`
	ReviewerComments    string          `json:"reviewer_comments" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	Goals               *[]GoalInput     `json:"goals" binding:"omitempty,dive"`
	Competencies        *CompetencyInput `json:"competencies"`
	Achievements        *string          `json:"achievements" binding:"omitempty,max=2000"`
	AreasForImprovement *string          `json:"areas_for_improvement" binding:"omitempty,max=2000"`
	ReviewerComments    *string          `json:"reviewer_comments" binding:"omitempty,max=2000"`
}

type AcknowledgeRequest struct {
	EmployeeComments string `json:"employee_comments" binding:"max=2000"`
}

type ListFilter struct {
	EmployeeID string
	Quarter    string
	Year       int
	Status     string
}

type GoalResponse struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Weight      int     `json:"weight"`
	Status      string  `json:"status"`
	Score       float64 `json:"score"`
}

type ReviewResponse struct {
	ID                     string          `json:"id"`
	EmployeeID             string          `json:"employee_id"`
	ReviewerID             string          `json:"reviewer_id"`
	Quarter                string          `json:"quarter"`
	Year                   int             `json:"year"`
	PeriodStart            string          `json:"period_start"`
	PeriodEnd              string          `json:"period_end"`
	Goals                  []GoalResponse  `json:"goals"`
	Competencies           CompetencyInput `json:"competencies"`
	OverallRating          *float64        `json:"overall_rating"`
	PerformanceLevel       string          `json:"performance_level,omitempty"`
	Achievements           string          `json:"achievements,omitempty"`
	AreasForImprovement    string          `json:"areas_for_improvement,omitempty"`
	ReviewerComments       string          `json:"reviewer_comments,omitempty"`
	EmployeeComments       string          `json:"employee_comments,omitempty"`
	Status                 string          `json:"status"`
	EmployeeAcknowledged   bool            `json:"employee_acknowledged"`
	EmployeeAcknowledgedAt *string         `json:"employee_acknowledged_at,omitempty"`
	ManagerApproved        bool            `json:"manager_approved"`
	ManagerApprovedAt      *string         `json:"manager_approved_at,omitempty"`
	HRApproved             bool            `json:"hr_approved"`
	HRApprovedAt           *string         `json:"hr_approved_at,omitempty"`
	HRApprovedBy           *string         `json:"hr_approved_by,omitempty"`
}
