package department

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Budget      int64  `json:"budget" binding:"gte=0"`
	HeadID      string `json:"head_id" binding:"omitempty,uuid"`
	Location    string `json:"location" binding:"omitempty,max=255"`
}

// UpdateDepartmentRequest is partial; an empty head_id clears the head.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Budget      *int64  `json:"budget" binding:"omitempty,gte=0"`
	HeadID      *string `json:"head_id" binding:"omitempty,len=0|uuid"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
}

func (r UpdateDepartmentRequest) isEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Budget == nil &&
		r.HeadID == nil && r.Location == nil && r.IsActive == nil
}

type DepartmentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Budget        int64  `json:"budget"`
	HeadID        string `json:"head_id,omitempty"`
	Location      string `json:"location,omitempty"`
	IsActive      bool   `json:"is_active"`
	EmployeeCount int64  `json:"employee_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}
