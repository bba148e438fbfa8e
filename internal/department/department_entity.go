package department

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"size:100;not null;uniqueIndex:uq_department_name"`
	Description string     `gorm:"type:text"`
	Budget      int64      `gorm:"not null;default:0;check:chk_department_budget,budget >= 0"`
	HeadID      *uuid.UUID `gorm:"type:uuid;index"`
	Location    string     `gorm:"size:255"`
	IsActive    bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`

	// EmployeeCount is filled by list and detail queries only.
	EmployeeCount int64 `gorm:"->;-:migration"`
}
