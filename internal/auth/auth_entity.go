package auth

import (
	"time"

	"github.com/google/uuid"
)

// Credential is the login view of an employee row.
type Credential struct {
	ID           uuid.UUID `gorm:"column:id"`
	EmployeeCode string    `gorm:"column:employee_code"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	Status       string    `gorm:"column:status"`
	LastLoginAt  *time.Time
}

func (Credential) TableName() string {
	return "employees"
}

// canLogin is false for inactive and terminated accounts.
func (c Credential) canLogin() bool {
	return c.Status == "active" || c.Status == "on_leave"
}
