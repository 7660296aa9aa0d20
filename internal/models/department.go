package models

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID          uuid.UUID `json:"id"`
	Nom         string    `json:"nom"`
	Code        *string   `json:"code,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DepartmentWithCount adds the number of employees referencing the department.
type DepartmentWithCount struct {
	Department
	EmployeeCount int `json:"employee_count"`
}
