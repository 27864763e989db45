package handler

import (
	"github.com/locvowork/employee_crud/internal/domain"
	"github.com/locvowork/employee_crud/internal/validation"
)

// EmployeeRequest is the body of create and update. An id in the body is ignored.
type EmployeeRequest struct {
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,max=255,email"`
}

func (r *EmployeeRequest) Validate() error {
	return validation.Struct(r)
}

// ToDomain converts the request into an employee without an ID.
func (r *EmployeeRequest) ToDomain() domain.Employee {
	return domain.Employee{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
