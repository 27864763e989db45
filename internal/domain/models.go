package domain

import "fmt"

// Employee represents the employees table
type Employee struct {
	ID        int64  `json:"id,omitempty" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Email     string `json:"email" db:"email"`
}

// ApplyChanges overwrites the mutable fields of e with the ones from src.
// The ID is left untouched.
func (e *Employee) ApplyChanges(src Employee) {
	e.FirstName = src.FirstName
	e.LastName = src.LastName
	e.Email = src.Email
}

// ==================== ERRORS ====================

// ErrEmployeeNotFound is returned by Update when no row matches the employee ID.
var ErrEmployeeNotFound = fmt.Errorf("employee not found")

// ConflictError reports a create that would break email uniqueness.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("employee already exists with given email %s", e.Email)
}
