package domain

import "context"

// EmployeeRepository defines the interface for employee data access.
// Lookups report absence as a nil employee with a nil error.
type EmployeeRepository interface {
	Insert(ctx context.Context, e *Employee) (*Employee, error)
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	Update(ctx context.Context, e *Employee) (*Employee, error)
	DeleteByID(ctx context.Context, id int64) error

	// Name lookups, one per binding style. All four return the same rows.
	FindByNameQuery(ctx context.Context, firstName, lastName string) ([]Employee, error)
	FindByNameQueryNamed(ctx context.Context, firstName, lastName string) ([]Employee, error)
	FindByNameNative(ctx context.Context, firstName, lastName string) ([]Employee, error)
	FindByNameNativeNamed(ctx context.Context, firstName, lastName string) ([]Employee, error)

	// RunInTx runs fn with a repository bound to a single transaction.
	RunInTx(ctx context.Context, fn func(repo EmployeeRepository) error) error
}
