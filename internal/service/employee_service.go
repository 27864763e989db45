package service

import (
	"context"
	"errors"

	"github.com/locvowork/employee_crud/internal/database"
	"github.com/locvowork/employee_crud/internal/domain"
	"github.com/locvowork/employee_crud/internal/logger"
	"github.com/locvowork/employee_crud/internal/metrics"
)

// EmployeeService exposes the employee lifecycle. Absent employees are
// reported as a nil result, never as an error.
type EmployeeService interface {
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	ListAll(ctx context.Context) ([]domain.Employee, error)
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	DeleteByID(ctx context.Context, id int64) error
}

type employeeService struct {
	repo domain.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService instance
func NewEmployeeService(repo domain.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

// Create inserts e unless another employee already uses its email.
//
// The lookup and the insert share a transaction, but two concurrent creators
// can still both pass the lookup at default isolation. The UNIQUE(email)
// constraint rejects the second insert and that rejection is reported as the
// same ConflictError.
func (s *employeeService) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	var created *domain.Employee

	err := s.repo.RunInTx(ctx, func(repo domain.EmployeeRepository) error {
		existing, err := repo.FindByEmail(ctx, e.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.ConflictError{Email: e.Email}
		}

		created, err = repo.Insert(ctx, e)
		return err
	})
	if err != nil {
		if database.IsDuplicateKey(err) {
			err = &domain.ConflictError{Email: e.Email}
		}

		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			metrics.EmployeeConflicts.Inc()
			logger.WarnLog(ctx, "rejected employee create: %v", err)
			return nil, err
		}

		logger.ErrorLog(ctx, "failed to create employee: %v", err)
		return nil, err
	}

	logger.InfoLog(ctx, "created employee %d", created.ID)
	return created, nil
}

func (s *employeeService) ListAll(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.FindAll(ctx)
}

func (s *employeeService) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

// Update overwrites the stored employee with e. Callers fetch and merge first;
// an unknown ID fails with domain.ErrEmployeeNotFound. Email uniqueness is not
// re-checked here, only the backend constraint guards it.
func (s *employeeService) Update(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	updated, err := s.repo.Update(ctx, e)
	if err != nil {
		if database.IsDuplicateKey(err) {
			logger.WarnLog(ctx, "rejected employee %d update: email %s is taken", e.ID, e.Email)
			return nil, &domain.ConflictError{Email: e.Email}
		}
		if !errors.Is(err, domain.ErrEmployeeNotFound) {
			logger.ErrorLog(ctx, "failed to update employee %d: %v", e.ID, err)
		}
		return nil, err
	}

	logger.InfoLog(ctx, "updated employee %d", updated.ID)
	return updated, nil
}

func (s *employeeService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		logger.ErrorLog(ctx, "failed to delete employee %d: %v", id, err)
		return err
	}

	logger.InfoLog(ctx, "deleted employee %d", id)
	return nil
}
