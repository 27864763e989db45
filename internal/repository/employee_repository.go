package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/locvowork/employee_crud/internal/database"
	"github.com/locvowork/employee_crud/internal/domain"
	"github.com/locvowork/employee_crud/internal/repository/builder"
)

const employeesTable = "employees"

var employeeColumns = []string{"id", "first_name", "last_name", "email"}

// Native dialect queries. Markers are rebound to the driver's placeholder style.
const (
	nativeFindByName = `
		SELECT id, first_name, last_name, email
		FROM employees
		WHERE first_name = ? AND last_name = ?
		ORDER BY id
	`
	nativeFindByNameNamed = `
		SELECT id, first_name, last_name, email
		FROM employees
		WHERE first_name = :first_name AND last_name = :last_name
		ORDER BY id
	`
)

type nameFilter struct {
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

type employeeRepository struct {
	q           database.Querier
	db          *sqlx.DB // nil when bound to a transaction
	placeholder builder.Placeholder
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(db *sqlx.DB) domain.EmployeeRepository {
	return &employeeRepository{
		q:           db,
		db:          db,
		placeholder: builder.PlaceholderFor(db.DriverName()),
	}
}

func (r *employeeRepository) qb() *builder.SQLBuilder {
	return builder.NewSQLBuilder().WithPlaceholder(r.placeholder)
}

func (r *employeeRepository) RunInTx(ctx context.Context, fn func(repo domain.EmployeeRepository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&employeeRepository{q: tx, placeholder: r.placeholder})
	})
}

func (r *employeeRepository) Insert(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	query, args := r.qb().
		Insert(employeesTable, "first_name", "last_name", "email").
		Values(e.FirstName, e.LastName, e.Email).
		Returning(employeeColumns...).
		Build()

	var out domain.Employee
	if err := sqlx.GetContext(ctx, r.q, &out, query, args...); err != nil {
		return nil, database.MapError("employee.insert", err)
	}
	return &out, nil
}

func (r *employeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	query, args := r.qb().
		Select(employeeColumns...).
		From(employeesTable).
		OrderBy("id").
		Build()

	employees := []domain.Employee{}
	if err := sqlx.SelectContext(ctx, r.q, &employees, query, args...); err != nil {
		return nil, database.MapError("employee.find_all", err)
	}
	return employees, nil
}

func (r *employeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query, args := r.qb().
		Select(employeeColumns...).
		From(employeesTable).
		Where("id = ?", id).
		Build()

	return r.getOne(ctx, "employee.find_by_id", query, args)
}

func (r *employeeRepository) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query, args := r.qb().
		Select(employeeColumns...).
		From(employeesTable).
		Where("email = ?", email).
		Build()

	return r.getOne(ctx, "employee.find_by_email", query, args)
}

// getOne returns nil, nil when no row matches.
func (r *employeeRepository) getOne(ctx context.Context, op, query string, args []interface{}) (*domain.Employee, error) {
	var e domain.Employee
	if err := sqlx.GetContext(ctx, r.q, &e, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.MapError(op, err)
	}
	return &e, nil
}

// Update overwrites the row matching e.ID. A missing row yields
// domain.ErrEmployeeNotFound; nothing is inserted.
func (r *employeeRepository) Update(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	query, args := r.qb().
		Update(employeesTable).
		Set("first_name", e.FirstName).
		Set("last_name", e.LastName).
		Set("email", e.Email).
		Where("id = ?", e.ID).
		Returning(employeeColumns...).
		Build()

	var out domain.Employee
	if err := sqlx.GetContext(ctx, r.q, &out, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, database.MapError("employee.update", err)
	}
	return &out, nil
}

func (r *employeeRepository) DeleteByID(ctx context.Context, id int64) error {
	query, args := r.qb().
		Delete(employeesTable).
		Where("id = ?", id).
		Build()

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return database.MapError("employee.delete", err)
	}
	return nil
}

// FindByNameQuery looks employees up through the builder with positional binding.
func (r *employeeRepository) FindByNameQuery(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	query, args, err := r.qb().
		Select(employeeColumns...).
		From(employeesTable).
		Where("first_name = ?", firstName).
		Where("last_name = ?", lastName).
		OrderBy("id").
		BuildSafe()
	if err != nil {
		return nil, database.MapError("employee.find_by_name_query", err)
	}

	return r.selectMany(ctx, "employee.find_by_name_query", query, args)
}

// FindByNameQueryNamed looks employees up through the builder with named binding.
func (r *employeeRepository) FindByNameQueryNamed(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	query, args, err := r.qb().
		Select(employeeColumns...).
		From(employeesTable).
		Where("first_name = :first_name").
		Where("last_name = :last_name").
		OrderBy("id").
		BuildNamed(map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
		})
	if err != nil {
		return nil, database.MapError("employee.find_by_name_query_named", err)
	}

	return r.selectMany(ctx, "employee.find_by_name_query_named", query, args)
}

// FindByNameNative runs hand-written SQL with positional binding.
func (r *employeeRepository) FindByNameNative(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	return r.selectMany(ctx, "employee.find_by_name_native", r.q.Rebind(nativeFindByName), []interface{}{firstName, lastName})
}

// FindByNameNativeNamed runs hand-written SQL with named binding.
func (r *employeeRepository) FindByNameNativeNamed(ctx context.Context, firstName, lastName string) ([]domain.Employee, error) {
	const op = "employee.find_by_name_native_named"

	rows, err := sqlx.NamedQueryContext(ctx, r.q, nativeFindByNameNamed, nameFilter{FirstName: firstName, LastName: lastName})
	if err != nil {
		return nil, database.MapError(op, err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		if err := rows.StructScan(&e); err != nil {
			return nil, database.MapError(op, err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError(op, err)
	}
	return employees, nil
}

func (r *employeeRepository) selectMany(ctx context.Context, op, query string, args []interface{}) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	if err := sqlx.SelectContext(ctx, r.q, &employees, query, args...); err != nil {
		return nil, database.MapError(op, err)
	}
	return employees, nil
}
