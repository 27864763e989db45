package database

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/locvowork/employee_crud/internal/domain"
	"github.com/locvowork/employee_crud/pkg/dataflow"
)

// EmployeeCreator is the subset of the employee service the seeder needs.
type EmployeeCreator interface {
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
}

type DataSeeder struct {
	db      *DB
	creator EmployeeCreator
	rnd     *rand.Rand
}

func NewDataSeeder(db *DB, creator EmployeeCreator) *DataSeeder {
	return &DataSeeder{
		db:      db,
		creator: creator,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var (
	firstNames = []string{"Angelos", "Maria", "Ramesh", "John", "Linh", "Khoa", "Sofia", "Lukas", "Aiko", "Omar"}
	lastNames  = []string{"Toutsios", "Kontouri", "Fadarate", "Cena", "Nguyen", "Vo", "Rossi", "Meyer", "Tanaka", "Haddad"}
)

// SeedResult summarises a seeding run.
type SeedResult struct {
	Created   int
	Conflicts int
	Elapsed   time.Duration
}

// SeedEmployees creates count random employees through the creator so that the
// email uniqueness rule applies. Creates run on up to workers goroutines.
// Conflicting emails are skipped and counted.
func (ds *DataSeeder) SeedEmployees(ctx context.Context, count, workers int) (SeedResult, error) {
	start := time.Now()
	var created, conflicts int64

	source := dataflow.Generate(ctx, count, ds.randomEmployee(count))

	err := dataflow.ForEach(ctx, source, func(e *domain.Employee) error {
		if _, err := ds.creator.Create(ctx, e); err != nil {
			return err
		}
		atomic.AddInt64(&created, 1)
		return nil
	},
		dataflow.WithWorkers(workers),
		dataflow.WithErrorHandler(func(err error) bool {
			var conflict *domain.ConflictError
			if errors.As(err, &conflict) {
				atomic.AddInt64(&conflicts, 1)
				return true
			}
			return false
		}),
	)

	res := SeedResult{
		Created:   int(atomic.LoadInt64(&created)),
		Conflicts: int(atomic.LoadInt64(&conflicts)),
		Elapsed:   time.Since(start),
	}
	if err != nil {
		return res, fmt.Errorf("failed to seed employees: %w", err)
	}
	return res, nil
}

// randomEmployee is called from the single generator goroutine, so rnd needs
// no locking.
func (ds *DataSeeder) randomEmployee(count int) func(int) *domain.Employee {
	return func(int) *domain.Employee {
		first := firstNames[ds.rnd.Intn(len(firstNames))]
		last := lastNames[ds.rnd.Intn(len(lastNames))]
		return &domain.Employee{
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), ds.rnd.Intn(count*10+1)),
		}
	}
}

// ClearData removes every employee row.
func (ds *DataSeeder) ClearData(ctx context.Context) (int64, error) {
	result, err := ds.db.ExecContext(ctx, "DELETE FROM employees")
	if err != nil {
		return 0, MapError("employee.clear", err)
	}
	return result.RowsAffected()
}

// Presets
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
)

// GetPresetCount returns the number of employees for a preset
func GetPresetCount(preset SeedPreset) int {
	switch preset {
	case PresetSmall:
		return 10
	case PresetLarge:
		return 1000
	default:
		return 100
	}
}
