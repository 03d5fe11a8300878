package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

// EmployeeRepository manages the stored roster.
type EmployeeRepository interface {
	List(ctx context.Context) ([]domain.Employee, error)
	ReplaceAll(ctx context.Context, employees []domain.Employee) (int64, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository builds the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const query = `
        SELECT id, manager_id, name, position, department, job_classification, image, email
        FROM employees ORDER BY roster_order`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.ManagerID, &e.Name, &e.Position, &e.Department, &e.JobClassification, &e.Image, &e.Email); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// ReplaceAll swaps the stored roster for employees in one transaction,
// keeping their order.
func (r *employeeRepository) ReplaceAll(ctx context.Context, employees []domain.Employee) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM employees`); err != nil {
		return 0, err
	}

	columns := []string{"roster_order", "id", "manager_id", "name", "position", "department", "job_classification", "image", "email"}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"employees"}, columns, pgx.CopyFromSlice(len(employees), func(i int) ([]any, error) {
		e := employees[i]
		return []any{i, e.ID, e.ManagerID, e.Name, e.Position, e.Department, e.JobClassification, e.Image, e.Email}, nil
	}))
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return copied, nil
}
