// Package out defines outbound ports for the triage engine.
package out

import (
	"context"

	"triage_server/core/domain"
)

// EmployeeRepository loads directory records. Level filtering happens
// in the directory service, not here; the repository returns full
// records.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	ByDepartment(ctx context.Context, department string) ([]domain.Employee, error)
}
