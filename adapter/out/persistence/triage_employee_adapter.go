// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
)

// EmployeeAdapter implements out.EmployeeRepository using PostgreSQL.
// With a nil db it runs in static mode and serves the built-in seed,
// so the engine works without any database configured.
type EmployeeAdapter struct {
	db   *sqlx.DB
	seed []domain.Employee
}

// NewEmployeeAdapter creates a new EmployeeAdapter.
func NewEmployeeAdapter(db *sqlx.DB) *EmployeeAdapter {
	return &EmployeeAdapter{db: db, seed: SeedEmployees()}
}

// employeeRow represents the database row for employees. Confidential
// columns are nullable; internal projects are stored as a JSON array.
type employeeRow struct {
	ID                string          `db:"id"`
	Name              string          `db:"name"`
	Title             string          `db:"title"`
	Department        string          `db:"department"`
	CompanyEmail      string          `db:"company_email"`
	Phone             sql.NullString  `db:"phone"`
	DirectEmail       sql.NullString  `db:"direct_email"`
	Manager           sql.NullString  `db:"manager"`
	Availability      sql.NullString  `db:"availability"`
	SalaryBand        sql.NullString  `db:"salary_band"`
	PerformanceRating sql.NullString  `db:"performance_rating"`
	InternalProjects  json.RawMessage `db:"internal_projects"`
	PersonalPhone     sql.NullString  `db:"personal_phone"`
	HomeAddress       sql.NullString  `db:"home_address"`
	EmergencyContact  sql.NullString  `db:"emergency_contact"`
}

func (r *employeeRow) toDomain() (*domain.Employee, error) {
	emp := &domain.Employee{
		ID: r.ID,
		Public: domain.PublicInfo{
			Name:         r.Name,
			Title:        r.Title,
			Department:   r.Department,
			CompanyEmail: r.CompanyEmail,
		},
		Trusted: domain.TrustedInfo{
			Phone:        r.Phone.String,
			DirectEmail:  r.DirectEmail.String,
			Manager:      r.Manager.String,
			Availability: r.Availability.String,
		},
		Confidential: &domain.ConfidentialInfo{
			EmployeeID:        r.ID,
			SalaryBand:        r.SalaryBand.String,
			PerformanceRating: r.PerformanceRating.String,
			PersonalPhone:     r.PersonalPhone.String,
			HomeAddress:       r.HomeAddress.String,
			EmergencyContact:  r.EmergencyContact.String,
		},
	}

	if len(r.InternalProjects) > 0 {
		var projects []struct {
			Name      string `json:"name"`
			Status    string `json:"status"`
			Sensitive bool   `json:"sensitive"`
		}
		if err := json.Unmarshal(r.InternalProjects, &projects); err != nil {
			return nil, apperr.DatabaseError("decode internal projects", err)
		}
		for _, p := range projects {
			emp.Confidential.InternalProjects = append(emp.Confidential.InternalProjects, domain.InternalProject{
				Name:      p.Name,
				Status:    p.Status,
				Sensitive: p.Sensitive,
			})
		}
	}

	return emp, nil
}

func encodeProjects(projects []domain.InternalProject) ([]byte, error) {
	out := make([]map[string]any, 0, len(projects))
	for _, p := range projects {
		out = append(out, map[string]any{
			"name":      p.Name,
			"status":    p.Status,
			"sensitive": p.Sensitive,
		})
	}
	return json.Marshal(out)
}

// GetByID gets an employee by ID.
func (a *EmployeeAdapter) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	if a.db == nil {
		for i := range a.seed {
			if a.seed[i].ID == id {
				return &a.seed[i], nil
			}
		}
		return nil, apperr.NotFound("employee")
	}

	query := `SELECT * FROM employees WHERE id = $1`

	var row employeeRow
	err := a.db.QueryRowxContext(ctx, query, id).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("employee")
		}
		return nil, apperr.DatabaseError("get employee", err)
	}
	return row.toDomain()
}

// GetByEmail gets an employee by company email.
func (a *EmployeeAdapter) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	if a.db == nil {
		for i := range a.seed {
			if strings.EqualFold(a.seed[i].Public.CompanyEmail, email) {
				return &a.seed[i], nil
			}
		}
		return nil, apperr.NotFound("employee")
	}

	query := `SELECT * FROM employees WHERE LOWER(company_email) = LOWER($1)`

	var row employeeRow
	err := a.db.QueryRowxContext(ctx, query, email).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("employee")
		}
		return nil, apperr.DatabaseError("get employee by email", err)
	}
	return row.toDomain()
}

// List lists all employees.
func (a *EmployeeAdapter) List(ctx context.Context) ([]domain.Employee, error) {
	if a.db == nil {
		emps := make([]domain.Employee, len(a.seed))
		copy(emps, a.seed)
		return emps, nil
	}

	query := `SELECT * FROM employees ORDER BY id`

	rows, err := a.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, apperr.DatabaseError("list employees", err)
	}
	defer rows.Close()

	var emps []domain.Employee
	for rows.Next() {
		var row employeeRow
		if err := rows.StructScan(&row); err != nil {
			return nil, apperr.DatabaseError("scan employee", err)
		}
		emp, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		emps = append(emps, *emp)
	}
	return emps, nil
}

// ByDepartment lists employees in a department.
func (a *EmployeeAdapter) ByDepartment(ctx context.Context, department string) ([]domain.Employee, error) {
	if a.db == nil {
		var emps []domain.Employee
		for i := range a.seed {
			if strings.EqualFold(a.seed[i].Public.Department, department) {
				emps = append(emps, a.seed[i])
			}
		}
		return emps, nil
	}

	query := `SELECT * FROM employees WHERE LOWER(department) = LOWER($1) ORDER BY id`

	rows, err := a.db.QueryxContext(ctx, query, department)
	if err != nil {
		return nil, apperr.DatabaseError("list employees by department", err)
	}
	defer rows.Close()

	var emps []domain.Employee
	for rows.Next() {
		var row employeeRow
		if err := rows.StructScan(&row); err != nil {
			return nil, apperr.DatabaseError("scan employee", err)
		}
		emp, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		emps = append(emps, *emp)
	}
	return emps, nil
}

// Seed creates the table if needed and upserts the built-in
// directory. Static mode is a no-op.
func (a *EmployeeAdapter) Seed(ctx context.Context) error {
	if a.db == nil {
		return nil
	}

	schema := `
		CREATE TABLE IF NOT EXISTS employees (
			id                 TEXT PRIMARY KEY,
			name               TEXT NOT NULL,
			title              TEXT NOT NULL,
			department         TEXT NOT NULL,
			company_email      TEXT NOT NULL,
			phone              TEXT,
			direct_email       TEXT,
			manager            TEXT,
			availability       TEXT,
			salary_band        TEXT,
			performance_rating TEXT,
			internal_projects  JSONB,
			personal_phone     TEXT,
			home_address       TEXT,
			emergency_contact  TEXT
		)
	`
	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return apperr.DatabaseError("create employees table", err)
	}

	query := `
		INSERT INTO employees (
			id, name, title, department, company_email,
			phone, direct_email, manager, availability,
			salary_band, performance_rating, internal_projects,
			personal_phone, home_address, emergency_contact
		) VALUES (
			$1, $2, $3, $4, $5,
			NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''),
			NULLIF($10, ''), NULLIF($11, ''), $12,
			NULLIF($13, ''), NULLIF($14, ''), NULLIF($15, '')
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			department = EXCLUDED.department,
			company_email = EXCLUDED.company_email,
			phone = EXCLUDED.phone,
			direct_email = EXCLUDED.direct_email,
			manager = EXCLUDED.manager,
			availability = EXCLUDED.availability,
			salary_band = EXCLUDED.salary_band,
			performance_rating = EXCLUDED.performance_rating,
			internal_projects = EXCLUDED.internal_projects,
			personal_phone = EXCLUDED.personal_phone,
			home_address = EXCLUDED.home_address,
			emergency_contact = EXCLUDED.emergency_contact
	`

	for _, emp := range a.seed {
		conf := emp.Confidential
		if conf == nil {
			conf = &domain.ConfidentialInfo{EmployeeID: emp.ID}
		}
		projects, err := encodeProjects(conf.InternalProjects)
		if err != nil {
			return apperr.DatabaseError("encode internal projects", err)
		}
		if _, err := a.db.ExecContext(ctx, query,
			emp.ID,
			emp.Public.Name,
			emp.Public.Title,
			emp.Public.Department,
			emp.Public.CompanyEmail,
			emp.Trusted.Phone,
			emp.Trusted.DirectEmail,
			emp.Trusted.Manager,
			emp.Trusted.Availability,
			conf.SalaryBand,
			conf.PerformanceRating,
			projects,
			conf.PersonalPhone,
			conf.HomeAddress,
			conf.EmergencyContact,
		); err != nil {
			return apperr.DatabaseError("seed employees", err)
		}
	}
	return nil
}

// Ensure EmployeeAdapter implements out.EmployeeRepository
var _ out.EmployeeRepository = (*EmployeeAdapter)(nil)
