package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// SchoolRepository manages persistence for schools.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// Create inserts a school and fills its generated columns.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	const query = `INSERT INTO schools (name, email, password, logo, address, principal_name, location, school_address, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		school.Name,
		school.Email,
		school.PasswordHash,
		school.Logo,
		school.Address,
		school.PrincipalName,
		school.Location,
		school.SchoolAddress,
		school.IsActive,
	)
	if err := row.Scan(&school.ID, &school.CreatedAt, &school.UpdatedAt); err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}

// ExistsByEmail reports whether a school already uses the email.
func (r *SchoolRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM schools WHERE LOWER(email) = LOWER($1) LIMIT 1`, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check school email: %w", err)
	}
	return true, nil
}

// FindByID fetches a school by id.
func (r *SchoolRepository) FindByID(ctx context.Context, id int64) (*models.School, error) {
	const query = `SELECT id, name, email, password, logo, address, principal_name, location, school_address, is_active, created_at, updated_at
FROM schools WHERE id = $1`
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		return nil, err
	}
	return &school, nil
}

// List returns every school with its teacher count, newest first.
func (r *SchoolRepository) List(ctx context.Context) ([]models.SchoolSummary, error) {
	const query = `SELECT s.id, s.name, s.email, s.password, s.logo, s.address, s.principal_name, s.location, s.school_address,
	s.is_active, s.created_at, s.updated_at, COUNT(t.id) AS teacher_count
FROM schools s
LEFT JOIN teachers t ON t.school_id = s.id
GROUP BY s.id
ORDER BY s.created_at DESC`
	var schools []models.SchoolSummary
	if err := r.db.SelectContext(ctx, &schools, query); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// Options returns id/name pairs ordered by name.
func (r *SchoolRepository) Options(ctx context.Context) ([]models.SchoolOption, error) {
	var options []models.SchoolOption
	if err := r.db.SelectContext(ctx, &options, `SELECT id, name FROM schools ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list school options: %w", err)
	}
	return options, nil
}

// Delete removes a school. Teachers cascade in the store.
func (r *SchoolRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	return expectAffected(res)
}
