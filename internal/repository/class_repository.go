package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// ClassRepository handles persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes in creation order.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, `SELECT id, name, created_at, updated_at FROM classes ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID fetches a class.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	var class models.Class
	if err := r.db.GetContext(ctx, &class, `SELECT id, name, created_at, updated_at FROM classes WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	const query = `INSERT INTO classes (name) VALUES ($1) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, class.Name).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Rename changes the class name and returns the updated row.
func (r *ClassRepository) Rename(ctx context.Context, id int64, name string) (*models.Class, error) {
	const query = `UPDATE classes SET name = $2, updated_at = NOW() WHERE id = $1 RETURNING id, name, created_at, updated_at`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id, name); err != nil {
		return nil, err
	}
	return &class, nil
}

// Delete removes a class by id.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return expectAffected(res)
}
