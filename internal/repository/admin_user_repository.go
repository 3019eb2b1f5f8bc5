package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// AdminUserRepository persists console operators.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository constructs an AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// FindByUsername fetches an admin by username.
func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	const query = `SELECT id, username, password_hash, created_at, updated_at FROM admin_users WHERE username = $1`
	var user models.AdminUser
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches an admin by id.
func (r *AdminUserRepository) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	const query = `SELECT id, username, password_hash, created_at, updated_at FROM admin_users WHERE id = $1`
	var user models.AdminUser
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts an admin user.
func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	const query = `INSERT INTO admin_users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash.
func (r *AdminUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE admin_users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, passwordHash, updatedAt)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return expectAffected(res)
}
