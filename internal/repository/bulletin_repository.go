package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// BulletinRepository reads job posts and reads/writes notifications.
type BulletinRepository struct {
	db *sqlx.DB
}

// NewBulletinRepository constructs a BulletinRepository.
func NewBulletinRepository(db *sqlx.DB) *BulletinRepository {
	return &BulletinRepository{db: db}
}

// ListJobPosts returns job posts newest first.
func (r *BulletinRepository) ListJobPosts(ctx context.Context) ([]models.JobPost, error) {
	const query = `SELECT id, school_id, type, position, qualification, experience, additional_message, created_at
FROM job_posts ORDER BY created_at DESC`
	var posts []models.JobPost
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list job posts: %w", err)
	}
	return posts, nil
}

// ListNotifications returns notifications newest first.
func (r *BulletinRepository) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	const query = `SELECT id, title, message, type, is_read, created_at FROM notifications ORDER BY created_at DESC`
	var items []models.Notification
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

// CreateNotification inserts a notification.
func (r *BulletinRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	const query = `INSERT INTO notifications (title, message, type) VALUES ($1, $2, $3) RETURNING id, is_read, created_at`
	if err := r.db.QueryRowxContext(ctx, query, n.Title, n.Message, n.Type).Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}
