package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// FAQRepository persists questions and answers.
type FAQRepository struct {
	db *sqlx.DB
}

// NewFAQRepository constructs a FAQRepository.
func NewFAQRepository(db *sqlx.DB) *FAQRepository {
	return &FAQRepository{db: db}
}

// List returns unanswered questions first, each group newest first.
func (r *FAQRepository) List(ctx context.Context) ([]models.FAQ, error) {
	const query = `SELECT id, question, answer, created_at, answered_at FROM faqs
ORDER BY (answer IS NOT NULL AND answer <> '') ASC, created_at DESC`
	var faqs []models.FAQ
	if err := r.db.SelectContext(ctx, &faqs, query); err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	return faqs, nil
}

// Create inserts a question.
func (r *FAQRepository) Create(ctx context.Context, faq *models.FAQ) error {
	const query = `INSERT INTO faqs (question) VALUES ($1) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, faq.Question).Scan(&faq.ID, &faq.CreatedAt); err != nil {
		return fmt.Errorf("create faq: %w", err)
	}
	return nil
}

// Answer stores the answer and stamps answered_at.
func (r *FAQRepository) Answer(ctx context.Context, id int64, answer string) (*models.FAQ, error) {
	const query = `UPDATE faqs SET answer = $2, answered_at = NOW() WHERE id = $1
RETURNING id, question, answer, created_at, answered_at`
	var faq models.FAQ
	if err := r.db.GetContext(ctx, &faq, query, id, answer); err != nil {
		return nil, err
	}
	return &faq, nil
}

// Delete removes a question.
func (r *FAQRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	return expectAffected(res)
}
