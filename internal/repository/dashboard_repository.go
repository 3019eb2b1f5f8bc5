package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// DashboardRepository aggregates head counts for the admin dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats counts schools, teachers, classes, subjects and lessons in one round trip.
func (r *DashboardRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM schools) AS schools,
	(SELECT COUNT(*) FROM teachers) AS teachers,
	(SELECT COUNT(*) FROM classes) AS classes,
	(SELECT COUNT(*) FROM subjects) AS subjects,
	(SELECT COUNT(*) FROM lesson_pdfs) AS lessons`
	var stats models.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
