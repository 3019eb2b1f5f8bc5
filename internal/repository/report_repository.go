package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// ReportRepository reads the rows a completion report is built from.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// LessonsForSchool returns lessons assigned to the school plus lessons shared with all schools.
func (r *ReportRepository) LessonsForSchool(ctx context.Context, schoolID int64) ([]models.ReportLesson, error) {
	const query = `SELECT l.id, l.lesson_name, c.name AS class_name, sub.name AS subject_name, l.is_for_all_schools, l.created_at
FROM lesson_pdfs l
LEFT JOIN classes c ON c.id = l.class_id
LEFT JOIN subjects sub ON sub.id = l.subject_id
WHERE l.school_id = $1 OR l.is_for_all_schools = TRUE
ORDER BY c.name ASC NULLS LAST, l.lesson_name ASC`
	var lessons []models.ReportLesson
	if err := r.db.SelectContext(ctx, &lessons, query, schoolID); err != nil {
		return nil, fmt.Errorf("list report lessons: %w", err)
	}
	return lessons, nil
}

// CompletedResponses returns the completed class responses of a school, earliest first.
func (r *ReportRepository) CompletedResponses(ctx context.Context, schoolID int64) ([]models.CompletedResponse, error) {
	const query = `SELECT cr.lesson_name, t.teacher_name, cr.submitted_at
FROM class_responses cr
JOIN teachers t ON t.id = cr.teacher_id
WHERE cr.school_id = $1 AND cr.status = 'completed'
ORDER BY cr.submitted_at ASC`
	var rows []models.CompletedResponse
	if err := r.db.SelectContext(ctx, &rows, query, schoolID); err != nil {
		return nil, fmt.Errorf("list completed responses: %w", err)
	}
	return rows, nil
}
