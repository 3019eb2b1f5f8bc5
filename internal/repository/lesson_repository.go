package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

const lessonRecordSelect = `SELECT l.id, l.lesson_name, l.pdf_url, l.object_key, l.class_id, l.subject_id, l.school_id,
	l.is_for_all_schools, l.lesson_outcomes, l.lesson_objectives, l.created_at, l.updated_at,
	c.name AS class_name, s.name AS school_name, sub.name AS subject_name
FROM lesson_pdfs l
LEFT JOIN classes c ON c.id = l.class_id
LEFT JOIN schools s ON s.id = l.school_id
LEFT JOIN subjects sub ON sub.id = l.subject_id`

// LessonRepository persists uploaded syllabus PDFs.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// Create inserts a lesson row.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	const query = `INSERT INTO lesson_pdfs (lesson_name, pdf_url, object_key, class_id, subject_id, school_id, is_for_all_schools,
	lesson_outcomes, lesson_objectives)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		lesson.LessonName,
		lesson.PDFURL,
		lesson.ObjectKey,
		lesson.ClassID,
		lesson.SubjectID,
		lesson.SchoolID,
		lesson.IsForAllSchools,
		lesson.LessonOutcomes,
		lesson.LessonObjectives,
	)
	if err := row.Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// ListByClass returns the lessons of one class, newest first.
func (r *LessonRepository) ListByClass(ctx context.Context, classID int64) ([]models.LessonRecord, error) {
	var lessons []models.LessonRecord
	query := lessonRecordSelect + ` WHERE l.class_id = $1 ORDER BY l.created_at DESC`
	if err := r.db.SelectContext(ctx, &lessons, query, classID); err != nil {
		return nil, fmt.Errorf("list lessons by class: %w", err)
	}
	return lessons, nil
}

// ListAll returns every lesson, newest first.
func (r *LessonRepository) ListAll(ctx context.Context) ([]models.LessonRecord, error) {
	var lessons []models.LessonRecord
	if err := r.db.SelectContext(ctx, &lessons, lessonRecordSelect+` ORDER BY l.created_at DESC`); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// FindByID fetches a lesson with its joined names.
func (r *LessonRepository) FindByID(ctx context.Context, id int64) (*models.LessonRecord, error) {
	var lesson models.LessonRecord
	if err := r.db.GetContext(ctx, &lesson, lessonRecordSelect+` WHERE l.id = $1`, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// UpdateDetails renames a lesson. Nil outcomes/objectives keep their stored values.
func (r *LessonRepository) UpdateDetails(ctx context.Context, id int64, name string, outcomes, objectives *string) error {
	const query = `UPDATE lesson_pdfs SET lesson_name = $2,
	lesson_outcomes = COALESCE($3, lesson_outcomes),
	lesson_objectives = COALESCE($4, lesson_objectives),
	updated_at = NOW()
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, name, outcomes, objectives)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a lesson row.
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lesson_pdfs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return expectAffected(res)
}
