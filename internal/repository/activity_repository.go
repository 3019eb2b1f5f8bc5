package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// ActivityRepository reads active principal and teacher sessions.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ActivePrincipals lists active school sessions, latest activity first.
func (r *ActivityRepository) ActivePrincipals(ctx context.Context) ([]models.PrincipalActivity, error) {
	const query = `SELECT ss.id, ss.school_id, s.name AS school_name, s.principal_name, s.email, ss.user_agent, ss.ip_address,
	ss.created_at, ss.expires_at, ss.last_activity
FROM school_sessions ss
JOIN schools s ON s.id = ss.school_id
WHERE ss.is_active = TRUE
ORDER BY ss.last_activity DESC`
	var items []models.PrincipalActivity
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list principal sessions: %w", err)
	}
	return items, nil
}

// ActiveTeachers lists active teacher sessions, latest activity first.
func (r *ActivityRepository) ActiveTeachers(ctx context.Context) ([]models.TeacherActivity, error) {
	const query = `SELECT ts.id, ts.teacher_id, t.teacher_name, t.email, s.name AS school_name, ts.user_agent, ts.ip_address,
	ts.created_at, ts.expires_at, ts.last_activity
FROM teacher_sessions ts
JOIN teachers t ON t.id = ts.teacher_id
JOIN schools s ON s.id = t.school_id
WHERE ts.is_active = TRUE
ORDER BY ts.last_activity DESC`
	var items []models.TeacherActivity
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list teacher sessions: %w", err)
	}
	return items, nil
}
