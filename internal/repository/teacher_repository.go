package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// TeacherWriter is the set of writes a teacher registration performs inside one transaction.
type TeacherWriter interface {
	InsertTeacher(ctx context.Context, teacher *models.Teacher) error
	ClassNames(ctx context.Context, classIDs []int64) ([]string, error)
	UpdateAssignments(ctx context.Context, teacherID int64, classes, sections []string) error
	LinkClassSubject(ctx context.Context, teacherID, subjectID, classID int64) (bool, error)
}

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers with their school name and the distinct class/subject ids they are assigned.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, error) {
	query := `SELECT t.id, t.school_id, t.teacher_name, t.dob, t.email, t.qualification, t.experience_years,
	t.phone_number, t.aadhaar_number, t.profile_image, t.status, t.assignedclasses, t.assignedsections,
	t.created_at, t.updated_at, s.name AS school_name,
	ARRAY(SELECT DISTINCT tcs.class_id FROM teacher_class_subject tcs WHERE tcs.teacher_id = t.id ORDER BY tcs.class_id) AS class_ids,
	ARRAY(SELECT DISTINCT tcs.subject_id FROM teacher_class_subject tcs WHERE tcs.teacher_id = t.id ORDER BY tcs.subject_id) AS subject_ids
FROM teachers t
JOIN schools s ON s.id = t.school_id`
	var args []interface{}
	if filter.SchoolID != nil {
		query += " WHERE t.school_id = $1"
		args = append(args, *filter.SchoolID)
	}
	query += " ORDER BY t.created_at DESC"

	var teachers []models.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ExistsByEmailOrAadhaar reports whether any teacher already uses the email or national id.
func (r *TeacherRepository) ExistsByEmailOrAadhaar(ctx context.Context, email, aadhaar string) (bool, error) {
	const query = `SELECT 1 FROM teachers WHERE email = $1 OR aadhaar_number = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email, aadhaar); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher uniqueness: %w", err)
	}
	return true, nil
}

// Delete removes a teacher. Assignment rows cascade in the store.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return expectAffected(res)
}

// WithinTx runs fn inside a transaction, committing when fn returns nil and rolling back otherwise.
func (r *TeacherRepository) WithinTx(ctx context.Context, fn func(TeacherWriter) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&teacherTx{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher transaction: %w", err)
	}
	return nil
}

type teacherTx struct {
	tx *sqlx.Tx
}

func (w *teacherTx) InsertTeacher(ctx context.Context, teacher *models.Teacher) error {
	const query = `INSERT INTO teachers (school_id, teacher_name, dob, email, password, qualification, experience_years,
	phone_number, aadhaar_number, profile_image, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, created_at, updated_at`
	row := w.tx.QueryRowxContext(ctx, query,
		teacher.SchoolID,
		teacher.TeacherName,
		teacher.DOB,
		teacher.Email,
		teacher.PasswordHash,
		teacher.Qualification,
		teacher.ExperienceYears,
		teacher.PhoneNumber,
		teacher.AadhaarNumber,
		teacher.ProfileImage,
		teacher.Status,
	)
	if err := row.Scan(&teacher.ID, &teacher.CreatedAt, &teacher.UpdatedAt); err != nil {
		return fmt.Errorf("insert teacher: %w", err)
	}
	return nil
}

func (w *teacherTx) ClassNames(ctx context.Context, classIDs []int64) ([]string, error) {
	if len(classIDs) == 0 {
		return []string{}, nil
	}
	const query = `SELECT DISTINCT name FROM classes WHERE id = ANY($1) ORDER BY name`
	var names []string
	if err := w.tx.SelectContext(ctx, &names, query, pq.Array(classIDs)); err != nil {
		return nil, fmt.Errorf("resolve class names: %w", err)
	}
	return names, nil
}

func (w *teacherTx) UpdateAssignments(ctx context.Context, teacherID int64, classes, sections []string) error {
	const query = `UPDATE teachers SET assignedclasses = $2, assignedsections = $3, updated_at = NOW() WHERE id = $1`
	if _, err := w.tx.ExecContext(ctx, query, teacherID, pq.Array(classes), pq.Array(sections)); err != nil {
		return fmt.Errorf("update teacher assignments: %w", err)
	}
	return nil
}

// LinkClassSubject inserts the (teacher, subject, class) triple unless it already exists and
// reports whether a row was written.
func (w *teacherTx) LinkClassSubject(ctx context.Context, teacherID, subjectID, classID int64) (bool, error) {
	const query = `INSERT INTO teacher_class_subject (teacher_id, subject_id, class_id)
VALUES ($1, $2, $3)
ON CONFLICT (teacher_id, subject_id, class_id) DO NOTHING`
	res, err := w.tx.ExecContext(ctx, query, teacherID, subjectID, classID)
	if err != nil {
		return false, fmt.Errorf("link teacher class subject: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("link teacher class subject: %w", err)
	}
	return affected > 0, nil
}
