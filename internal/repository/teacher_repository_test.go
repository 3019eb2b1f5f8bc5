package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTeacherRepositoryListBySchool(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "school_id", "teacher_name", "dob", "email", "qualification", "experience_years",
		"phone_number", "aadhaar_number", "profile_image", "status", "assignedclasses", "assignedsections",
		"created_at", "updated_at", "school_name", "class_ids", "subject_ids"}).
		AddRow(1, 3, "Asha", now, "asha@example.com", nil, nil, "123", "123456789012", nil, "active",
			"{\"Class 6\",\"Class 7\"}", "{A,B}", now, now, "Green Valley", "{10,20}", "{1}")
	mock.ExpectQuery(`FROM teachers t\s+JOIN schools s ON s.id = t.school_id WHERE t.school_id = \$1 ORDER BY t.created_at DESC`).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	schoolID := int64(3)
	list, err := repo.List(context.Background(), models.TeacherFilter{SchoolID: &schoolID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Green Valley", list[0].SchoolName)
	assert.ElementsMatch(t, []int64{10, 20}, []int64(list[0].ClassIDs))
	assert.ElementsMatch(t, []string{"Class 6", "Class 7"}, []string(list[0].AssignedClasses))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryExistsByEmailOrAadhaar(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM teachers WHERE email = $1 OR aadhaar_number = $2 LIMIT 1")).
		WithArgs("a@example.com", "123456789012").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := repo.ExistsByEmailOrAadhaar(context.Background(), "a@example.com", "123456789012")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryWithinTxCommits(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO teachers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT name FROM classes WHERE id = ANY($1) ORDER BY name")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Class 6").AddRow("Class 7"))
	mock.ExpectExec("UPDATE teachers SET assignedclasses").
		WithArgs(int64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO teacher_class_subject").
		WithArgs(int64(7), int64(1), int64(10)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teacher_class_subject").
		WithArgs(int64(7), int64(1), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	teacher := &models.Teacher{SchoolID: 1, TeacherName: "Asha", Email: "a@example.com", Status: models.TeacherStatusActive}
	var inserted []bool
	err := repo.WithinTx(context.Background(), func(w TeacherWriter) error {
		if err := w.InsertTeacher(context.Background(), teacher); err != nil {
			return err
		}
		names, err := w.ClassNames(context.Background(), []int64{10, 20})
		if err != nil {
			return err
		}
		if err := w.UpdateAssignments(context.Background(), teacher.ID, names, []string{"A"}); err != nil {
			return err
		}
		for i := 0; i < 2; i++ {
			ok, err := w.LinkClassSubject(context.Background(), teacher.ID, 1, 10)
			if err != nil {
				return err
			}
			inserted = append(inserted, ok)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), teacher.ID)
	assert.Equal(t, []bool{true, false}, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryWithinTxRollsBackOnFailedLink(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO teachers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(9, now, now))
	mock.ExpectExec("INSERT INTO teacher_class_subject").WithArgs(int64(9), int64(1), int64(10)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teacher_class_subject").WithArgs(int64(9), int64(1), int64(20)).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO teacher_class_subject").WithArgs(int64(9), int64(2), int64(10)).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	pairs := [][2]int64{{1, 10}, {1, 20}, {2, 10}, {2, 20}, {3, 10}}
	err := repo.WithinTx(context.Background(), func(w TeacherWriter) error {
		teacher := &models.Teacher{SchoolID: 1}
		if err := w.InsertTeacher(context.Background(), teacher); err != nil {
			return err
		}
		for _, p := range pairs {
			if _, err := w.LinkClassSubject(context.Background(), teacher.ID, p[0], p[1]); err != nil {
				return err
			}
		}
		return nil
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryWithinTxRollsBackOnPanic(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "unexpected nil class", func() {
		_ = repo.WithinTx(context.Background(), func(TeacherWriter) error {
			panic("unexpected nil class")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teachers WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
