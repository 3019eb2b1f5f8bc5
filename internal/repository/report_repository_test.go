package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepositoryLessonsIncludeShared(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now()
	mock.ExpectQuery(`WHERE l.school_id = \$1 OR l.is_for_all_schools = TRUE`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lesson_name", "class_name", "subject_name", "is_for_all_schools", "created_at"}).
			AddRow(1, "Fractions", "Class 6", "Maths", true, now).
			AddRow(2, "Plants", "Class 7", nil, false, now))

	lessons, err := repo.LessonsForSchool(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Nil(t, lessons[1].SubjectName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryCompletedResponses(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now()
	mock.ExpectQuery(`WHERE cr.school_id = \$1 AND cr.status = 'completed'`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"lesson_name", "teacher_name", "submitted_at"}).AddRow("Fractions", "Asha", now))

	rows, err := repo.CompletedResponses(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Asha", rows[0].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
