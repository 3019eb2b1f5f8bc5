package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFAQRepositoryListUnansweredFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFAQRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "question", "answer", "created_at", "answered_at"}).
		AddRow(2, "How do I upload?", nil, now, nil).
		AddRow(1, "Where is the report?", "Reports tab", now.Add(-time.Hour), now)
	mock.ExpectQuery(`ORDER BY \(answer IS NOT NULL AND answer <> ''\) ASC, created_at DESC`).WillReturnRows(rows)

	faqs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, faqs, 2)
	assert.Nil(t, faqs[0].Answer)
	assert.NotNil(t, faqs[1].AnsweredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFAQRepositoryAnswer(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFAQRepository(db)

	now := time.Now()
	mock.ExpectQuery("UPDATE faqs SET answer = \\$2, answered_at = NOW\\(\\)").
		WithArgs(int64(2), "Use the upload page").
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "created_at", "answered_at"}).
			AddRow(2, "How do I upload?", "Use the upload page", now, now))

	faq, err := repo.Answer(context.Background(), 2, "Use the upload page")
	require.NoError(t, err)
	assert.Equal(t, "Use the upload page", *faq.Answer)
	assert.NoError(t, mock.ExpectationsWereMet())
}
