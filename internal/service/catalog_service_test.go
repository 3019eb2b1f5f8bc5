package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type mockSubjectRepo struct {
	subjects  []models.Subject
	listCalls int
}

func (m *mockSubjectRepo) List(context.Context) ([]models.Subject, error) {
	m.listCalls++
	return m.subjects, nil
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	subject.ID = int64(len(m.subjects) + 1)
	m.subjects = append(m.subjects, *subject)
	return nil
}

func (m *mockSubjectRepo) Delete(context.Context, int64) error { return sql.ErrNoRows }

type mockClassRepo struct {
	classes   []models.Class
	createErr error
	renameErr error
}

func (m *mockClassRepo) List(context.Context) ([]models.Class, error) { return m.classes, nil }

func (m *mockClassRepo) Create(_ context.Context, class *models.Class) error {
	if m.createErr != nil {
		return m.createErr
	}
	class.ID = int64(len(m.classes) + 1)
	m.classes = append(m.classes, *class)
	return nil
}

func (m *mockClassRepo) Rename(_ context.Context, id int64, name string) (*models.Class, error) {
	if m.renameErr != nil {
		return nil, m.renameErr
	}
	return &models.Class{ID: id, Name: name}, nil
}

func (m *mockClassRepo) Delete(context.Context, int64) error { return nil }

func TestSubjectServiceListUsesCacheUntilWrite(t *testing.T) {
	repo := &mockSubjectRepo{subjects: []models.Subject{{ID: 1, Name: "Maths"}}}
	cache := NewCacheService(newMemoryCacheRepo(), nil, 0, nil)
	svc := NewSubjectService(repo, cache, nil, nil)

	_, hit, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)

	subjects, hit, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Maths", subjects[0].Name)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Create(context.Background(), dto.CreateSubjectRequest{Name: " Science "})
	require.NoError(t, err)

	subjects, hit, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, subjects, 2)
	assert.Equal(t, "Science", subjects[1].Name)
}

func TestSubjectServiceValidationAndNotFound(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateSubjectRequest{Name: "   "})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	err = svc.Delete(context.Background(), 5)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestClassServiceTranslatesErrors(t *testing.T) {
	repo := &mockClassRepo{createErr: &pq.Error{Code: "23505", Constraint: "classes_name_key"}}
	svc := NewClassService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.ClassRequest{Name: "Class 6"})
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)

	repo.renameErr = sql.ErrNoRows
	_, err = svc.Rename(context.Background(), 3, dto.ClassRequest{Name: "Class 9"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestClassServiceRename(t *testing.T) {
	svc := NewClassService(&mockClassRepo{}, nil, nil, nil)

	class, err := svc.Rename(context.Background(), 3, dto.ClassRequest{Name: " Class 9 "})
	require.NoError(t, err)
	assert.Equal(t, "Class 9", class.Name)
}
