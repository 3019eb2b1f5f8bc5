package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers   []models.TeacherDetail
	lastFilter models.TeacherFilter
	listErr    error
	deleteErr  error
	deleted    []int64
}

func (m *mockTeacherRepo) List(_ context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, error) {
	m.lastFilter = filter
	return m.teachers, m.listErr
}

func (m *mockTeacherRepo) Delete(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func TestTeacherServiceListFiltersBySchool(t *testing.T) {
	repo := &mockTeacherRepo{teachers: []models.TeacherDetail{{SchoolName: "Green Valley"}}}
	svc := NewTeacherService(repo, nil, nil)

	schoolID := int64(4)
	teachers, err := svc.List(context.Background(), models.TeacherFilter{SchoolID: &schoolID})
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
	require.NotNil(t, repo.lastFilter.SchoolID)
	assert.Equal(t, int64(4), *repo.lastFilter.SchoolID)
}

func TestTeacherServiceListReturnsEmptySlice(t *testing.T) {
	svc := NewTeacherService(&mockTeacherRepo{}, nil, nil)

	teachers, err := svc.List(context.Background(), models.TeacherFilter{})
	require.NoError(t, err)
	assert.NotNil(t, teachers)
	assert.Empty(t, teachers)
}

func TestTeacherServiceListRejectsBadSchoolID(t *testing.T) {
	svc := NewTeacherService(&mockTeacherRepo{}, nil, nil)

	schoolID := int64(0)
	_, err := svc.List(context.Background(), models.TeacherFilter{SchoolID: &schoolID})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTeacherServiceDelete(t *testing.T) {
	cacheRepo := newMemoryCacheRepo()
	cacheRepo.items[cacheKeyDashboardStats] = []byte(`{"schools":1}`)
	repo := &mockTeacherRepo{}
	svc := NewTeacherService(repo, NewCacheService(cacheRepo, nil, 0, nil), nil)

	require.NoError(t, svc.Delete(context.Background(), 9))
	assert.Equal(t, []int64{9}, repo.deleted)
	assert.NotContains(t, cacheRepo.items, cacheKeyDashboardStats)

	repo.deleteErr = sql.ErrNoRows
	err := svc.Delete(context.Background(), 10)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
