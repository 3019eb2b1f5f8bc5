package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, error)
	Delete(ctx context.Context, id int64) error
}

// TeacherService serves teacher listings and removals.
type TeacherService struct {
	repo   teacherRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, cache *CacheService, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, cache: cache, logger: logger}
}

// List returns teachers, optionally restricted to one school.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, error) {
	if filter.SchoolID != nil && *filter.SchoolID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolId must be a positive integer")
	}
	teachers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	if teachers == nil {
		teachers = []models.TeacherDetail{}
	}
	return teachers, nil
}

// Delete removes a teacher and its assignments.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	s.cache.Invalidate(ctx, cacheKeyDashboardStats)
	s.logger.Info("teacher deleted", zap.Int64("teacher_id", id))
	return nil
}
