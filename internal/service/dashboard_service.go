package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type dashboardRepository interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type activityRepository interface {
	ActivePrincipals(ctx context.Context) ([]models.PrincipalActivity, error)
	ActiveTeachers(ctx context.Context) ([]models.TeacherActivity, error)
}

// DashboardService serves dashboard head counts and active session listings.
type DashboardService struct {
	repo     dashboardRepository
	activity activityRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(repo dashboardRepository, activity activityRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, activity: activity, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Stats returns the head counts and whether they came from the cache.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	var cached models.DashboardStats
	if s.cache.Get(ctx, cacheKeyDashboardStats, &cached) {
		return &cached, true, nil
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard stats")
	}
	s.cache.Set(ctx, cacheKeyDashboardStats, stats, s.cacheTTL)
	return stats, false, nil
}

// ActivePrincipals lists active school sessions, latest activity first.
func (s *DashboardService) ActivePrincipals(ctx context.Context) ([]models.PrincipalActivity, error) {
	items, err := s.activity.ActivePrincipals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list principal activity")
	}
	if items == nil {
		items = []models.PrincipalActivity{}
	}
	return items, nil
}

// ActiveTeachers lists active teacher sessions, latest activity first.
func (s *DashboardService) ActiveTeachers(ctx context.Context) ([]models.TeacherActivity, error) {
	items, err := s.activity.ActiveTeachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher activity")
	}
	if items == nil {
		items = []models.TeacherActivity{}
	}
	return items, nil
}
