package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

var errDuplicateClass = appErrors.Clone(appErrors.ErrConflict, "class already exists")

type classRepository interface {
	List(ctx context.Context) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Rename(ctx context.Context, id int64, name string) (*models.Class, error)
	Delete(ctx context.Context, id int64) error
}

// ClassService manages classes.
type ClassService struct {
	repo      classRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns all classes. The second value reports a cache hit.
func (s *ClassService) List(ctx context.Context) ([]models.Class, bool, error) {
	var cached []models.Class
	if s.cache.Get(ctx, cacheKeyClasses, &cached) {
		return cached, true, nil
	}
	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	s.cache.Set(ctx, cacheKeyClasses, classes, 0)
	return classes, false, nil
}

// Create adds a class with a unique name.
func (s *ClassService) Create(ctx context.Context, req dto.ClassRequest) (*models.Class, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	class := &models.Class{Name: req.Name}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, s.translate(err, "failed to create class")
	}
	s.cache.Invalidate(ctx, cacheKeyClasses, cacheKeyDashboardStats)
	return class, nil
}

// Rename changes the class name.
func (s *ClassService) Rename(ctx context.Context, id int64, req dto.ClassRequest) (*models.Class, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	class, err := s.repo.Rename(ctx, id, req.Name)
	if err != nil {
		return nil, s.translate(err, "failed to update class")
	}
	s.cache.Invalidate(ctx, cacheKeyClasses)
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "failed to delete class")
	}
	s.cache.Invalidate(ctx, cacheKeyClasses, cacheKeyDashboardStats)
	s.logger.Info("class deleted", zap.Int64("class_id", id))
	return nil
}

func (s *ClassService) validate(req *dto.ClassRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	return nil
}

func (s *ClassService) translate(err error, message string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "class not found")
	case database.IsUniqueViolation(err, "classes_name_key"):
		return appErrors.WrapAs(errDuplicateClass, err)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
