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
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id int64) error
}

// SubjectService manages the subject catalogue.
type SubjectService struct {
	repo      subjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns subjects ordered by name. The second value reports a cache hit.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, bool, error) {
	var cached []models.Subject
	if s.cache.Get(ctx, cacheKeySubjects, &cached) {
		return cached, true, nil
	}
	subjects, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	s.cache.Set(ctx, cacheKeySubjects, subjects, 0)
	return subjects, false, nil
}

// Create adds a subject.
func (s *SubjectService) Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{Name: req.Name, Code: normalizeOptional(req.Code)}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	s.cache.Invalidate(ctx, cacheKeySubjects, cacheKeyDashboardStats)
	return subject, nil
}

// Delete removes a subject. Assignments referencing it cascade.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.cache.Invalidate(ctx, cacheKeySubjects, cacheKeyDashboardStats)
	s.logger.Info("subject deleted", zap.Int64("subject_id", id))
	return nil
}
