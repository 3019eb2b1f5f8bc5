package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

const uploadKindLogo = "school_logo"

var errDuplicateSchool = appErrors.Clone(appErrors.ErrConflict, "School with this email already exists")

type schoolRepository interface {
	Create(ctx context.Context, school *models.School) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.SchoolSummary, error)
	Options(ctx context.Context) ([]models.SchoolOption, error)
	Delete(ctx context.Context, id int64) error
}

// SchoolService registers and manages schools.
type SchoolService struct {
	repo        schoolRepository
	objects     objectPutter
	cleaner     orphanScheduler
	cache       *CacheService
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
	imageMaxDim int
	now         func() time.Time
}

// NewSchoolService constructs a SchoolService.
func NewSchoolService(repo schoolRepository, objects objectPutter, cleaner orphanScheduler, cache *CacheService, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, imageMaxDim int) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if imageMaxDim <= 0 {
		imageMaxDim = defaultImageMaxDim
	}
	return &SchoolService{
		repo:        repo,
		objects:     objects,
		cleaner:     cleaner,
		cache:       cache,
		validator:   validate,
		metrics:     metrics,
		logger:      logger,
		imageMaxDim: imageMaxDim,
		now:         time.Now,
	}
}

// Create validates and stores a school, uploading its logo when present.
func (s *SchoolService) Create(ctx context.Context, req dto.CreateSchoolRequest) (*models.School, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check school email")
	}
	if exists {
		return nil, errDuplicateSchool
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	school := &models.School{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  string(hash),
		Address:       normalizeOptional(req.Address),
		PrincipalName: normalizeOptional(req.PrincipalName),
		Location:      normalizeOptional(req.Location),
		SchoolAddress: normalizeOptional(req.SchoolAddress),
		IsActive:      true,
	}

	var logoKey string
	if !req.Logo.Empty() {
		obj, err := s.uploadLogo(ctx, req.Logo)
		if err != nil {
			return nil, err
		}
		logoKey = obj.Key
		school.Logo = &obj.URL
	}

	if err := s.repo.Create(ctx, school); err != nil {
		if logoKey != "" && s.cleaner != nil {
			s.cleaner.Schedule(logoKey)
		}
		if database.IsUniqueViolation(err, "schools_email_key") {
			return nil, appErrors.WrapAs(errDuplicateSchool, err)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create school")
	}

	s.cache.Invalidate(ctx, cacheKeyDashboardStats)
	s.logger.Info("school created", zap.Int64("school_id", school.ID))
	return school, nil
}

// List returns every school with its teacher count.
func (s *SchoolService) List(ctx context.Context) ([]models.SchoolSummary, error) {
	schools, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	if schools == nil {
		schools = []models.SchoolSummary{}
	}
	return schools, nil
}

// Options returns id/name pairs for selectors.
func (s *SchoolService) Options(ctx context.Context) ([]models.SchoolOption, error) {
	options, err := s.repo.Options(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	if options == nil {
		options = []models.SchoolOption{}
	}
	return options, nil
}

// Delete removes a school and, through the store, its teachers.
func (s *SchoolService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete school")
	}
	s.cache.Invalidate(ctx, cacheKeyDashboardStats)
	s.logger.Info("school deleted", zap.Int64("school_id", id))
	return nil
}

func (s *SchoolService) uploadLogo(ctx context.Context, upload *dto.Upload) (*storage.Object, error) {
	data, contentType, err := storage.NormalizeImage(upload.Data, s.imageMaxDim)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "logo must be an image")
	}
	key := storage.UniqueKey(storage.PrefixSchoolLogos, upload.Filename, s.now())
	obj, err := s.objects.Put(ctx, key, data, contentType)
	s.metrics.RecordUpload(uploadKindLogo, err)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrStorage, err)
	}
	return obj, nil
}
