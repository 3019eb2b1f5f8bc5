package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/pkg/database"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

const (
	dateLayout         = "2006-01-02"
	passwordHashCost   = 10
	uploadKindProfile  = "teacher_profile"
	registrationOK     = "created"
	defaultImageMaxDim = 1024
)

// Store constraints that identify a teacher uniquely.
var teacherUniqueConstraints = []string{"teachers_email_key", "teachers_aadhaar_number_key"}

type teacherRegistrationStore interface {
	ExistsByEmailOrAadhaar(ctx context.Context, email, aadhaar string) (bool, error)
	WithinTx(ctx context.Context, fn func(repository.TeacherWriter) error) error
}

type objectPutter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*storage.Object, error)
}

// teacherScalars carries the format rules of the scalar registration fields.
type teacherScalars struct {
	Email           string `validate:"email,max=255"`
	TeacherName     string `validate:"max=255"`
	PhoneNumber     string `validate:"max=20"`
	AadhaarNumber   string `validate:"max=12"`
	ExperienceYears *int   `validate:"omitempty,gte=0,lte=80"`
}

// TeacherRegistrationConfig tunes the registration workflow.
type TeacherRegistrationConfig struct {
	ImageMaxDim int
}

// TeacherRegistrationService validates registration payloads and persists a teacher together
// with its subject/class assignments in one transaction.
type TeacherRegistrationService struct {
	store     teacherRegistrationStore
	objects   objectPutter
	cleaner   orphanScheduler
	cache     *CacheService
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       TeacherRegistrationConfig
	now       func() time.Time
}

// NewTeacherRegistrationService constructs the workflow.
func NewTeacherRegistrationService(store teacherRegistrationStore, objects objectPutter, cleaner orphanScheduler, cache *CacheService, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg TeacherRegistrationConfig) *TeacherRegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ImageMaxDim <= 0 {
		cfg.ImageMaxDim = defaultImageMaxDim
	}
	return &TeacherRegistrationService{
		store:     store,
		objects:   objects,
		cleaner:   cleaner,
		cache:     cache,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Register runs the registration workflow and returns the created teacher.
func (s *TeacherRegistrationService) Register(ctx context.Context, req dto.RegisterTeacherRequest) (*models.Teacher, error) {
	teacher, err := s.register(ctx, req)
	if err != nil {
		s.metrics.RecordRegistration(appErrors.FromError(err).Code)
		return nil, err
	}
	s.metrics.RecordRegistration(registrationOK)
	return teacher, nil
}

func (s *TeacherRegistrationService) register(ctx context.Context, req dto.RegisterTeacherRequest) (*models.Teacher, error) {
	normalizeRegistration(&req)

	teacher, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.ExistsByEmailOrAadhaar(ctx, teacher.Email, teacher.AadhaarNumber)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrPersistence, err)
	}
	if exists {
		return nil, appErrors.ErrDuplicateTeacher
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrPersistence, err)
	}
	teacher.PasswordHash = string(hash)

	var uploadedKey string
	if !req.ProfileImage.Empty() {
		obj, err := s.uploadProfileImage(ctx, req.ProfileImage)
		if err != nil {
			return nil, err
		}
		uploadedKey = obj.Key
		teacher.ProfileImage = &obj.URL
	}

	classIDs := distinctClassIDs(req.SubjectClassMappings)
	err = s.store.WithinTx(ctx, func(w repository.TeacherWriter) error {
		if err := w.InsertTeacher(ctx, teacher); err != nil {
			return err
		}
		names, err := w.ClassNames(ctx, classIDs)
		if err != nil {
			return err
		}
		if err := w.UpdateAssignments(ctx, teacher.ID, names, req.Sections); err != nil {
			return err
		}
		teacher.AssignedClasses = names
		teacher.AssignedSections = req.Sections
		for _, mapping := range req.SubjectClassMappings {
			for _, classID := range mapping.ClassIDs {
				if _, err := w.LinkClassSubject(ctx, teacher.ID, mapping.SubjectID, classID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if uploadedKey != "" && s.cleaner != nil {
			s.cleaner.Schedule(uploadedKey)
		}
		return nil, s.translateStoreError(err, teacher)
	}
	s.cache.Invalidate(ctx, cacheKeyDashboardStats)

	s.logger.Info("teacher registered",
		zap.Int64("teacher_id", teacher.ID),
		zap.Int64("school_id", teacher.SchoolID),
		zap.Int("mappings", len(req.SubjectClassMappings)),
	)
	return teacher, nil
}

// validate applies the registration checks in order and builds the teacher row.
func (s *TeacherRegistrationService) validate(req dto.RegisterTeacherRequest) (*models.Teacher, error) {
	if req.SchoolID <= 0 || req.TeacherName == "" || req.Email == "" || req.Password == "" ||
		req.DOB == "" || req.PhoneNumber == "" || req.AadhaarNumber == "" {
		return nil, appErrors.ErrMissingFields
	}
	scalars := teacherScalars{
		Email:           req.Email,
		TeacherName:     req.TeacherName,
		PhoneNumber:     req.PhoneNumber,
		AadhaarNumber:   req.AadhaarNumber,
		ExperienceYears: req.ExperienceYears,
	}
	if err := s.validator.Struct(scalars); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	dob, err := time.Parse(dateLayout, req.DOB)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dob must be formatted as YYYY-MM-DD")
	}
	status := models.TeacherStatusActive
	if req.Status != "" {
		status = models.TeacherStatus(strings.ToLower(req.Status))
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "status must be active or inactive")
		}
	}

	if len(req.SubjectClassMappings) == 0 {
		return nil, appErrors.ErrNoSubjects
	}
	for _, mapping := range req.SubjectClassMappings {
		if len(mapping.ClassIDs) == 0 {
			return nil, appErrors.ErrIncompleteMapping
		}
	}
	if len(req.Sections) == 0 {
		return nil, appErrors.ErrNoSections
	}

	return &models.Teacher{
		SchoolID:        req.SchoolID,
		TeacherName:     req.TeacherName,
		DOB:             dob,
		Email:           req.Email,
		Qualification:   normalizeOptional(req.Qualification),
		ExperienceYears: req.ExperienceYears,
		PhoneNumber:     req.PhoneNumber,
		AadhaarNumber:   req.AadhaarNumber,
		Status:          status,
	}, nil
}

func (s *TeacherRegistrationService) uploadProfileImage(ctx context.Context, upload *dto.Upload) (*storage.Object, error) {
	data, contentType, err := storage.NormalizeImage(upload.Data, s.cfg.ImageMaxDim)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "profileImage must be a JPEG, PNG, GIF, BMP or TIFF image")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "profileImage could not be decoded")
	}
	key := storage.UniqueKey(storage.PrefixTeacherProfiles, upload.Filename, s.now())
	obj, err := s.objects.Put(ctx, key, data, contentType)
	s.metrics.RecordUpload(uploadKindProfile, err)
	if err != nil {
		s.logger.Error("profile image upload failed", zap.String("key", key), zap.Error(err))
		return nil, appErrors.WrapAs(appErrors.ErrStorage, err)
	}
	return obj, nil
}

func (s *TeacherRegistrationService) translateStoreError(err error, teacher *models.Teacher) error {
	switch {
	case database.IsUniqueViolation(err, teacherUniqueConstraints...):
		return appErrors.WrapAs(appErrors.ErrDuplicateTeacher, err)
	case database.IsForeignKeyViolation(err, "teachers_school_id_fkey"):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "school not found")
	case database.IsForeignKeyViolation(err, "teacher_class_subject_subject_id_fkey", "teacher_class_subject_class_id_fkey"):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "subject or class not found")
	}
	s.logger.Error("teacher registration rolled back",
		zap.String("email", teacher.Email),
		zap.Int64("school_id", teacher.SchoolID),
		zap.Error(err),
	)
	return appErrors.WrapAs(appErrors.ErrPersistence, err)
}

// normalizeRegistration trims scalars, folds the legacy shape into mappings, drops blank
// sections and de-duplicates sections and class ids while keeping their order.
func normalizeRegistration(req *dto.RegisterTeacherRequest) {
	req.TeacherName = strings.TrimSpace(req.TeacherName)
	req.Email = strings.TrimSpace(req.Email)
	req.DOB = strings.TrimSpace(req.DOB)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.AadhaarNumber = strings.TrimSpace(req.AadhaarNumber)
	req.Status = strings.TrimSpace(req.Status)
	req.NormalizeLegacy()

	sections := make([]string, 0, len(req.Sections))
	seen := make(map[string]struct{}, len(req.Sections))
	for _, section := range req.Sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		if _, ok := seen[section]; ok {
			continue
		}
		seen[section] = struct{}{}
		sections = append(sections, section)
	}
	req.Sections = sections

	for i := range req.SubjectClassMappings {
		req.SubjectClassMappings[i].ClassIDs = uniqueIDs(req.SubjectClassMappings[i].ClassIDs)
	}
}

func distinctClassIDs(mappings []dto.SubjectClassMapping) []int64 {
	var all []int64
	for _, mapping := range mappings {
		all = append(all, mapping.ClassIDs...)
	}
	return uniqueIDs(all)
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
