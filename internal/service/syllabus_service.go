package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/database"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

const (
	uploadKindLesson       = "lesson_pdf"
	defaultSyllabusMaxSize = 10 << 20

	labelUnknown     = "Unknown"
	labelAllSchools  = "All Schools"
	labelNotAssigned = "Not Assigned"
)

type lessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	ListByClass(ctx context.Context, classID int64) ([]models.LessonRecord, error)
	ListAll(ctx context.Context) ([]models.LessonRecord, error)
	FindByID(ctx context.Context, id int64) (*models.LessonRecord, error)
	UpdateDetails(ctx context.Context, id int64, name string, outcomes, objectives *string) error
	Delete(ctx context.Context, id int64) error
}

// SyllabusService stores lesson PDFs in the object store and their metadata in the database.
type SyllabusService struct {
	repo      lessonRepository
	objects   storage.ObjectStore
	cleaner   orphanScheduler
	cache     *CacheService
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	maxBytes  int64
	now       func() time.Time
}

// NewSyllabusService constructs a SyllabusService.
func NewSyllabusService(repo lessonRepository, objects storage.ObjectStore, cleaner orphanScheduler, cache *CacheService, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, maxBytes int64) *SyllabusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBytes <= 0 {
		maxBytes = defaultSyllabusMaxSize
	}
	return &SyllabusService{
		repo:      repo,
		objects:   objects,
		cleaner:   cleaner,
		cache:     cache,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

// Create uploads the PDF and records the lesson.
func (s *SyllabusService) Create(ctx context.Context, req dto.CreateSyllabusRequest) (*models.Lesson, error) {
	req.LessonName = strings.TrimSpace(req.LessonName)
	if err := s.validator.Struct(req); err != nil || req.File.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId, subject_id, lessonName and a PDF file are required")
	}
	if req.IsForAllSchools {
		req.SchoolID = nil
	} else if req.SchoolID == nil || *req.SchoolID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolId is required unless the lesson is for all schools")
	}
	if int64(len(req.File.Data)) > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "PDF exceeds the maximum upload size")
	}
	if !storage.IsPDF(req.File.Data) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only PDF files are allowed")
	}

	key := storage.TimestampKey(storage.PrefixLessons, req.File.Filename, s.now())
	obj, err := s.objects.Put(ctx, key, req.File.Data, "application/pdf")
	s.metrics.RecordUpload(uploadKindLesson, err)
	if err != nil {
		s.logger.Error("syllabus upload failed", zap.String("key", key), zap.Error(err))
		return nil, appErrors.WrapAs(appErrors.ErrStorage, err)
	}

	subjectID := req.SubjectID
	lesson := &models.Lesson{
		LessonName:       req.LessonName,
		PDFURL:           obj.URL,
		ObjectKey:        obj.Key,
		ClassID:          req.ClassID,
		SubjectID:        &subjectID,
		SchoolID:         req.SchoolID,
		IsForAllSchools:  req.IsForAllSchools,
		LessonOutcomes:   normalizeOptional(req.LessonOutcomes),
		LessonObjectives: normalizeOptional(req.LessonObjectives),
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		if s.cleaner != nil {
			s.cleaner.Schedule(obj.Key)
		}
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "class, subject or school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save syllabus")
	}

	s.cache.Invalidate(ctx, cacheKeyDashboardStats)
	s.logger.Info("syllabus uploaded", zap.Int64("lesson_id", lesson.ID), zap.String("key", obj.Key))
	return lesson, nil
}

// ListByClass returns the lessons of one class.
func (s *SyllabusService) ListByClass(ctx context.Context, classID int64) ([]models.LessonView, error) {
	if classID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}
	records, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list syllabuses")
	}
	return s.views(records), nil
}

// ListAll returns every lesson.
func (s *SyllabusService) ListAll(ctx context.Context) ([]models.LessonView, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list syllabuses")
	}
	return s.views(records), nil
}

// Update renames a lesson and optionally replaces outcomes and objectives.
func (s *SyllabusService) Update(ctx context.Context, id int64, req dto.UpdateSyllabusRequest) (*models.LessonView, error) {
	req.LessonName = strings.TrimSpace(req.LessonName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "lessonName is required")
	}
	if err := s.repo.UpdateDetails(ctx, id, req.LessonName, req.LessonOutcomes, req.LessonObjectives); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "syllabus not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update syllabus")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load syllabus")
	}
	view := s.view(*record)
	return &view, nil
}

// Delete removes the stored PDF and then the lesson row. The row is kept when the object
// cannot be deleted.
func (s *SyllabusService) Delete(ctx context.Context, id int64) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "syllabus not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load syllabus")
	}
	if record.ObjectKey != "" {
		if err := s.objects.Delete(ctx, record.ObjectKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Error("syllabus object delete failed", zap.Int64("lesson_id", id), zap.Error(err))
			return appErrors.WrapAs(appErrors.ErrStorage, err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "syllabus not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete syllabus")
	}
	s.cache.Invalidate(ctx, cacheKeyDashboardStats)
	return nil
}

func (s *SyllabusService) views(records []models.LessonRecord) []models.LessonView {
	views := make([]models.LessonView, 0, len(records))
	for _, record := range records {
		views = append(views, s.view(record))
	}
	return views
}

func (s *SyllabusService) view(record models.LessonRecord) models.LessonView {
	url := record.PDFURL
	if record.ObjectKey != "" {
		if fresh, err := s.objects.URL(record.ObjectKey); err == nil {
			url = fresh
		}
	}
	schoolName := valueOr(record.SchoolName, labelUnknown)
	if record.IsForAllSchools {
		schoolName = labelAllSchools
	}
	return models.LessonView{
		ID:               record.ID,
		LessonName:       record.LessonName,
		PDFURL:           url,
		ClassID:          record.ClassID,
		ClassName:        valueOr(record.ClassName, labelUnknown),
		SchoolID:         record.SchoolID,
		SchoolName:       schoolName,
		SubjectID:        record.SubjectID,
		SubjectName:      valueOr(record.SubjectName, labelNotAssigned),
		IsForAllSchools:  record.IsForAllSchools,
		LessonOutcomes:   record.LessonOutcomes,
		LessonObjectives: record.LessonObjectives,
		CreatedAt:        record.CreatedAt,
	}
}

func valueOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}
