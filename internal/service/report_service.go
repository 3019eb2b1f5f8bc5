package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const (
	scopeAllSchools = "All Schools"
	scopeSchool     = "School"
)

type reportRepository interface {
	LessonsForSchool(ctx context.Context, schoolID int64) ([]models.ReportLesson, error)
	CompletedResponses(ctx context.Context, schoolID int64) ([]models.CompletedResponse, error)
}

type schoolFinder interface {
	FindByID(ctx context.Context, id int64) (*models.School, error)
}

// ReportService builds lesson completion reports for schools.
type ReportService struct {
	repo    reportRepository
	schools schoolFinder
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportRepository, schools schoolFinder, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, schools: schools, logger: logger, now: time.Now}
}

// Completion lists every lesson visible to the school and marks it completed when a completed
// class response carries the same lesson name. The earliest response wins.
func (s *ReportService) Completion(ctx context.Context, schoolID int64) (*models.CompletionReport, error) {
	if schoolID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolId is required")
	}
	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	lessons, err := s.repo.LessonsForSchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lessons")
	}
	responses, err := s.repo.CompletedResponses(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class responses")
	}

	completed := make(map[string]models.CompletedResponse, len(responses))
	for _, response := range responses {
		key := lessonKey(response.LessonName)
		if _, ok := completed[key]; !ok {
			completed[key] = response
		}
	}

	report := &models.CompletionReport{
		SchoolID:    school.ID,
		SchoolName:  school.Name,
		Total:       len(lessons),
		Rows:        make([]models.CompletionReportRow, 0, len(lessons)),
		GeneratedAt: s.now().UTC(),
	}
	for _, lesson := range lessons {
		row := models.CompletionReportRow{
			LessonID:    lesson.ID,
			LessonName:  lesson.LessonName,
			ClassName:   valueOr(lesson.ClassName, labelUnknown),
			SubjectName: valueOr(lesson.SubjectName, labelNotAssigned),
			Scope:       scopeSchool,
			Status:      models.CompletionIncomplete,
		}
		if lesson.IsForAllSchools {
			row.Scope = scopeAllSchools
		}
		if response, ok := completed[lessonKey(lesson.LessonName)]; ok {
			teacher := response.TeacherName
			at := response.SubmittedAt
			row.Status = models.CompletionCompleted
			row.CompletedBy = &teacher
			row.CompletedAt = &at
			report.Completed++
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func lessonKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
