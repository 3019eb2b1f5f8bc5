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

type faqRepository interface {
	List(ctx context.Context) ([]models.FAQ, error)
	Create(ctx context.Context, faq *models.FAQ) error
	Answer(ctx context.Context, id int64, answer string) (*models.FAQ, error)
	Delete(ctx context.Context, id int64) error
}

// FAQService manages school questions and admin answers.
type FAQService struct {
	repo      faqRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFAQService constructs a FAQService.
func NewFAQService(repo faqRepository, validate *validator.Validate, logger *zap.Logger) *FAQService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FAQService{repo: repo, validator: validate, logger: logger}
}

// List returns unanswered questions first, newest first within each group.
func (s *FAQService) List(ctx context.Context) ([]models.FAQ, error) {
	faqs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faqs")
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	return faqs, nil
}

// Create records a question.
func (s *FAQService) Create(ctx context.Context, req dto.CreateFAQRequest) (*models.FAQ, error) {
	req.Question = strings.TrimSpace(req.Question)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "question is required")
	}
	faq := &models.FAQ{Question: req.Question}
	if err := s.repo.Create(ctx, faq); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faq")
	}
	return faq, nil
}

// Answer stores the answer and stamps answered_at.
func (s *FAQService) Answer(ctx context.Context, id int64, req dto.AnswerFAQRequest) (*models.FAQ, error) {
	req.Answer = strings.TrimSpace(req.Answer)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "answer is required")
	}
	faq, err := s.repo.Answer(ctx, id, req.Answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faq not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to answer faq")
	}
	return faq, nil
}

// Delete removes a question.
func (s *FAQService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faq not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faq")
	}
	return nil
}
