package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type bulletinRepository interface {
	ListJobPosts(ctx context.Context) ([]models.JobPost, error)
	ListNotifications(ctx context.Context) ([]models.Notification, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// BulletinService exposes job posts and admin notifications.
type BulletinService struct {
	repo      bulletinRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBulletinService constructs a BulletinService.
func NewBulletinService(repo bulletinRepository, validate *validator.Validate, logger *zap.Logger) *BulletinService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulletinService{repo: repo, validator: validate, logger: logger}
}

// JobPosts lists job posts, newest first.
func (s *BulletinService) JobPosts(ctx context.Context) ([]models.JobPost, error) {
	posts, err := s.repo.ListJobPosts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list job posts")
	}
	if posts == nil {
		posts = []models.JobPost{}
	}
	return posts, nil
}

// Notifications lists notifications, newest first.
func (s *BulletinService) Notifications(ctx context.Context) ([]models.Notification, error) {
	items, err := s.repo.ListNotifications(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}

// Notify publishes a notification.
func (s *BulletinService) Notify(ctx context.Context, req dto.CreateNotificationRequest) (*models.Notification, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Type = strings.TrimSpace(req.Type)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title and type are required")
	}
	n := &models.Notification{Title: req.Title, Type: req.Type, Message: normalizeOptional(req.Message)}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	s.logger.Info("notification published", zap.Int64("notification_id", n.ID), zap.String("type", n.Type))
	return n, nil
}
