package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type bulletinService interface {
	JobPosts(ctx context.Context) ([]models.JobPost, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
	Notify(ctx context.Context, req dto.CreateNotificationRequest) (*models.Notification, error)
}

// BulletinHandler serves job posts and notifications.
type BulletinHandler struct {
	service bulletinService
}

// NewBulletinHandler constructs the handler.
func NewBulletinHandler(service bulletinService) *BulletinHandler {
	return &BulletinHandler{service: service}
}

// JobPosts godoc
// @Summary List job posts
// @Tags Bulletin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /job-posts [get]
func (h *BulletinHandler) JobPosts(c *gin.Context) {
	posts, err := h.service.JobPosts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, nil)
}

// Notifications godoc
// @Summary List notifications
// @Tags Bulletin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *BulletinHandler) Notifications(c *gin.Context) {
	items, err := h.service.Notifications(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Notify godoc
// @Summary Publish notification
// @Tags Bulletin
// @Accept json
// @Produce json
// @Param payload body dto.CreateNotificationRequest true "Notification"
// @Success 201 {object} response.Envelope
// @Router /notifications [post]
func (h *BulletinHandler) Notify(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := bindJSON(c, &req, "invalid notification payload"); err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Notify(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}
