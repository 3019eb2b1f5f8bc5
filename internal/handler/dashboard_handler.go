package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, bool, error)
	ActivePrincipals(ctx context.Context) ([]models.PrincipalActivity, error)
	ActiveTeachers(ctx context.Context) ([]models.TeacherActivity, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats godoc
// @Summary Dashboard counters
// @Description Counts of schools, teachers, classes, subjects and lessons
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	stats, cacheHit, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ExtractMeta(c))
}

// Principals godoc
// @Summary Active principals
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /activity/principals [get]
func (h *DashboardHandler) Principals(c *gin.Context) {
	items, err := h.service.ActivePrincipals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Teachers godoc
// @Summary Active teachers
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /activity/teachers [get]
func (h *DashboardHandler) Teachers(c *gin.Context) {
	items, err := h.service.ActiveTeachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
