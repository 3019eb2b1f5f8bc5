package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
)

type fakeDashboardSrv struct {
	stats      *models.DashboardStats
	hit        bool
	err        error
	principals []models.PrincipalActivity
	teachers   []models.TeacherActivity
}

func (f *fakeDashboardSrv) Stats(context.Context) (*models.DashboardStats, bool, error) {
	return f.stats, f.hit, f.err
}

func (f *fakeDashboardSrv) ActivePrincipals(context.Context) ([]models.PrincipalActivity, error) {
	return f.principals, f.err
}

func (f *fakeDashboardSrv) ActiveTeachers(context.Context) ([]models.TeacherActivity, error) {
	return f.teachers, f.err
}

func TestDashboardHandlerStatsReportsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{stats: &models.DashboardStats{Schools: 3}, hit: true})

	router := gin.New()
	router.Use(middleware.WithResponseMeta())
	router.GET("/dashboard/stats", handler.Stats)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Contains(t, env.Meta, "processing_time_ms")
	assert.Contains(t, string(env.Data), `"schools":3`)
}

func TestDashboardHandlerStatsWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(nil)

	c, w := newGinContext(http.MethodGet, "/dashboard/stats", nil)
	handler.Stats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDashboardHandlerActivity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		principals: []models.PrincipalActivity{{SchoolName: "Green Valley"}},
		teachers:   []models.TeacherActivity{},
	})

	c, w := newGinContext(http.MethodGet, "/activity/principals", nil)
	handler.Principals(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Green Valley")

	c, w = newGinContext(http.MethodGet, "/activity/teachers", nil)
	handler.Teachers(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
