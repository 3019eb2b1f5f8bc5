package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/export"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type completionService interface {
	Completion(ctx context.Context, schoolID int64) (*models.CompletionReport, error)
}

type completionExporter interface {
	CompletionReport(ctx context.Context, schoolID int64, format string) (*export.File, error)
}

type schoolOptionsService interface {
	Options(ctx context.Context) ([]models.SchoolOption, error)
}

// ReportHandler exposes the syllabus completion report.
type ReportHandler struct {
	reports  completionService
	exporter completionExporter
	schools  schoolOptionsService
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports completionService, exporter completionExporter, schools schoolOptionsService) *ReportHandler {
	return &ReportHandler{reports: reports, exporter: exporter, schools: schools}
}

// Schools godoc
// @Summary Schools available for completion reports
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/completion/schools [get]
func (h *ReportHandler) Schools(c *gin.Context) {
	options, err := h.schools.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// Completion godoc
// @Summary Syllabus completion report
// @Description Lessons visible to the school, each marked completed or incomplete
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.CompletionReportRequest true "School"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/completion [post]
func (h *ReportHandler) Completion(c *gin.Context) {
	var req dto.CompletionReportRequest
	if err := bindJSON(c, &req, "invalid report payload"); err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Completion(c.Request.Context(), req.SchoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export completion report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param schoolId path int true "School ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/completion/{schoolId}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	schoolID, err := pathID(c, "schoolId")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.CompletionReport(c.Request.Context(), schoolID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Name, file.ContentType, file.Data)
}
