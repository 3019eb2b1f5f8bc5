package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// multipart framing allowance on top of the file size limit
const formOverhead = 1 << 20

type syllabusService interface {
	Create(ctx context.Context, req dto.CreateSyllabusRequest) (*models.Lesson, error)
	ListByClass(ctx context.Context, classID int64) ([]models.LessonView, error)
	ListAll(ctx context.Context) ([]models.LessonView, error)
	Update(ctx context.Context, id int64, req dto.UpdateSyllabusRequest) (*models.LessonView, error)
	Delete(ctx context.Context, id int64) error
}

// SyllabusHandler serves lesson PDF uploads and listings.
type SyllabusHandler struct {
	service  syllabusService
	maxBytes int64
}

// NewSyllabusHandler constructs the handler. maxBytes bounds the request body read for uploads.
func NewSyllabusHandler(service syllabusService, maxBytes int64) *SyllabusHandler {
	return &SyllabusHandler{service: service, maxBytes: maxBytes}
}

// Create godoc
// @Summary Upload syllabus
// @Description Uploads a lesson PDF for a class and subject, scoped to one school or all schools.
// @Tags Syllabus
// @Accept mpfd
// @Produce json
// @Param file formData file true "Lesson PDF"
// @Param classId formData int true "Class ID"
// @Param subject_id formData int true "Subject ID"
// @Param lessonName formData string true "Lesson name"
// @Param schoolId formData int false "School ID (required unless isForAllSchools)"
// @Param isForAllSchools formData bool false "Publish to every school"
// @Param lessonoutcomes formData string false "Lesson outcomes"
// @Param lessonobjectives formData string false "Lesson objectives"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /syllabuses [post]
func (h *SyllabusHandler) Create(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+formOverhead)
	}
	form, err := parseMultipart(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	values := form.Value

	var req dto.CreateSyllabusRequest
	if req.ClassID, err = formInt64(values, "classId"); err != nil {
		response.Error(c, err)
		return
	}
	if req.SubjectID, err = formInt64(values, "subject_id"); err != nil {
		response.Error(c, err)
		return
	}
	req.LessonName = formValue(values, "lessonName")
	req.IsForAllSchools = formBool(values, "isForAllSchools")
	if !req.IsForAllSchools {
		schoolID, err := formInt64(values, "schoolId")
		if err != nil {
			response.Error(c, err)
			return
		}
		if schoolID > 0 {
			req.SchoolID = &schoolID
		}
	}
	req.LessonOutcomes = firstOptional(values, "lessonoutcomes", "lessonOutcomes")
	req.LessonObjectives = firstOptional(values, "lessonobjectives", "lessonObjectives")
	if req.File, err = readUpload(form, "file", 0); err != nil {
		response.Error(c, err)
		return
	}

	lesson, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Syllabus uploaded successfully", "lesson": lesson})
}

// ListByClass godoc
// @Summary List syllabus for a class
// @Tags Syllabus
// @Produce json
// @Param classId query int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /syllabuses [get]
func (h *SyllabusHandler) ListByClass(c *gin.Context) {
	classID, err := queryID(c, "classId")
	if err != nil {
		response.Error(c, err)
		return
	}
	lessons, err := h.service.ListByClass(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// ListAll godoc
// @Summary List every syllabus
// @Tags Syllabus
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /syllabuses/all [get]
func (h *SyllabusHandler) ListAll(c *gin.Context) {
	lessons, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// Update godoc
// @Summary Update syllabus
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param payload body dto.UpdateSyllabusRequest true "Lesson changes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /syllabuses/{id} [put]
func (h *SyllabusHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateSyllabusRequest
	if err := bindJSON(c, &req, "invalid syllabus payload"); err != nil {
		response.Error(c, err)
		return
	}
	lesson, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Delete godoc
// @Summary Delete syllabus
// @Description Removes the stored PDF, then the lesson row.
// @Tags Syllabus
// @Param id path int true "Lesson ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /syllabuses/{id} [delete]
func (h *SyllabusHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func firstOptional(form map[string][]string, keys ...string) *string {
	for _, key := range keys {
		if value := formOptional(form, key); value != nil {
			return value
		}
	}
	return nil
}
