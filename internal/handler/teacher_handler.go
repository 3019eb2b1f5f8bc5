package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type teacherRegistrar interface {
	Register(ctx context.Context, req dto.RegisterTeacherRequest) (*models.Teacher, error)
}

type teacherDirectory interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, error)
	Delete(ctx context.Context, id int64) error
}

// TeacherHandler exposes teacher onboarding and the teacher directory.
type TeacherHandler struct {
	registration  teacherRegistrar
	directory     teacherDirectory
	imageMaxBytes int64
}

// NewTeacherHandler constructs the handler. imageMaxBytes caps the profile image upload.
func NewTeacherHandler(registration teacherRegistrar, directory teacherDirectory, imageMaxBytes int64) *TeacherHandler {
	return &TeacherHandler{registration: registration, directory: directory, imageMaxBytes: imageMaxBytes}
}

// Register godoc
// @Summary Register teacher
// @Description Creates a teacher with subject/class assignments. Accepts JSON or multipart form data
// @Description using subjectClassMappings[i][subjectId], subjectClassMappings[i][classIds][j], sections[] and profileImage.
// @Tags Teachers
// @Accept json
// @Accept mpfd
// @Produce json
// @Param payload body dto.RegisterTeacherRequest false "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Register(c *gin.Context) {
	req, err := bindTeacherRegistration(c, h.imageMaxBytes)
	if err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.registration.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Teacher registered successfully", "teacher": teacher})
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param schoolId query int false "School ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	var filter models.TeacherFilter
	if c.Query("schoolId") != "" {
		schoolID, err := queryID(c, "schoolId")
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.SchoolID = &schoolID
	}
	teachers, err := h.directory.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// Delete godoc
// @Summary Delete teacher
// @Tags Teachers
// @Param id path int true "Teacher ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.directory.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
