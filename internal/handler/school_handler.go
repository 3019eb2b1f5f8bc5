package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type schoolService interface {
	Create(ctx context.Context, req dto.CreateSchoolRequest) (*models.School, error)
	List(ctx context.Context) ([]models.SchoolSummary, error)
	Options(ctx context.Context) ([]models.SchoolOption, error)
	Delete(ctx context.Context, id int64) error
}

// SchoolHandler manages school records.
type SchoolHandler struct {
	service       schoolService
	imageMaxBytes int64
}

// NewSchoolHandler constructs the handler.
func NewSchoolHandler(service schoolService, imageMaxBytes int64) *SchoolHandler {
	return &SchoolHandler{service: service, imageMaxBytes: imageMaxBytes}
}

// Create godoc
// @Summary Create school
// @Description Registers a school. Accepts JSON or multipart form data with an optional logo file.
// @Tags Schools
// @Accept json
// @Accept mpfd
// @Produce json
// @Param payload body dto.CreateSchoolRequest true "School payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schools [post]
func (h *SchoolHandler) Create(c *gin.Context) {
	var req dto.CreateSchoolRequest
	if isMultipart(c) {
		form, err := parseMultipart(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		values := form.Value
		req.Name = formValue(values, "name")
		req.Email = formValue(values, "email")
		req.Password = formValue(values, "password")
		req.Address = formOptional(values, "address")
		req.PrincipalName = formOptional(values, "principal_name")
		req.Location = formOptional(values, "location")
		req.SchoolAddress = formOptional(values, "school_address")
		if req.Logo, err = readUpload(form, "logo", h.imageMaxBytes); err != nil {
			response.Error(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload"))
		return
	}

	school, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, school)
}

// List godoc
// @Summary List schools
// @Tags Schools
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schools [get]
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schools, nil)
}

// Options godoc
// @Summary School options
// @Description Returns id and name pairs for selection lists
// @Tags Schools
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schools/options [get]
func (h *SchoolHandler) Options(c *gin.Context) {
	options, err := h.service.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// Delete godoc
// @Summary Delete school
// @Tags Schools
// @Param id path int true "School ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /schools/{id} [delete]
func (h *SchoolHandler) Delete(c *gin.Context) {
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
