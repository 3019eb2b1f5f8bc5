package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type faqService interface {
	List(ctx context.Context) ([]models.FAQ, error)
	Create(ctx context.Context, req dto.CreateFAQRequest) (*models.FAQ, error)
	Answer(ctx context.Context, id int64, req dto.AnswerFAQRequest) (*models.FAQ, error)
	Delete(ctx context.Context, id int64) error
}

// FAQHandler exposes the question board.
type FAQHandler struct {
	service faqService
}

// NewFAQHandler constructs the handler.
func NewFAQHandler(service faqService) *FAQHandler {
	return &FAQHandler{service: service}
}

// List godoc
// @Summary List FAQs
// @Description Unanswered questions first, newest first within each group
// @Tags FAQ
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faqs [get]
func (h *FAQHandler) List(c *gin.Context) {
	faqs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faqs, nil)
}

// Create godoc
// @Summary Ask a question
// @Tags FAQ
// @Accept json
// @Produce json
// @Param payload body dto.CreateFAQRequest true "Question"
// @Success 201 {object} response.Envelope
// @Router /faqs [post]
func (h *FAQHandler) Create(c *gin.Context) {
	var req dto.CreateFAQRequest
	if err := bindJSON(c, &req, "invalid question payload"); err != nil {
		response.Error(c, err)
		return
	}
	faq, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faq)
}

// Answer godoc
// @Summary Answer a question
// @Tags FAQ
// @Accept json
// @Produce json
// @Param id path int true "FAQ ID"
// @Param payload body dto.AnswerFAQRequest true "Answer"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faqs/{id} [put]
func (h *FAQHandler) Answer(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AnswerFAQRequest
	if err := bindJSON(c, &req, "invalid answer payload"); err != nil {
		response.Error(c, err)
		return
	}
	faq, err := h.service.Answer(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faq, nil)
}

// Delete godoc
// @Summary Delete a question
// @Tags FAQ
// @Param id path int true "FAQ ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /faqs/{id} [delete]
func (h *FAQHandler) Delete(c *gin.Context) {
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
