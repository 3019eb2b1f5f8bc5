package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type mockFAQRepo struct {
	faqs map[int64]*models.FAQ
}

func (m *mockFAQRepo) List(context.Context) ([]models.FAQ, error) { return nil, nil }

func (m *mockFAQRepo) Create(_ context.Context, faq *models.FAQ) error {
	if m.faqs == nil {
		m.faqs = make(map[int64]*models.FAQ)
	}
	faq.ID = int64(len(m.faqs) + 1)
	faq.CreatedAt = time.Now()
	m.faqs[faq.ID] = faq
	return nil
}

func (m *mockFAQRepo) Answer(_ context.Context, id int64, answer string) (*models.FAQ, error) {
	faq, ok := m.faqs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	now := time.Now()
	faq.Answer = &answer
	faq.AnsweredAt = &now
	return faq, nil
}

func (m *mockFAQRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.faqs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.faqs, id)
	return nil
}

func TestFAQLifecycle(t *testing.T) {
	svc := NewFAQService(&mockFAQRepo{}, nil, nil)

	faqs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, faqs)

	_, err = svc.Create(context.Background(), dto.CreateFAQRequest{Question: "  "})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	faq, err := svc.Create(context.Background(), dto.CreateFAQRequest{Question: "How do I reset a teacher password?"})
	require.NoError(t, err)

	answered, err := svc.Answer(context.Background(), faq.ID, dto.AnswerFAQRequest{Answer: " Use the portal. "})
	require.NoError(t, err)
	require.NotNil(t, answered.Answer)
	assert.Equal(t, "Use the portal.", *answered.Answer)
	assert.NotNil(t, answered.AnsweredAt)

	_, err = svc.Answer(context.Background(), 99, dto.AnswerFAQRequest{Answer: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	require.NoError(t, svc.Delete(context.Background(), faq.ID))
	assert.True(t, errors.Is(svc.Delete(context.Background(), faq.ID), appErrors.ErrNotFound))
}
