package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "dashboard:stats", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "dashboard:stats", map[string]int{"schools": 1}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "dashboard:stats"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}
