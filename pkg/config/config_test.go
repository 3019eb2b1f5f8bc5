package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Storage.MaxAttempts)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.SyllabusMaxBytes)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORAGE_DRIVER", "S3")
	v.Set("STORAGE_MAX_ATTEMPTS", 0)
	v.Set("ALLOWED_ORIGINS", "https://admin.example.com, ,https://portal.example.com")
	v.Set("DASHBOARD_CACHE_TTL", "not-a-duration")

	cfg := fromViper(v)
	assert.Equal(t, StorageDriverS3, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Storage.MaxAttempts)
	assert.Equal(t, []string{"https://admin.example.com", "https://portal.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
}
