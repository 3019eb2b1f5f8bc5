package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Keys of the envelope meta written by the cached read endpoints.
const (
	MetaCacheHit       = "cache_hit"
	MetaProcessingTime = "processing_time_ms"
)

const (
	metaContextKey    = "portal.response_meta"
	startedContextKey = "portal.request_started"
)

// WithResponseMeta stamps the request start so ExtractMeta can report processing time.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(startedContextKey, time.Now())
		c.Set(metaContextKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the payload was served from redis.
func SetCacheHit(c *gin.Context, hit bool) {
	if c == nil {
		return
	}
	metaFor(c)[MetaCacheHit] = hit
}

// ExtractMeta returns the meta recorded for this request, or nil when nothing was recorded.
// processing_time_ms is measured up to this call, so handlers call it right before writing.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	raw, ok := c.Get(metaContextKey)
	if !ok {
		return nil
	}
	meta, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	if started, ok := c.Get(startedContextKey); ok {
		if t, ok := started.(time.Time); ok {
			meta[MetaProcessingTime] = time.Since(t).Milliseconds()
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

func metaFor(c *gin.Context) map[string]interface{} {
	if raw, ok := c.Get(metaContextKey); ok {
		if meta, ok := raw.(map[string]interface{}); ok {
			return meta
		}
	}
	meta := make(map[string]interface{})
	c.Set(metaContextKey, meta)
	return meta
}
