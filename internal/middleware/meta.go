package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	metaKey      = "response_meta"
	metaStartKey = "response_meta_start"
)

// ResponseMeta attaches a metadata map to each request. Handlers add to it and the response
// envelope carries it; the store mode is always present.
func ResponseMeta(mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metaStartKey, time.Now())
		c.Set(metaKey, map[string]interface{}{"mode": mode})
		c.Next()
	}
}

// SetCacheHit records whether the response was served from the catalog cache.
func SetCacheHit(c *gin.Context, hit bool) {
	meta(c)["cache_hit"] = hit
}

// Meta returns the request's metadata stamped with the time spent so far.
func Meta(c *gin.Context) map[string]interface{} {
	m := meta(c)
	if v, ok := c.Get(metaStartKey); ok {
		if start, ok := v.(time.Time); ok {
			m["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
	return m
}

func meta(c *gin.Context) map[string]interface{} {
	if v, ok := c.Get(metaKey); ok {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
	}
	m := make(map[string]interface{})
	c.Set(metaKey, m)
	return m
}
