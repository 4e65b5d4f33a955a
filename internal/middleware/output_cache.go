package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpaulosky/blogsite/internal/cache"
	"github.com/mpaulosky/blogsite/internal/metrics"
)

const cacheKeyPrefix = "output:"

// OutputCacheKey builds the cache key for a request path.
func OutputCacheKey(path string) string {
	return cacheKeyPrefix + path
}

type cachingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// OutputCache serves successful GET responses from the cache client with a
// short TTL. Anything other than an anonymous GET bypasses the cache.
// Cache failures degrade to a miss.
func OutputCache(client *cache.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !client.Enabled() || c.Request.Method != http.MethodGet || GetPrincipal(c) != nil {
			c.Next()
			return
		}

		key := OutputCacheKey(c.Request.URL.RequestURI())

		if body, _ := client.Get(c.Request.Context(), key); body != nil {
			metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()

		w := &cachingWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if c.Writer.Status() == http.StatusOK && w.body.Len() > 0 {
			_ = client.Set(c.Request.Context(), key, w.body.Bytes(), ttl)
		}
	}
}
