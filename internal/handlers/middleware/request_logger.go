package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/scribe-backend/internal/domain/ports"
)

// RequestLogger registra uma linha por requisição, com nível pela classe do status
func RequestLogger(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if query != "" {
			args = append(args, "query", query)
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		log := GetLogger(c, logger)
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request completed", args...)
		case status >= http.StatusBadRequest:
			log.Warn("request completed", args...)
		default:
			log.Info("request completed", args...)
		}
	}
}
