package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/scribe-backend/internal/domain/ports"
)

// Recovery captura panics, registra o stack e responde com um problema 500
func Recovery(logger ports.Logger, respond ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				GetLogger(c, logger).Error("panic recovered",
					"panic", fmt.Sprint(recovered),
					"stacktrace", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				if !c.Writer.Written() {
					respond(c, fmt.Errorf("panic: %v", recovered))
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
