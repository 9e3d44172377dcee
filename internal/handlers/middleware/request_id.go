package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rafabene/scribe-backend/internal/domain/ports"
)

// RequestIDHeader é ecoado na resposta e aceito na requisição
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID atribui um id a cada requisição e anexa um logger com esse id ao contexto
func RequestID(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(RequestIDContextKey, id)
		c.Set(LoggerContextKey, logger.With("request_id", id))
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
