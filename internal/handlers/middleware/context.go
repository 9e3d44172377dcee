package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	"github.com/rafabene/scribe-backend/internal/domain/ports"
)

const (
	// RequestIDContextKey guarda o id da requisição
	RequestIDContextKey = "request_id"
	// LoggerContextKey guarda o logger com o request id já anexado
	LoggerContextKey = "logger"
	// IdentityContextKey guarda a identidade resolvida pelo Authenticate
	IdentityContextKey = "identity"
)

// ErrorResponder escreve a resposta de erro para err e aborta a cadeia
type ErrorResponder func(c *gin.Context, err error)

// GetIdentity retorna a identidade autenticada da requisição
func GetIdentity(c *gin.Context) (*entities.Identity, bool) {
	value, exists := c.Get(IdentityContextKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*entities.Identity)
	return identity, ok && identity != nil
}

// GetLogger retorna o logger da requisição, ou fallback fora de uma
func GetLogger(c *gin.Context, fallback ports.Logger) ports.Logger {
	if value, exists := c.Get(LoggerContextKey); exists {
		if logger, ok := value.(ports.Logger); ok {
			return logger
		}
	}
	return fallback
}

// GetRequestID retorna o id da requisição atual
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}
