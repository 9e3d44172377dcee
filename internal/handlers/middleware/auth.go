package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
)

// IdentityResolver transforma um bearer token em identidade local
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*entities.Identity, error)
}

// Authenticate exige um bearer token válido e guarda a identidade no contexto
func Authenticate(resolver IdentityResolver, respond ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respond(c, domainerrors.Unauthenticated(domainerrors.MsgMissingToken, nil))
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			respond(c, err)
			return
		}

		c.Set(IdentityContextKey, identity)
		if log := GetLogger(c, nil); log != nil {
			c.Set(LoggerContextKey, log.With("user_id", identity.UserID))
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
