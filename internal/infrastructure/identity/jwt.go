package identity

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rafabene/scribe-backend/internal/domain/ports"
)

// Claims são os claims aceitos nos tokens HS256 de desenvolvimento
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier valida tokens HS256 assinados com um segredo compartilhado.
// Usado em desenvolvimento local e testes end-to-end no lugar do Firebase.
type JWTVerifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

// NewJWTVerifier cria um JWTVerifier; issuer e audience são opcionais
func NewJWTVerifier(secret, issuer, audience string) *JWTVerifier {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	return &JWTVerifier{secret: []byte(secret), opts: opts}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*ports.VerifiedToken, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return nil, invalidToken(err)
	}

	if claims.Subject == "" {
		return nil, invalidToken(errors.New("token has no subject"))
	}

	return &ports.VerifiedToken{
		Subject: claims.Subject,
		Email:   claims.Email,
	}, nil
}
