package ports

import "context"

// VerifiedToken são os claims extraídos de um bearer token válido
type VerifiedToken struct {
	Subject string // identificador estável do provedor (firebase uid)
	Email   string // pode vir vazio
}

// TokenVerifier valida bearer tokens junto ao provedor de identidade
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*VerifiedToken, error)
}
