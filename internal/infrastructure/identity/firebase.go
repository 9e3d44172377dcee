package identity

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/rafabene/scribe-backend/internal/domain/ports"
	"github.com/rafabene/scribe-backend/internal/infrastructure/config"
)

// idTokenVerifier é o subconjunto do auth.Client usado aqui
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier valida ID tokens emitidos pelo Firebase Auth
type FirebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier inicializa o Firebase Admin SDK.
// Credenciais: arquivo (GOOGLE_APPLICATION_CREDENTIALS), JSON em base64, ou ADC.
func NewFirebaseVerifier(ctx context.Context, cfg config.AuthConfig) (*FirebaseVerifier, error) {
	var opts []option.ClientOption

	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.ServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.ServiceAccountJSONBase64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not a valid base64 string")
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*ports.VerifiedToken, error) {
	if token == "" {
		return nil, invalidToken(errors.New("empty token"))
	}

	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if auth.IsIDTokenInvalid(err) || auth.IsIDTokenExpired(err) {
			return nil, invalidToken(err)
		}
		// Falha ao buscar chaves públicas etc.; o RetryingVerifier tenta de novo
		return nil, fmt.Errorf("firebase token verification: %w", err)
	}

	email, _ := decoded.Claims["email"].(string)

	return &ports.VerifiedToken{
		Subject: decoded.UID,
		Email:   email,
	}, nil
}
