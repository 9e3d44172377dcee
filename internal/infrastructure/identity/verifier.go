package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rafabene/scribe-backend/internal/domain/ports"
	"github.com/rafabene/scribe-backend/internal/infrastructure/config"
)

// ErrInvalidToken marca falhas do próprio token (formato, assinatura, expiração).
// Essas falhas nunca são repetidas.
var ErrInvalidToken = errors.New("invalid bearer token")

func invalidToken(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidToken, err)
}

// NewVerifier cria o verificador do provedor configurado, com timeout e retry
func NewVerifier(ctx context.Context, cfg config.AuthConfig, log ports.Logger) (ports.TokenVerifier, error) {
	var base ports.TokenVerifier

	switch cfg.Provider {
	case config.AuthProviderFirebase:
		fv, err := NewFirebaseVerifier(ctx, cfg)
		if err != nil {
			return nil, err
		}
		base = fv
	case config.AuthProviderJWT:
		base = NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	default:
		return nil, fmt.Errorf("unsupported auth provider %q", cfg.Provider)
	}

	log.Info("token verifier initialized",
		"provider", cfg.Provider,
		"timeout", cfg.Timeout.String(),
		"max_retries", cfg.MaxRetries,
	)

	return NewRetryingVerifier(base, RetryPolicy{
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: 100 * time.Millisecond,
	}, log), nil
}

// RetryPolicy limita o tempo e o número de tentativas de verificação
type RetryPolicy struct {
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
}

// RetryingVerifier aplica timeout e backoff exponencial a outro TokenVerifier
type RetryingVerifier struct {
	next   ports.TokenVerifier
	policy RetryPolicy
	logger ports.Logger
}

// NewRetryingVerifier cria um RetryingVerifier
func NewRetryingVerifier(next ports.TokenVerifier, policy RetryPolicy, logger ports.Logger) *RetryingVerifier {
	return &RetryingVerifier{next: next, policy: policy, logger: logger}
}

func (v *RetryingVerifier) Verify(ctx context.Context, token string) (*ports.VerifiedToken, error) {
	if v.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.policy.Timeout)
		defer cancel()
	}

	b := backoff.NewExponentialBackOff()
	if v.policy.InitialInterval > 0 {
		b.InitialInterval = v.policy.InitialInterval
	}

	attempt := 0
	var verified *ports.VerifiedToken
	operation := func() error {
		attempt++
		result, err := v.next.Verify(ctx, token)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) {
				return backoff.Permanent(err)
			}
			v.logger.Warn("token verification failed, retrying",
				"attempt", attempt,
				"error", err,
			)
			return err
		}
		verified = result
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(v.policy.MaxRetries, 0))), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return verified, nil
}
