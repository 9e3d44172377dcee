package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/domain/ports"
	"github.com/rafabene/scribe-backend/internal/domain/repositories"
	"github.com/rafabene/scribe-backend/internal/domain/valueobjects"
)

// serializable isola as sequências "lê e cria se faltar"; a concorrência perdida
// volta como ErrConflict e o chamador relê
var serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

// IdentityService resolve bearer tokens para usuários locais, criando-os no primeiro acesso
type IdentityService struct {
	verifier ports.TokenVerifier
	userRepo repositories.UserRepository
	uow      ports.UnitOfWork
	logger   ports.Logger
}

// NewIdentityService cria um novo IdentityService
func NewIdentityService(
	verifier ports.TokenVerifier,
	userRepo repositories.UserRepository,
	uow ports.UnitOfWork,
	logger ports.Logger,
) *IdentityService {
	return &IdentityService{
		verifier: verifier,
		userRepo: userRepo,
		uow:      uow,
		logger:   logger,
	}
}

// Resolve verifica o token e devolve a identidade local do usuário
func (s *IdentityService) Resolve(ctx context.Context, token string) (*entities.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domainerrors.Unauthenticated(domainerrors.MsgMissingToken, nil)
	}

	verified, err := s.verifier.Verify(ctx, token)
	if err != nil {
		s.logger.Warn("token verification failed", "error", err)
		return nil, domainerrors.Unauthenticated(domainerrors.MsgInvalidToken, err)
	}

	user, err := s.userRepo.FindByFirebaseUID(ctx, verified.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user.Identity(), nil
	}

	return s.provision(ctx, verified)
}

func (s *IdentityService) provision(ctx context.Context, verified *ports.VerifiedToken) (*entities.Identity, error) {
	// O provedor já validou o claim
	user := entities.NewUser(verified.Subject, valueobjects.TrustedEmail(verified.Email))
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.Create(txCtx, user)
	}, serializable)
	if err == nil {
		s.logger.Info("user provisioned", "user_id", user.ID, "firebase_uid", user.FirebaseUID)
		return user.Identity(), nil
	}
	if !errors.Is(err, domainerrors.ErrConflict) {
		return nil, err
	}

	// Uma requisição concorrente criou o usuário primeiro
	winner, lookupErr := s.userRepo.FindByFirebaseUID(ctx, verified.Subject)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if winner == nil {
		s.logger.Warn("user provisioning conflict", "firebase_uid", verified.Subject, "error", err)
		return nil, err
	}

	return winner.Identity(), nil
}
