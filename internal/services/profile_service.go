package services

import (
	"context"
	"errors"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/domain/ports"
	"github.com/rafabene/scribe-backend/internal/domain/repositories"
)

// ProfileService contém a lógica de leitura e atualização de perfil e preferências
type ProfileService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	prefsRepo   repositories.PreferencesRepository
	uow         ports.UnitOfWork
	logger      ports.Logger
}

// NewProfileService cria um novo ProfileService
func NewProfileService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	prefsRepo repositories.PreferencesRepository,
	uow ports.UnitOfWork,
	logger ports.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		prefsRepo:   prefsRepo,
		uow:         uow,
		logger:      logger,
	}
}

// UpdateProfileInput separa os campos recebidos por tabela de destino
type UpdateProfileInput struct {
	Profile     entities.ProfilePatch
	Preferences entities.PreferencesPatch
}

// GetProfile devolve perfil, preferências e assinatura, criando as linhas que faltarem
func (s *ProfileService) GetProfile(ctx context.Context, identity *entities.Identity) (*entities.ProfileView, error) {
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.NotFound(domainerrors.MsgUserNotFound)
	}

	var profile *entities.UserProfile
	var prefs *entities.UserPreferences
	err = s.withConflictRetry(ctx, user.ID, func(txCtx context.Context) error {
		var ensureErr error
		profile, prefs, ensureErr = s.ensureRows(txCtx, user.ID)
		return ensureErr
	})
	if err != nil {
		return nil, err
	}

	return &entities.ProfileView{
		Profile:             profile,
		Preferences:         prefs,
		SubscriptionStatus:  user.SubscriptionStatus,
		SubscriptionEndDate: user.SubscriptionEndDate,
	}, nil
}

// UpdateProfile aplica os campos presentes em user_profiles e user_preferences numa única transação
func (s *ProfileService) UpdateProfile(ctx context.Context, identity *entities.Identity, input UpdateProfileInput) error {
	s.logger.Debug("updating profile",
		"user_id", identity.UserID,
		"profile_fields", !input.Profile.IsEmpty(),
		"preference_fields", !input.Preferences.IsEmpty(),
	)

	return s.withConflictRetry(ctx, identity.UserID, func(txCtx context.Context) error {
		if _, _, err := s.ensureRows(txCtx, identity.UserID); err != nil {
			return err
		}

		if !input.Profile.IsEmpty() {
			if _, err := s.profileRepo.Update(txCtx, identity.UserID, input.Profile); err != nil {
				return err
			}
		}

		if !input.Preferences.IsEmpty() {
			if _, err := s.prefsRepo.Update(txCtx, identity.UserID, input.Preferences); err != nil {
				return err
			}
		}

		return nil
	})
}

// withConflictRetry executa fn numa transação e repete uma vez se outra
// requisição criou as mesmas linhas ao mesmo tempo
func (s *ProfileService) withConflictRetry(ctx context.Context, userID uint, fn func(context.Context) error) error {
	err := s.uow.WithTransaction(ctx, fn, serializable)
	if errors.Is(err, domainerrors.ErrConflict) {
		s.logger.Debug("concurrent profile creation, retrying", "user_id", userID)
		err = s.uow.WithTransaction(ctx, fn, serializable)
	}
	return err
}

func (s *ProfileService) ensureRows(ctx context.Context, userID uint) (*entities.UserProfile, *entities.UserPreferences, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		profile = &entities.UserProfile{UserID: userID}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, nil, err
		}
		s.logger.Info("profile created", "user_id", userID)
	}

	prefs, err := s.prefsRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if prefs == nil {
		prefs = entities.NewUserPreferences(userID)
		if err := s.prefsRepo.Create(ctx, prefs); err != nil {
			return nil, nil, err
		}
		s.logger.Info("preferences created", "user_id", userID)
	}

	return profile, prefs, nil
}
