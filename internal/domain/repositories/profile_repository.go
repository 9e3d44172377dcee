package repositories

import (
	"context"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
)

// ProfileRepository define a persistência de UserProfile
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*entities.UserProfile, error)
	Create(ctx context.Context, profile *entities.UserProfile) error
	// Update aplica só os campos presentes no patch; ErrNotFound se não houver linha
	Update(ctx context.Context, userID uint, patch entities.ProfilePatch) (*entities.UserProfile, error)
}

// PreferencesRepository define a persistência de UserPreferences
type PreferencesRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*entities.UserPreferences, error)
	Create(ctx context.Context, prefs *entities.UserPreferences) error
	Update(ctx context.Context, userID uint, patch entities.PreferencesPatch) (*entities.UserPreferences, error)
}
