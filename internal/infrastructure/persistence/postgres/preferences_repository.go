package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/domain/repositories"
)

// PreferencesRepository implementa repositories.PreferencesRepository
type PreferencesRepository struct {
	db *gorm.DB
}

// NewPreferencesRepository cria um novo PreferencesRepository
func NewPreferencesRepository(db *gorm.DB) repositories.PreferencesRepository {
	return &PreferencesRepository{db: db}
}

func (r *PreferencesRepository) FindByUserID(ctx context.Context, userID uint) (*entities.UserPreferences, error) {
	var model PreferencesModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, domainerrors.MsgConcurrentWrite)
	}

	return preferencesToEntity(&model), nil
}

func (r *PreferencesRepository) Create(ctx context.Context, prefs *entities.UserPreferences) error {
	theme := prefs.Theme
	if theme == "" {
		theme = entities.DefaultTheme
	}
	aiModel := prefs.AIModelPreference
	if aiModel == "" {
		aiModel = entities.DefaultAIModelPreference
	}

	model := &PreferencesModel{
		UserID:               prefs.UserID,
		Theme:                theme,
		WritingStyle:         prefs.WritingStyle,
		AIModelPreference:    aiModel,
		NotificationSettings: datatypes.JSON(prefs.NotificationSettings),
	}

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return translateError(err, domainerrors.MsgDuplicateRecord)
	}

	*prefs = *preferencesToEntity(model)
	return nil
}

func (r *PreferencesRepository) Update(ctx context.Context, userID uint, patch entities.PreferencesPatch) (*entities.UserPreferences, error) {
	if patch.IsEmpty() {
		return r.mustFind(ctx, userID)
	}

	updates := map[string]any{}
	for _, field := range patch.Null {
		switch field {
		case entities.PreferenceTheme:
			updates["theme"] = entities.DefaultTheme
		case entities.PreferenceAIModel:
			updates["ai_model_preference"] = entities.DefaultAIModelPreference
		case entities.PreferenceWritingStyle:
			updates["writing_style"] = nil
		case entities.PreferenceNotificationSettings:
			updates["notification_settings"] = nil
		}
	}
	if patch.Theme != nil {
		updates["theme"] = *patch.Theme
	}
	if patch.WritingStyle != nil {
		updates["writing_style"] = *patch.WritingStyle
	}
	if patch.AIModelPreference != nil {
		updates["ai_model_preference"] = *patch.AIModelPreference
	}
	if patch.NotificationSettings != nil {
		updates["notification_settings"] = datatypes.JSON(patch.NotificationSettings)
	}

	db := dbFromContext(ctx, r.db)
	result := db.Model(&PreferencesModel{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, domainerrors.MsgDuplicateRecord)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.NotFound(domainerrors.MsgPreferencesNotFound)
	}

	return r.mustFind(ctx, userID)
}

func (r *PreferencesRepository) mustFind(ctx context.Context, userID uint) (*entities.UserPreferences, error) {
	prefs, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, domainerrors.NotFound(domainerrors.MsgPreferencesNotFound)
	}
	return prefs, nil
}

func preferencesToEntity(model *PreferencesModel) *entities.UserPreferences {
	var settings json.RawMessage
	if len(model.NotificationSettings) > 0 {
		settings = json.RawMessage(model.NotificationSettings)
	}

	return &entities.UserPreferences{
		ID:                   model.ID,
		UserID:               model.UserID,
		Theme:                model.Theme,
		WritingStyle:         model.WritingStyle,
		AIModelPreference:    model.AIModelPreference,
		NotificationSettings: settings,
		CreatedAt:            time.Unix(model.CreatedAt, 0),
		UpdatedAt:            time.Unix(model.UpdatedAt, 0),
	}
}
