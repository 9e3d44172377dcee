package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/domain/repositories"
)

// ProfileRepository implementa repositories.ProfileRepository
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository cria um novo ProfileRepository
func NewProfileRepository(db *gorm.DB) repositories.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uint) (*entities.UserProfile, error) {
	var model ProfileModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, domainerrors.MsgConcurrentWrite)
	}

	return profileToEntity(&model), nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *entities.UserProfile) error {
	model := &ProfileModel{
		UserID:            profile.UserID,
		FullName:          profile.FullName,
		Bio:               profile.Bio,
		WritingExperience: profile.WritingExperience,
		GenreFocus:        profile.GenreFocus,
	}

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return translateError(err, domainerrors.MsgDuplicateRecord)
	}

	*profile = *profileToEntity(model)
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, userID uint, patch entities.ProfilePatch) (*entities.UserProfile, error) {
	if patch.IsEmpty() {
		return r.mustFind(ctx, userID)
	}

	updates := map[string]any{}
	for _, field := range patch.Null {
		updates[profileColumns[field]] = nil
	}
	if patch.FullName != nil {
		updates["full_name"] = *patch.FullName
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.WritingExperience != nil {
		updates["writing_experience"] = *patch.WritingExperience
	}
	if patch.GenreFocus != nil {
		updates["genre_focus"] = *patch.GenreFocus
	}

	db := dbFromContext(ctx, r.db)
	result := db.Model(&ProfileModel{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, domainerrors.MsgDuplicateRecord)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.NotFound(domainerrors.MsgProfileNotFound)
	}

	return r.mustFind(ctx, userID)
}

var profileColumns = map[entities.ProfileField]string{
	entities.ProfileFullName:          "full_name",
	entities.ProfileBio:               "bio",
	entities.ProfileWritingExperience: "writing_experience",
	entities.ProfileGenreFocus:        "genre_focus",
}

func (r *ProfileRepository) mustFind(ctx context.Context, userID uint) (*entities.UserProfile, error) {
	profile, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domainerrors.NotFound(domainerrors.MsgProfileNotFound)
	}
	return profile, nil
}

func profileToEntity(model *ProfileModel) *entities.UserProfile {
	return &entities.UserProfile{
		ID:                model.ID,
		UserID:            model.UserID,
		FullName:          model.FullName,
		Bio:               model.Bio,
		WritingExperience: model.WritingExperience,
		GenreFocus:        model.GenreFocus,
		CreatedAt:         time.Unix(model.CreatedAt, 0),
		UpdatedAt:         time.Unix(model.UpdatedAt, 0),
	}
}
