package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/domain/repositories"
	"github.com/rafabene/scribe-backend/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return translateError(err, domainerrors.MsgDuplicateUser)
	}

	user.ID = model.ID
	user.CreatedAt = time.Unix(model.CreatedAt, 0)
	user.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*entities.User, error) {
	return r.findOne(ctx, "firebase_uid = ?", firebaseUID)
}

func (r *UserRepository) SetStripeCustomerID(ctx context.Context, userID uint, customerID string) (bool, error) {
	db := dbFromContext(ctx, r.db)
	// Escrita condicional: só grava se ainda não houver customer
	result := db.Model(&UserModel{}).
		Where("id = ? AND stripe_customer_id IS NULL", userID).
		Update("stripe_customer_id", customerID)
	if result.Error != nil {
		return false, translateError(result.Error, domainerrors.MsgDuplicateRecord)
	}
	return result.RowsAffected == 1, nil
}

func (r *UserRepository) UpdateSubscription(ctx context.Context, userID uint, status entities.SubscriptionStatus, endDate *time.Time) error {
	if !status.IsValid() {
		return domainerrors.Validation(domainerrors.MsgInvalidSubscription, fmt.Errorf("status %q", status))
	}

	db := dbFromContext(ctx, r.db)
	result := db.Model(&UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"subscription_status":   string(status),
			"subscription_end_date": endDate,
		})
	if result.Error != nil {
		return translateError(result.Error, domainerrors.MsgDuplicateRecord)
	}
	if result.RowsAffected == 0 {
		return domainerrors.NotFound(domainerrors.MsgUserNotFound)
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*entities.User, error) {
	var model UserModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err, domainerrors.MsgConcurrentWrite)
	}

	return r.toEntity(&model), nil
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	var email *string
	if !user.Email.IsZero() {
		v := user.Email.String()
		email = &v
	}

	status := user.SubscriptionStatus
	if status == "" {
		status = entities.SubscriptionFree
	}

	return &UserModel{
		ID:                  user.ID,
		Email:               email,
		FirebaseUID:         user.FirebaseUID,
		StripeCustomerID:    user.StripeCustomerID,
		SubscriptionStatus:  string(status),
		SubscriptionEndDate: user.SubscriptionEndDate,
	}
}

func (r *UserRepository) toEntity(model *UserModel) *entities.User {
	var email valueobjects.Email
	if model.Email != nil {
		email = valueobjects.TrustedEmail(*model.Email)
	}

	return &entities.User{
		ID:                  model.ID,
		Email:               email,
		FirebaseUID:         model.FirebaseUID,
		StripeCustomerID:    model.StripeCustomerID,
		SubscriptionStatus:  entities.SubscriptionStatus(model.SubscriptionStatus),
		SubscriptionEndDate: model.SubscriptionEndDate,
		CreatedAt:           time.Unix(model.CreatedAt, 0),
		UpdatedAt:           time.Unix(model.UpdatedAt, 0),
	}
}
