package repositories

import (
	"context"
	"time"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
)

// UserRepository define a interface para persistência de usuários.
// Buscas devolvem (nil, nil) quando o registro não existe.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uint) (*entities.User, error)
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*entities.User, error)
	// SetStripeCustomerID grava o customer id apenas se ainda não houver um.
	// Retorna false quando outro valor já estava gravado.
	SetStripeCustomerID(ctx context.Context, userID uint, customerID string) (bool, error)
	UpdateSubscription(ctx context.Context, userID uint, status entities.SubscriptionStatus, endDate *time.Time) error
	Ping(ctx context.Context) error
}
