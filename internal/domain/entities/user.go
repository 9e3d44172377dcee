package entities

import (
	"time"

	"github.com/rafabene/scribe-backend/internal/domain/valueobjects"
)

// User representa um usuário do sistema, provisionado no primeiro login
type User struct {
	ID                  uint
	Email               valueobjects.Email
	FirebaseUID         string
	StripeCustomerID    *string
	SubscriptionStatus  SubscriptionStatus
	SubscriptionEndDate *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewUser cria um usuário recém-provisionado no plano gratuito
func NewUser(firebaseUID string, email valueobjects.Email) *User {
	return &User{
		Email:              email,
		FirebaseUID:        firebaseUID,
		SubscriptionStatus: SubscriptionFree,
	}
}

// HasStripeCustomer indica se o usuário já possui cliente no processador de pagamento
func (u *User) HasStripeCustomer() bool {
	return u.StripeCustomerID != nil && *u.StripeCustomerID != ""
}

// Identity retorna a projeção leve usada pelos handlers autenticados
func (u *User) Identity() *Identity {
	return &Identity{
		UserID:      u.ID,
		Email:       u.Email.String(),
		FirebaseUID: u.FirebaseUID,
	}
}

// Identity é o usuário local resolvido a partir de um bearer token
type Identity struct {
	UserID      uint
	Email       string
	FirebaseUID string
}
