package services

import (
	"context"
	"strings"

	"github.com/rafabene/scribe-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/domain/ports"
	"github.com/rafabene/scribe-backend/internal/domain/repositories"
)

// BillingService cria sessões de checkout de assinatura
type BillingService struct {
	userRepo repositories.UserRepository
	gateway  ports.PaymentGateway
	catalog  entities.PlanCatalog
	logger   ports.Logger
}

// NewBillingService cria um novo BillingService
func NewBillingService(
	userRepo repositories.UserRepository,
	gateway ports.PaymentGateway,
	catalog entities.PlanCatalog,
	logger ports.Logger,
) *BillingService {
	return &BillingService{
		userRepo: userRepo,
		gateway:  gateway,
		catalog:  catalog,
		logger:   logger,
	}
}

// Plans retorna o catálogo de planos
func (s *BillingService) Plans() []entities.Plan {
	return s.catalog.Plans()
}

// CreateCheckoutSession garante um cliente no processador e abre o checkout do price informado
func (s *BillingService) CreateCheckoutSession(ctx context.Context, identity *entities.Identity, priceID string) (*ports.CheckoutSession, error) {
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return nil, domainerrors.Validation(domainerrors.MsgUnknownPrice, nil)
	}

	plan, found := s.catalog.FindByPriceID(priceID)
	if !found && s.catalog.HasPaidPlans() {
		return nil, domainerrors.Validation(domainerrors.MsgUnknownPrice, nil)
	}

	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.NotFound(domainerrors.MsgUserNotFound)
	}

	customerID, err := s.ensureCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, ports.CheckoutInput{
		CustomerID: customerID,
		PriceID:    priceID,
		Plan:       string(plan.Status),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		"user_id", user.ID,
		"customer_id", customerID,
		"session_id", session.ID,
		"plan", plan.Status,
	)

	return session, nil
}

func (s *BillingService) ensureCustomer(ctx context.Context, user *entities.User) (string, error) {
	if user.HasStripeCustomer() {
		return *user.StripeCustomerID, nil
	}

	customerID, err := s.gateway.CreateCustomer(ctx, ports.CustomerInput{
		Email:          user.Email.String(),
		FirebaseUID:    user.FirebaseUID,
		IdempotencyKey: "customer-" + user.FirebaseUID,
	})
	if err != nil {
		return "", err
	}

	written, err := s.userRepo.SetStripeCustomerID(ctx, user.ID, customerID)
	if err != nil {
		return "", err
	}
	if written {
		return customerID, nil
	}

	// Outra requisição gravou um customer antes; o valor gravado prevalece
	current, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", domainerrors.NotFound(domainerrors.MsgUserNotFound)
	}
	if !current.HasStripeCustomer() {
		return "", domainerrors.Persistence(nil)
	}

	s.logger.Info("reusing stripe customer stored by concurrent request",
		"user_id", user.ID,
		"discarded_customer_id", customerID,
		"customer_id", *current.StripeCustomerID,
	)
	return *current.StripeCustomerID, nil
}
