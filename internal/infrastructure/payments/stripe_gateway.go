package payments

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/domain/ports"
	"github.com/rafabene/scribe-backend/internal/infrastructure/config"
)

const metadataFirebaseUID = "firebase_uid"

// StripeGateway implementa ports.PaymentGateway sobre a API do Stripe
type StripeGateway struct {
	api        *client.API
	successURL string
	cancelURL  string
	logger     ports.Logger
}

// NewStripeGateway cria o gateway com timeout e retries de rede configurados.
// baseURL vazio usa a API pública do Stripe.
func NewStripeGateway(cfg config.StripeConfig, baseURL string, logger ports.Logger) *StripeGateway {
	backendConfig := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(int64(cfg.MaxRetries)),
		LeveledLogger:     &leveledLogger{logger: logger},
	}
	if baseURL != "" {
		backendConfig.URL = stripe.String(baseURL)
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	}

	return &StripeGateway{
		api:        client.New(cfg.SecretKey, backends),
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		logger:     logger,
	}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, input ports.CustomerInput) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if input.Email != "" {
		params.Email = stripe.String(input.Email)
	}
	params.AddMetadata(metadataFirebaseUID, input.FirebaseUID)
	if input.IdempotencyKey != "" {
		params.SetIdempotencyKey(input.IdempotencyKey)
	}

	customer, err := g.api.Customers.New(params)
	if err != nil {
		g.logger.Error("stripe customer creation failed", "firebase_uid", input.FirebaseUID, "error", err)
		return "", domainerrors.PaymentProvider(domainerrors.MsgCustomerCreation, err)
	}

	g.logger.Info("stripe customer created", "firebase_uid", input.FirebaseUID, "customer_id", customer.ID)
	return customer.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, input ports.CheckoutInput) (*ports.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(input.CustomerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(input.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}
	params.Context = ctx
	if input.Plan != "" {
		params.AddMetadata("plan", input.Plan)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		g.logger.Error("stripe checkout session creation failed", "customer_id", input.CustomerID, "error", err)
		return nil, domainerrors.PaymentProvider(domainerrors.MsgCheckoutCreation, err)
	}

	return &ports.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// leveledLogger adapta ports.Logger ao logger do cliente Stripe
type leveledLogger struct {
	logger ports.Logger
}

func (l *leveledLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *leveledLogger) Infof(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *leveledLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *leveledLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "stripe")
}
