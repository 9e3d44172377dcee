package ports

import "context"

// CustomerInput são os dados enviados ao criar um cliente no processador
type CustomerInput struct {
	Email          string
	FirebaseUID    string
	IdempotencyKey string
}

// CheckoutInput descreve uma sessão de checkout de assinatura
type CheckoutInput struct {
	CustomerID string
	PriceID    string
	Plan       string
}

// CheckoutSession é a sessão hospedada pelo processador
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentGateway abstrai o processador de pagamentos
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (string, error)
	CreateCheckoutSession(ctx context.Context, input CheckoutInput) (*CheckoutSession, error)
}
