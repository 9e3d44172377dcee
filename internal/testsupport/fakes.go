package testsupport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rafabene/scribe-backend/internal/domain/ports"
)

// ErrUnknownToken é devolvido pelo FakeVerifier para tokens não registrados
var ErrUnknownToken = errors.New("token signature is invalid")

// FakeVerifier aceita apenas os tokens registrados com Register
type FakeVerifier struct {
	mu     sync.Mutex
	tokens map[string]ports.VerifiedToken
	Err    error // quando definido, toda verificação falha com ele
}

// NewFakeVerifier cria um FakeVerifier vazio
func NewFakeVerifier() *FakeVerifier {
	return &FakeVerifier{tokens: map[string]ports.VerifiedToken{}}
}

// Register associa um token a um subject e email
func (f *FakeVerifier) Register(token, subject, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = ports.VerifiedToken{Subject: subject, Email: email}
}

func (f *FakeVerifier) Verify(_ context.Context, token string) (*ports.VerifiedToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	verified, ok := f.tokens[token]
	if !ok {
		return nil, ErrUnknownToken
	}
	return &verified, nil
}

// FakeGateway simula o processador de pagamentos, incluindo idempotency keys
type FakeGateway struct {
	mu            sync.Mutex
	customerCalls int
	customers     map[string]string // idempotency key -> customer id
	Customers     []ports.CustomerInput
	Checkouts     []ports.CheckoutInput
	CustomerErr   error
	CheckoutErr   error
}

// NewFakeGateway cria um FakeGateway vazio
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{customers: map[string]string{}}
}

func (f *FakeGateway) CreateCustomer(_ context.Context, input ports.CustomerInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.customerCalls++
	f.Customers = append(f.Customers, input)
	if f.CustomerErr != nil {
		return "", f.CustomerErr
	}

	if id, ok := f.customers[input.IdempotencyKey]; ok && input.IdempotencyKey != "" {
		return id, nil
	}
	id := fmt.Sprintf("cus_test_%d", f.customerCalls)
	f.customers[input.IdempotencyKey] = id
	return id, nil
}

func (f *FakeGateway) CreateCheckoutSession(_ context.Context, input ports.CheckoutInput) (*ports.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Checkouts = append(f.Checkouts, input)
	if f.CheckoutErr != nil {
		return nil, f.CheckoutErr
	}

	id := fmt.Sprintf("cs_test_%d", len(f.Checkouts))
	return &ports.CheckoutSession{
		ID:  id,
		URL: "https://checkout.stripe.com/c/pay/" + id,
	}, nil
}

// CustomerCalls retorna quantas vezes CreateCustomer foi chamado
func (f *FakeGateway) CustomerCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customerCalls
}

// CheckoutCalls retorna quantas sessões foram criadas
func (f *FakeGateway) CheckoutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Checkouts)
}
