package errors

import (
	"errors"
)

// Kinds de erro
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUnauthenticated = errors.New("error.unauthenticated")
	ErrValidation      = errors.New("error.validation")
	ErrNotFound        = errors.New("error.not_found")
	ErrConflict        = errors.New("error.conflict")
	ErrPersistence     = errors.New("error.persistence")
	ErrPaymentProvider = errors.New("error.payment_provider")
)

// Business errors (message IDs usados como DomainError.Message)
const (
	MsgInvalidToken          = "error.invalid_token"
	MsgMissingToken          = "error.missing_token"
	MsgUserNotFound          = "error.user_not_found"
	MsgProfileNotFound       = "error.profile_not_found"
	MsgPreferencesNotFound   = "error.preferences_not_found"
	MsgDuplicateUser         = "error.duplicate_user"
	MsgDuplicateRecord       = "error.duplicate_record"
	MsgConcurrentWrite       = "error.concurrent_write"
	MsgInvalidSubscription   = "error.invalid_subscription_status"
	MsgStoreFailure          = "error.store_failure"
	MsgUnknownPrice          = "error.unknown_price"
	MsgCustomerCreation      = "error.customer_creation_failed"
	MsgCheckoutCreation      = "error.checkout_creation_failed"
	MsgInvalidProfilePayload = "error.invalid_profile_payload"
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypePersistence  = "/problems/persistence-error"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypePayment      = "/problems/payment-error"
	ProblemTypeInternal     = "/problems/internal-error"
)

// DomainError representa um erro de domínio com contexto adicional.
// Kind é um dos sentinelas acima; Err é a causa original.
type DomainError struct {
	Kind    error
	Message string
	Err     error
}

// New cria um DomainError
func New(kind error, message string, err error) *DomainError {
	return &DomainError{Kind: kind, Message: message, Err: err}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap expõe kind e causa para errors.Is / errors.As
func (e *DomainError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Unauthenticated embrulha uma falha de verificação de credencial
func Unauthenticated(message string, err error) *DomainError {
	return New(ErrUnauthenticated, message, err)
}

// NotFound indica recurso inexistente
func NotFound(message string) *DomainError {
	return New(ErrNotFound, message, nil)
}

// Conflict indica violação de unicidade
func Conflict(message string, err error) *DomainError {
	return New(ErrConflict, message, err)
}

// Persistence indica falha genérica do banco
func Persistence(err error) *DomainError {
	return New(ErrPersistence, MsgStoreFailure, err)
}

// Validation indica entrada inválida
func Validation(message string, err error) *DomainError {
	return New(ErrValidation, message, err)
}

// PaymentProvider indica falha do processador de pagamento
func PaymentProvider(message string, err error) *DomainError {
	return New(ErrPaymentProvider, message, err)
}

// As extrai o DomainError de uma cadeia de erros
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
