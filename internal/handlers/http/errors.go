package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/scribe-backend/internal/domain/errors"
	"github.com/rafabene/scribe-backend/internal/domain/ports"
	"github.com/rafabene/scribe-backend/internal/handlers/dto"
	"github.com/rafabene/scribe-backend/internal/handlers/middleware"
)

// ErrorMapper converte erros de domínio em respostas RFC 7807
type ErrorMapper struct {
	logger ports.Logger
}

// NewErrorMapper cria um novo ErrorMapper
func NewErrorMapper(logger ports.Logger) *ErrorMapper {
	return &ErrorMapper{logger: logger}
}

type problemKind struct {
	kind        error
	status      int
	problemType string
}

var problemKinds = []problemKind{
	{domainerrors.ErrUnauthenticated, http.StatusUnauthorized, domainerrors.ProblemTypeUnauthorized},
	{domainerrors.ErrValidation, http.StatusBadRequest, domainerrors.ProblemTypeValidation},
	{domainerrors.ErrNotFound, http.StatusNotFound, domainerrors.ProblemTypeNotFound},
	{domainerrors.ErrConflict, http.StatusBadRequest, domainerrors.ProblemTypeConflict},
	{domainerrors.ErrPersistence, http.StatusBadRequest, domainerrors.ProblemTypePersistence},
	{domainerrors.ErrPaymentProvider, http.StatusInternalServerError, domainerrors.ProblemTypePayment},
}

// Respond escreve o problema correspondente a err e aborta a requisição
func (m *ErrorMapper) Respond(c *gin.Context, err error) {
	response := m.problemFor(c, err)
	log := middleware.GetLogger(c, m.logger)

	if response.Status >= http.StatusInternalServerError {
		log.Error("request failed", "status", response.Status, "error", err)
	} else {
		log.Warn("request rejected", "status", response.Status, "error", err)
	}

	if response.Status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	_ = c.Error(err)
	dto.WriteProblem(c, response)
}

// RespondValidation escreve um 400 com os erros de binding por campo
func (m *ErrorMapper) RespondValidation(c *gin.Context, err error) {
	middleware.GetLogger(c, m.logger).Warn("invalid request body", "error", err)
	dto.WriteProblem(c, dto.ValidationErrorResponseI18n(c, domainerrors.ProblemTypeValidation, dto.ValidationErrors(c, err)))
}

func (m *ErrorMapper) problemFor(c *gin.Context, err error) dto.ErrorResponse {
	de, ok := domainerrors.As(err)
	if !ok {
		// Erro inesperado: a mensagem original segue no detail
		return dto.NewErrorResponse(c, domainerrors.ProblemTypeInternal,
			dto.T(c, "error.internal.title"), http.StatusInternalServerError, err.Error())
	}

	for _, pk := range problemKinds {
		if !errors.Is(de.Kind, pk.kind) {
			continue
		}

		detail := dto.T(c, de.Message)
		if de.Err != nil && pk.kind != domainerrors.ErrValidation {
			detail += ": " + de.Err.Error()
		}
		return dto.NewErrorResponse(c, pk.problemType, dto.T(c, pk.kind.Error()+".title"), pk.status, detail)
	}

	return dto.NewErrorResponse(c, domainerrors.ProblemTypeInternal,
		dto.T(c, "error.internal.title"), http.StatusInternalServerError, err.Error())
}
