package dto

import (
	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	"github.com/rafabene/scribe-backend/internal/handlers/middleware"
)

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs)
type ErrorResponse struct {
	*problems.Problem
	RequestID string            `json:"request_id,omitempty"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// StatusResponse é a confirmação simples de escrita
type StatusResponse struct {
	Status string `json:"status" example:"success"`
}

// NewErrorResponse monta um problema com type absoluto, instance e request id
func NewErrorResponse(c *gin.Context, problemType, title string, status int, detail string) ErrorResponse {
	problem := problems.NewDetailedProblem(status, detail).
		WithType(baseURL(c) + problemType).
		WithTitle(title).
		WithInstance(c.Request.URL.Path)

	return ErrorResponse{
		Problem:   problem,
		RequestID: middleware.GetRequestID(c),
	}
}

// NewErrorResponseI18n traduz título e detalhe antes de montar o problema
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, detailKey string, status int, params ...map[string]any) ErrorResponse {
	return NewErrorResponse(c, problemType, T(c, titleKey, params...), status, T(c, detailKey, params...))
}

// ValidationErrorResponseI18n cria uma resposta de erro de validação
func ValidationErrorResponseI18n(c *gin.Context, problemType string, validationErrors []ValidationError) ErrorResponse {
	response := NewErrorResponseI18n(c, problemType, "error.validation.title", "error.validation.detail", 400)
	response.Errors = validationErrors
	return response
}

// WriteProblem escreve o problema com o media type application/problem+json
func WriteProblem(c *gin.Context, response ErrorResponse) {
	c.Header("Content-Type", problems.ProblemMediaType)
	c.AbortWithStatusJSON(response.Status, response)
}

// baseURL vem da configuração (API_BASE_URL), registrada no contexto pelo router
func baseURL(c *gin.Context) string {
	if url := c.GetString(BaseURLContextKey); url != "" {
		return url
	}
	return "http://localhost:8000"
}

// BaseURLContextKey guarda a URL base usada nos types dos problemas
const BaseURLContextKey = "base_url"
