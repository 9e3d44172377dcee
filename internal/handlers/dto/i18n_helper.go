package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/scribe-backend/internal/handlers/middleware"
	"github.com/rafabene/scribe-backend/internal/infrastructure/i18n"
)

// T traduz key no idioma da requisição; sem serviço i18n no contexto, devolve a chave
func T(c *gin.Context, key string, params ...map[string]any) string {
	value, exists := c.Get(middleware.I18nServiceContextKey)
	if !exists {
		return key
	}

	service, ok := value.(*i18n.Service)
	if !ok {
		return key
	}

	return service.T(GetLanguage(c), key, params...)
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(middleware.LanguageContextKey); lang != "" {
		return lang
	}
	return "en"
}
