package middleware

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/scribe-backend/internal/infrastructure/i18n"
)

const (
	// LanguageContextKey é a chave usada para armazenar o idioma no contexto do Gin
	LanguageContextKey = "language"
	// I18nServiceContextKey é a chave usada para armazenar o serviço i18n no contexto
	I18nServiceContextKey = "i18n_service"
)

// I18nMiddleware escolhe o idioma das mensagens de erro de cada requisição
type I18nMiddleware struct {
	i18nService *i18n.Service
}

// NewI18nMiddleware cria um novo middleware de i18n
func NewI18nMiddleware(i18nService *i18n.Service) *I18nMiddleware {
	return &I18nMiddleware{i18nService: i18nService}
}

// DetectLanguage resolve o idioma na ordem ?lang=, Accept-Language, idioma padrão
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := m.match(c.Query("lang"))

		if lang == "" {
			lang = m.parseAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		if lang == "" {
			lang = m.i18nService.GetDefaultLanguage()
		}

		c.Set(LanguageContextKey, lang)
		c.Set(I18nServiceContextKey, m.i18nService)

		c.Next()
	}
}

type weightedTag struct {
	tag    string
	weight float64
}

// parseAcceptLanguage devolve o idioma suportado de maior peso.
// Exemplo: "en;q=0.5,pt-BR" -> "pt-BR"
func (m *I18nMiddleware) parseAcceptLanguage(header string) string {
	if header == "" {
		return ""
	}

	var tags []weightedTag
	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if tag == "" || tag == "*" {
			continue
		}

		weight := 1.0
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(q, 64)
			if err != nil {
				continue
			}
			weight = parsed
		}
		if weight <= 0 {
			continue
		}

		tags = append(tags, weightedTag{tag: strings.TrimSpace(tag), weight: weight})
	}

	sort.SliceStable(tags, func(i, j int) bool { return tags[i].weight > tags[j].weight })

	for _, t := range tags {
		if lang := m.match(t.tag); lang != "" {
			return lang
		}
	}

	return ""
}

// match encontra o idioma suportado para uma tag; "pt" ou "pt-PT" caem em "pt-BR"
func (m *I18nMiddleware) match(tag string) string {
	if tag == "" {
		return ""
	}

	supported := m.i18nService.GetSupportedLanguages()
	for _, lang := range supported {
		if strings.EqualFold(lang, tag) {
			return lang
		}
	}

	base, _, _ := strings.Cut(tag, "-")
	for _, lang := range supported {
		langBase, _, _ := strings.Cut(lang, "-")
		if strings.EqualFold(langBase, base) {
			return lang
		}
	}

	return ""
}
