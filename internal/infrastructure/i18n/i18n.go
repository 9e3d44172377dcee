package i18n

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"text/template"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// Service resolve mensagens de erro por idioma.
// Os catálogos são carregados uma vez e só lidos depois disso.
type Service struct {
	translations    map[string]map[string]string // [language][key]message
	defaultLanguage string
}

// NewService carrega os catálogos de localesDir; diretório vazio usa os catálogos embutidos
func NewService(localesDir, defaultLang string) (*Service, error) {
	if localesDir == "" {
		sub, err := fs.Sub(embeddedLocales, "locales")
		if err != nil {
			return nil, err
		}
		return NewServiceFromFS(sub, defaultLang)
	}
	return NewServiceFromFS(os.DirFS(localesDir), defaultLang)
}

// NewEmbeddedService usa os catálogos compilados no binário
func NewEmbeddedService(defaultLang string) (*Service, error) {
	return NewService("", defaultLang)
}

// NewServiceFromFS carrega todos os *.json da raiz de fsys; o nome do arquivo é o idioma
func NewServiceFromFS(fsys fs.FS, defaultLang string) (*Service, error) {
	s := &Service{
		translations:    make(map[string]map[string]string),
		defaultLanguage: defaultLang,
	}

	files, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to find locale files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}

	for _, file := range files {
		lang := strings.TrimSuffix(path.Base(file), ".json")

		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", file, err)
		}

		var catalog map[string]string
		if err := json.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to parse locale file %s: %w", file, err)
		}

		s.translations[lang] = catalog
	}

	if _, ok := s.translations[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %s not found in locale files", defaultLang)
	}

	return s, nil
}

// T traduz uma chave para o idioma informado, com fallback para o idioma padrão e depois para a própria chave.
// Parâmetros são interpolados como template ({{.Field}}).
func (s *Service) T(lang, key string, params ...map[string]any) string {
	message := s.lookup(lang, key)
	if message == "" {
		message = s.lookup(s.defaultLanguage, key)
	}
	if message == "" {
		return key
	}

	if len(params) == 0 || !strings.Contains(message, "{{") {
		return message
	}

	tmpl, err := template.New("msg").Parse(message)
	if err != nil {
		return message
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params[0]); err != nil {
		return message
	}

	return buf.String()
}

// Has indica se a chave existe no idioma padrão
func (s *Service) Has(key string) bool {
	return s.lookup(s.defaultLanguage, key) != ""
}

func (s *Service) lookup(lang, key string) string {
	if catalog, ok := s.translations[lang]; ok {
		return catalog[key]
	}
	return ""
}

// GetDefaultLanguage retorna o idioma padrão configurado
func (s *Service) GetDefaultLanguage() string {
	return s.defaultLanguage
}

// GetSupportedLanguages retorna os idiomas carregados, em ordem alfabética
func (s *Service) GetSupportedLanguages() []string {
	langs := make([]string, 0, len(s.translations))
	for lang := range s.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// IsLanguageSupported verifica se um idioma é suportado
func (s *Service) IsLanguageSupported(lang string) bool {
	_, ok := s.translations[lang]
	return ok
}

// MissingKeys lista, por idioma, as chaves do idioma padrão ausentes nos demais catálogos
func (s *Service) MissingKeys() map[string][]string {
	missing := map[string][]string{}
	for lang, catalog := range s.translations {
		if lang == s.defaultLanguage {
			continue
		}
		for key := range s.translations[s.defaultLanguage] {
			if _, ok := catalog[key]; !ok {
				missing[lang] = append(missing[lang], key)
			}
		}
		sort.Strings(missing[lang])
	}
	return missing
}
