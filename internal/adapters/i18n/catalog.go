package i18n

import (
	"fmt"
	"strings"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports"
	"golang.org/x/text/language"
)

// Catalog serves the built-in English and Arabic dictionaries.
type Catalog struct {
	dictionaries map[domain.Language]map[string]string
	supported    []domain.Language
	matcher      language.Matcher
}

var _ ports.TranslationCatalog = (*Catalog)(nil)

var languageNames = map[string]domain.Language{
	"english": domain.LanguageEnglish,
	"arabic":  domain.LanguageArabic,
	"العربية": domain.LanguageArabic,
}

func NewCatalog() *Catalog {
	return &Catalog{
		dictionaries: map[domain.Language]map[string]string{
			domain.LanguageEnglish: english,
			domain.LanguageArabic:  arabic,
		},
		supported: []domain.Language{domain.LanguageEnglish, domain.LanguageArabic},
		// The first tag is the matcher's fallback.
		matcher: language.NewMatcher([]language.Tag{language.English, language.Arabic}),
	}
}

func (c *Catalog) Lookup(lang domain.Language, key string) (string, bool) {
	dictionary, ok := c.dictionaries[lang]
	if !ok {
		return "", false
	}

	value, ok := dictionary[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (c *Catalog) Supported() []domain.Language {
	out := make([]domain.Language, len(c.supported))
	copy(out, c.supported)
	return out
}

// Match accepts BCP 47 tags ("ar", "ar-EG", "en_US") and plain language
// names. Tags that only match the fallback are rejected.
func (c *Catalog) Match(raw string) (domain.Language, error) {
	trimmed := strings.TrimSpace(raw)
	if lang, ok := languageNames[strings.ToLower(trimmed)]; ok {
		return lang, nil
	}

	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownLanguage, raw)
	}

	_, index, confidence := c.matcher.Match(tag)
	if confidence == language.No {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownLanguage, raw)
	}

	return c.supported[index], nil
}
