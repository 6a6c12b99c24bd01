package ports

import "github.com/hvacdesk/hv/internal/domain"

type TranslationCatalog interface {
	Lookup(lang domain.Language, key string) (string, bool)
	// Match maps a language tag such as "ar-EG" to a supported language.
	Match(tag string) (domain.Language, error)
}
