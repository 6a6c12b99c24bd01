package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports"
)

// LanguageService owns the active display language and its persisted value.
type LanguageService struct {
	catalog ports.TranslationCatalog
	prefs   ports.PreferencesRepository
	logger  *slog.Logger

	mu       sync.RWMutex
	language domain.Language
}

func NewLanguageService(catalog ports.TranslationCatalog, prefs ports.PreferencesRepository, logger *slog.Logger) *LanguageService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LanguageService{
		catalog:  catalog,
		prefs:    prefs,
		logger:   logger.With("component", "language_service"),
		language: domain.DefaultLanguage,
	}
}

// Load reads the persisted language. Unreadable or unknown values fall back
// to the default language.
func (s *LanguageService) Load(ctx context.Context) domain.Language {
	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load preferences failed", "error", err)
	}

	lang := prefs.Language
	if !lang.Valid() {
		lang = domain.DefaultLanguage
	}

	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()

	return lang
}

func (s *LanguageService) Current() domain.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.language
}

// T translates key in the current language. Missing keys render as the key.
func (s *LanguageService) T(key string) string {
	if value, ok := s.catalog.Lookup(s.Current(), key); ok {
		return value
	}
	return key
}

func (s *LanguageService) Set(ctx context.Context, tag string) (domain.Language, error) {
	lang, err := s.catalog.Match(tag)
	if err != nil {
		return s.Current(), err
	}

	if err := s.apply(ctx, lang); err != nil {
		return s.Current(), err
	}
	return lang, nil
}

func (s *LanguageService) Toggle(ctx context.Context) (domain.Language, error) {
	next := s.Current().Toggled()
	if err := s.apply(ctx, next); err != nil {
		return s.Current(), err
	}
	return next, nil
}

func (s *LanguageService) apply(ctx context.Context, lang domain.Language) error {
	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	prefs.Language = lang

	if err := s.prefs.Save(ctx, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()

	return nil
}
