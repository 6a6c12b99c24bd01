package application

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hvacdesk/hv/internal/adapters/i18n"
	tomlrepo "github.com/hvacdesk/hv/internal/adapters/repo/toml"
	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports/mocks"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageServiceDefaultsToEnglish(t *testing.T) {
	prefs := mocks.NewMockPreferencesRepository(t)
	prefs.EXPECT().Load(mockAnyContext()).Return(domain.Preferences{}, nil)
	service := NewLanguageService(i18n.NewCatalog(), prefs, nil)

	assert.Equal(t, domain.LanguageEnglish, service.Load(context.Background()))
	assert.Equal(t, "Login", service.T("login"))
	assert.Equal(t, "missingKey", service.T("missingKey"))
}

func TestLanguageServiceFallsBackOnUnreadablePreferences(t *testing.T) {
	prefs := mocks.NewMockPreferencesRepository(t)
	prefs.EXPECT().Load(mockAnyContext()).Return(domain.Preferences{Language: "fr"}, errors.New("toml: bad"))
	service := NewLanguageService(i18n.NewCatalog(), prefs, nil)

	assert.Equal(t, domain.LanguageEnglish, service.Load(context.Background()))
}

func TestLanguageServiceSetMatchesTags(t *testing.T) {
	prefs := mocks.NewMockPreferencesRepository(t)
	prefs.EXPECT().Load(mockAnyContext()).Return(domain.Preferences{Language: domain.LanguageEnglish}, nil)
	prefs.EXPECT().Save(mockAnyContext(), domain.Preferences{Language: domain.LanguageArabic}).Return(nil).Once()
	service := NewLanguageService(i18n.NewCatalog(), prefs, nil)

	lang, err := service.Set(context.Background(), "ar-EG")
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageArabic, lang)
	assert.Equal(t, domain.LanguageArabic, service.Current())
	assert.Equal(t, "تسجيل الدخول", service.T("login"))

	_, err = service.Set(context.Background(), "fr")
	require.ErrorIs(t, err, domain.ErrUnknownLanguage)
	assert.Equal(t, domain.LanguageArabic, service.Current())
}

func TestLanguageServiceKeepsLanguageWhenSaveFails(t *testing.T) {
	prefs := mocks.NewMockPreferencesRepository(t)
	prefs.EXPECT().Load(mockAnyContext()).Return(domain.Preferences{}, nil)
	prefs.EXPECT().Save(mockAnyContext(), domain.Preferences{Language: domain.LanguageArabic}).Return(errors.New("read-only file system"))
	service := NewLanguageService(i18n.NewCatalog(), prefs, nil)

	_, err := service.Toggle(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.LanguageEnglish, service.Current())
}

func TestLanguageServiceTogglePersistsAcrossInstances(t *testing.T) {
	cfg := viper.New()
	cfg.Set(tomlrepo.PreferencesPathKey, filepath.Join(t.TempDir(), "preferences.toml"))
	repo, err := tomlrepo.NewRepository(cfg)
	require.NoError(t, err)

	first := NewLanguageService(i18n.NewCatalog(), repo, nil)
	first.Load(context.Background())
	lang, err := first.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageArabic, lang)

	second := NewLanguageService(i18n.NewCatalog(), repo, nil)
	assert.Equal(t, domain.LanguageArabic, second.Load(context.Background()))

	lang, err = second.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageEnglish, lang)
}
