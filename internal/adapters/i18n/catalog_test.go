package i18n

import (
	"testing"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookup(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	testCases := []struct {
		name   string
		lang   domain.Language
		key    string
		want   string
		wantOK bool
	}{
		{name: "english", lang: domain.LanguageEnglish, key: "login", want: "Login", wantOK: true},
		{name: "arabic", lang: domain.LanguageArabic, key: "login", want: "تسجيل الدخول", wantOK: true},
		{name: "status key", lang: domain.LanguageEnglish, key: "notStarted", want: "Not Started", wantOK: true},
		{name: "missing key", lang: domain.LanguageEnglish, key: "doesNotExist"},
		{name: "unsupported language", lang: "fr", key: "login"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := catalog.Lookup(tc.lang, tc.key)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDictionariesShareKeys(t *testing.T) {
	t.Parallel()

	for key := range english {
		_, ok := arabic[key]
		assert.True(t, ok, "arabic dictionary misses %q", key)
	}
	for key := range arabic {
		_, ok := english[key]
		assert.True(t, ok, "english dictionary misses %q", key)
	}
}

func TestCatalogMatch(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	testCases := []struct {
		raw  string
		want domain.Language
	}{
		{raw: "en", want: domain.LanguageEnglish},
		{raw: "en-GB", want: domain.LanguageEnglish},
		{raw: "en_US", want: domain.LanguageEnglish},
		{raw: "ar", want: domain.LanguageArabic},
		{raw: "ar-EG", want: domain.LanguageArabic},
		{raw: " Arabic ", want: domain.LanguageArabic},
		{raw: "العربية", want: domain.LanguageArabic},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := catalog.Match(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCatalogMatchRejectsUnsupportedLanguages(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	for _, raw := range []string{"", "fr", "ja-JP", "not a tag"} {
		_, err := catalog.Match(raw)
		assert.ErrorIs(t, err, domain.ErrUnknownLanguage, raw)
	}
}
