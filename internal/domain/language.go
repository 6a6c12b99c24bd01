package domain

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"

	DefaultLanguage = LanguageEnglish
)

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageArabic
}

// Toggled returns the other supported language.
func (l Language) Toggled() Language {
	if l == LanguageEnglish {
		return LanguageArabic
	}
	return LanguageEnglish
}

// Direction is the text direction, "rtl" for Arabic.
func (l Language) Direction() string {
	if l == LanguageArabic {
		return "rtl"
	}
	return "ltr"
}

type Preferences struct {
	Language Language
}
