package models

import "fmt"

// Language identifies one of the textbook's supported content languages.
// The prompt sets, fallback messages, and vector collections are all keyed
// off this type, so adding a language means extending every mapping that
// switches on it.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageUrdu    Language = "ur"
)

// Languages lists every supported language in a stable order.
var Languages = []Language{LanguageEnglish, LanguageUrdu}

// ParseLanguage validates a raw language code. An empty code defaults to
// English to match the public API contract.
func ParseLanguage(code string) (Language, error) {
	switch code {
	case "", string(LanguageEnglish):
		return LanguageEnglish, nil
	case string(LanguageUrdu):
		return LanguageUrdu, nil
	default:
		return "", fmt.Errorf("unsupported language code: %q", code)
	}
}

func (l Language) String() string {
	return string(l)
}
