package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("en")
	require.NoError(t, err)
	assert.Equal(t, LanguageEnglish, lang)

	lang, err = ParseLanguage("ur")
	require.NoError(t, err)
	assert.Equal(t, LanguageUrdu, lang)
}

func TestParseLanguageDefaultsToEnglish(t *testing.T) {
	lang, err := ParseLanguage("")
	require.NoError(t, err)
	assert.Equal(t, LanguageEnglish, lang)
}

func TestParseLanguageRejectsUnknownCodes(t *testing.T) {
	for _, code := range []string{"fr", "EN", "urdu", "e"} {
		_, err := ParseLanguage(code)
		assert.Error(t, err, "code %q", code)
	}
}
