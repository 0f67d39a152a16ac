package display

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperWords = map[string]bool{"id": true, "hp": true, "mp": true, "xp": true}

// Beautify turns a raw key into a display name: a leading run of digits
// and underscores is dropped, camelCase is split into words, and each word
// is capitalized. The words id, hp, mp and xp are upper-cased instead.
//
//	Beautify("_1hpRegen") == "HP Regen"
//	Beautify("xpBonus")   == "XP Bonus"
func Beautify(key string) string {
	clean := strings.TrimLeft(key, "_0123456789")

	var spaced strings.Builder
	for _, r := range clean {
		if unicode.IsUpper(r) {
			spaced.WriteByte(' ')
		}
		spaced.WriteRune(r)
	}

	words := strings.Split(strings.TrimSpace(spaced.String()), " ")
	for i, w := range words {
		if upperWords[strings.ToLower(w)] {
			words[i] = strings.ToUpper(w)
		} else {
			words[i] = capitalize(w)
		}
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first character and lower-cases the rest.
// Casers carry state, so each call builds its own.
func capitalize(w string) string {
	if w == "" {
		return w
	}
	_, n := utf8.DecodeRuneInString(w)
	return cases.Title(language.Und).String(w[:n]) + cases.Lower(language.Und).String(w[n:])
}
