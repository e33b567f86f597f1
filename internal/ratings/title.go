package ratings

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase upper-cases the first letter of every space-separated word
// of a trimmed query, e.g. "black mirror" -> "Black Mirror". The rest of
// each word is left as typed, so "spider-man" stays "Spider-man".
func TitleCase(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	upper := cases.Upper(language.Und)
	words := strings.Split(query, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}
