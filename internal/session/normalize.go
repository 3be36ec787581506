package session

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// normalizeQuery folds a search query to a form the catalog matches
// reliably: NFKD-decomposed with combining marks stripped, lowercased, and
// whitespace collapsed.
func normalizeQuery(query string) string {
	query = norm.NFKD.String(query)

	var b strings.Builder
	for _, r := range query {
		if unicode.IsMark(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(strings.ToLower(b.String())), " ")
}
