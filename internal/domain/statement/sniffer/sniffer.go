// Package sniffer provides lightweight detection over statement content:
// which institution issued a statement, and which table columns carry the
// transaction fields.
package sniffer

import (
	"strings"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/profile"
)

// Column role keywords matched against lowercased table headers.
var (
	dateKeywords   = []string{"date", "time"}
	amountKeywords = []string{"amount", "sum", "total", "payment", "deposit"}
	descKeywords   = []string{"desc", "transaction", "activity", "detail"}
)

// DetectInstitution guesses the issuing institution from first-page text.
// Every registered name is searched case-insensitively; the first registry
// match (insertion order) wins. When nothing matches, the caller-supplied
// hint is returned verbatim, without validating it against the registry.
// Detection never fails; the second return is false only when there is no
// textual match and no hint.
func DetectInstitution(reg *profile.Registry, firstPageText, hint string) (string, bool) {
	lower := strings.ToLower(firstPageText)
	for _, name := range reg.Names() {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name, true
		}
	}
	if hint != "" {
		return hint, true
	}
	return "", false
}

// Roles holds the column indices inferred for a recovered table.
// A value of -1 means the role was not identified.
type Roles struct {
	DateCol   int
	DescCol   int
	AmountCol int
}

// SuggestRoles classifies table columns by matching header text against the
// role keyword sets. The first matching column wins per role; a header that
// matches several roles counts only for the first in date > amount > desc
// order. When no description column is found but a date column exists and the
// table has more than two columns, the column after the date is used as the
// description.
func SuggestRoles(headers []string) Roles {
	roles := Roles{DateCol: -1, DescCol: -1, AmountCol: -1}

	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		if h == "" {
			continue
		}

		switch {
		case containsAny(h, dateKeywords):
			if roles.DateCol == -1 {
				roles.DateCol = i
			}
		case containsAny(h, amountKeywords):
			if roles.AmountCol == -1 {
				roles.AmountCol = i
			}
		case containsAny(h, descKeywords):
			if roles.DescCol == -1 {
				roles.DescCol = i
			}
		}
	}

	if roles.DescCol == -1 && roles.DateCol != -1 && len(headers) > 2 && roles.DateCol+1 < len(headers) {
		roles.DescCol = roles.DateCol + 1
	}

	return roles
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
