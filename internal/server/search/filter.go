// Package search builds recipe filters from free-text terms and categories
// and holds the pagination arithmetic of the recipe feed.
//
// A search term is split on whitespace into tokens. A recipe matches when a
// single field (title, description, or one ingredient) contains every token
// as a case-insensitive substring, in any order. Tokens spread over
// different fields do not match.
package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
)

// Filter is the predicate over recipes built by BuildFilter.
type Filter struct {
	// Tokens are lowercased search tokens; empty means no text constraint.
	Tokens []string
	// Category is matched exactly; empty means any category.
	Category string
}

// BuildFilter constructs the Filter for a search term and category.
func BuildFilter(term, category string) Filter {
	f := Filter{Category: strings.TrimSpace(category)}
	for _, tok := range strings.Fields(term) {
		f.Tokens = append(f.Tokens, strings.ToLower(tok))
	}
	return f
}

// MatchesAll reports whether the filter places no constraint at all.
func (f Filter) MatchesAll() bool {
	return len(f.Tokens) == 0 && f.Category == ""
}

// Matches evaluates the filter against r in memory.
func (f Filter) Matches(r *models.Recipe) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if len(f.Tokens) == 0 {
		return true
	}
	if f.containsAll(r.Title) || f.containsAll(r.Description) {
		return true
	}
	for _, ing := range r.Ingredients {
		if f.containsAll(ing) {
			return true
		}
	}
	return false
}

func (f Filter) containsAll(field string) bool {
	lower := strings.ToLower(field)
	for _, tok := range f.Tokens {
		if !strings.Contains(lower, tok) {
			return false
		}
	}
	return true
}

// SQL renders the filter as a PostgreSQL boolean expression over the recipes
// table aliased as alias. Placeholders start at $firstArg; the returned args
// line up with them. Token placeholders are reused across fields.
func (f Filter) SQL(alias string, firstArg int) (string, []any) {
	if f.MatchesAll() {
		return "TRUE", nil
	}

	var (
		parts []string
		args  []any
		n     = firstArg
	)

	if len(f.Tokens) > 0 {
		placeholders := make([]string, len(f.Tokens))
		for i, tok := range f.Tokens {
			placeholders[i] = fmt.Sprintf("$%d", n)
			args = append(args, "%"+escapeLike(tok)+"%")
			n++
		}

		title := allILike(alias+".title", placeholders)
		description := allILike(alias+".description", placeholders)
		ingredient := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s.ingredients) AS ing(v) WHERE %s)",
			alias, allILike("ing.v", placeholders))

		parts = append(parts, fmt.Sprintf("(%s OR %s OR %s)", title, description, ingredient))
	}

	if f.Category != "" {
		parts = append(parts, fmt.Sprintf("%s.category = $%d", alias, n))
		args = append(args, f.Category)
	}

	return strings.Join(parts, " AND "), args
}

func allILike(column string, placeholders []string) string {
	conds := make([]string, len(placeholders))
	for i, p := range placeholders {
		conds[i] = column + " ILIKE " + p
	}
	return "(" + strings.Join(conds, " AND ") + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// EscapeLike exposes the LIKE escaping used by filters for other queries.
func EscapeLike(s string) string {
	return escapeLike(s)
}

// SuggestTerm trims term and reports whether it is long enough to look up.
func SuggestTerm(term string) (string, bool) {
	t := strings.TrimSpace(term)
	return t, utf8.RuneCountInString(t) >= common.MinSuggestionTermLength
}
