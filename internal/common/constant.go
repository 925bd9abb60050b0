// Package common contains shared constants and sentinel errors used across
// recipeshare components.
package common

// AccessTokenHeaderName is the legacy header that carries the access token.
// Requests may use it instead of "Authorization: Bearer <token>".
const AccessTokenHeaderName = "x-auth-token"

// RecipePageSize is the fixed number of recipes returned per feed page.
const RecipePageSize = 8

// SuggestionLimit caps the autocomplete result list.
const SuggestionLimit = 5

// MinSuggestionTermLength is the shortest trimmed term that triggers a
// suggestion lookup.
const MinSuggestionTermLength = 2
