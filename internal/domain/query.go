package domain

import (
	"strings"
	"unicode"
)

// ValidationKind classifies raw query input.
type ValidationKind int

const (
	QueryEmpty ValidationKind = iota
	QueryValid
	QueryInvalid
)

func (k ValidationKind) String() string {
	switch k {
	case QueryEmpty:
		return "empty"
	case QueryValid:
		return "valid"
	case QueryInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ValidationResult is the outcome of ValidateQuery.
type ValidationResult struct {
	Kind ValidationKind
	// Query is the normalized text. Set for QueryValid, and for QueryInvalid
	// so callers can echo what was rejected.
	Query   string
	Message string
}

// Err returns a *ValidationError for invalid input and nil otherwise.
func (r ValidationResult) Err() error {
	if r.Kind != QueryInvalid {
		return nil
	}
	return NewValidationError("query", r.Message)
}

// NormalizeQuery lower-cases text and trims surrounding whitespace.
func NormalizeQuery(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}

// ValidateQuery classifies raw user input.
//
// Disallowed characters (anything other than ASCII letters and whitespace)
// take precedence over the one-word rule, so "big 2" reports symbols.
func ValidateQuery(raw string) ValidationResult {
	q := NormalizeQuery(raw)

	switch {
	case q == "":
		return ValidationResult{Kind: QueryEmpty}
	case strings.ContainsFunc(q, isDisallowed):
		return ValidationResult{Kind: QueryInvalid, Query: q, Message: MsgSymbols}
	case strings.ContainsFunc(q, unicode.IsSpace):
		return ValidationResult{Kind: QueryInvalid, Query: q, Message: MsgMultiWord}
	default:
		return ValidationResult{Kind: QueryValid, Query: q}
	}
}

func isDisallowed(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return false
	}
	return !unicode.IsSpace(r)
}
