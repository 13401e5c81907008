package domain

import (
	"regexp"

	"github.com/google/uuid"
)

// IdentityField is the one key the sanitizer never drops, even when its value
// is a UUID. Identity cross-checks against upstream responses depend on it.
const IdentityField = "identifier"

// Upstream systems redact PII the caller is not allowed to see in full by
// replacing it with runs of masking characters ("****", "XXXX", "###", ...).
var maskingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\*+`),
	regexp.MustCompile(`x{3,}`),
	regexp.MustCompile(`X{3,}`),
	regexp.MustCompile(`##+`),
	regexp.MustCompile(`-{3,}`),
	regexp.MustCompile(`\.{3,}`),
}

// IsUUID reports whether value parses as a syntactically valid UUID.
func IsUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

// IsMaskedValue reports whether value looks like an upstream-redacted string.
func IsMaskedValue(value string) bool {
	for _, p := range maskingPatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// Sanitize removes null, empty, masked, and opaque-identifier values from a
// nested record. Nested maps are kept only if non-empty after cleaning; lists
// are filtered item by item and dropped when they empty out. The identity
// field is always preserved. The input is never mutated.
func Sanitize(record map[string]any) map[string]any {
	cleaned := make(map[string]any, len(record))

	for key, value := range record {
		if isEmptyValue(value) {
			continue
		}
		if key == IdentityField {
			cleaned[key] = value
			continue
		}

		switch v := value.(type) {
		case string:
			if IsUUID(v) || IsMaskedValue(v) {
				continue
			}
			cleaned[key] = v
		case map[string]any:
			if nested := Sanitize(v); len(nested) > 0 {
				cleaned[key] = nested
			}
		case []any:
			if list := sanitizeList(v); len(list) > 0 {
				cleaned[key] = list
			}
		default:
			cleaned[key] = value
		}
	}

	return cleaned
}

func sanitizeList(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if isEmptyValue(item) {
			continue
		}
		switch v := item.(type) {
		case string:
			if !IsUUID(v) && !IsMaskedValue(v) {
				out = append(out, v)
			}
		case map[string]any:
			if nested := Sanitize(v); len(nested) > 0 {
				out = append(out, nested)
			}
		case []any:
			if list := sanitizeList(v); len(list) > 0 {
				out = append(out, list)
			}
		default:
			out = append(out, item)
		}
	}
	return out
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}
