package domain

// Upstream feeds arrive as loosely-typed JSON; these accessors tolerate
// missing keys and wrong types so a malformed entry degrades to an absent
// field instead of an error.

func StringField(record map[string]any, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

func NumberField(record map[string]any, key string) (float64, bool) {
	switch v := record[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func MapField(record map[string]any, key string) map[string]any {
	if v, ok := record[key].(map[string]any); ok {
		return v
	}
	return nil
}

func ListField(record map[string]any, key string) []any {
	if v, ok := record[key].([]any); ok {
		return v
	}
	return nil
}
