// Package utils provides small helpers for probing loosely-typed JSON
// documents decoded into map[string]any, as returned by the upstream API.
package utils

// GetString returns m[key] when it is a non-empty string.
func GetString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// GetFloat returns m[key] as a float64, accepting the numeric types
// encoding/json produces.
func GetFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// GetInt returns m[key] truncated to an int.
func GetInt(m map[string]any, key string) int {
	return int(GetFloat(m, key))
}

// GetMap returns m[key] when it is a nested object.
func GetMap(m map[string]any, key string) map[string]any {
	if nested, ok := m[key].(map[string]any); ok {
		return nested
	}
	return nil
}

// GetSlice returns m[key] when it is an array.
func GetSlice(m map[string]any, key string) []any {
	if s, ok := m[key].([]any); ok {
		return s
	}
	return nil
}
