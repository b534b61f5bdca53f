package config

import (
	"strings"
	"unicode"
)

// ConvertKeys converts camelCase keys to snake_case, recursively. Maps
// sitting at tools.mcp_servers.<name>.env are copied key-for-key: their
// keys are environment variable names whose casing is significant.
func ConvertKeys(data any) any {
	return convertKeys(data, nil)
}

func convertKeys(data any, path []string) any {
	switch v := data.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, value := range v {
			if isMCPEnvPath(path) {
				out[k] = convertKeys(value, append(path, k))
				continue
			}
			key := CamelToSnake(k)
			out[key] = convertKeys(value, append(path, key))
		}
		return out
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = convertKeys(item, path)
		}
		return items
	default:
		return data
	}
}

// ConvertToCamel converts snake_case keys to camelCase, recursively,
// with the same env-map exemption as ConvertKeys.
func ConvertToCamel(data any) any {
	return convertToCamel(data, nil)
}

func convertToCamel(data any, path []string) any {
	switch v := data.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, value := range v {
			if isMCPEnvPath(path) {
				out[k] = convertToCamel(value, append(path, k))
				continue
			}
			out[SnakeToCamel(k)] = convertToCamel(value, append(path, k))
		}
		return out
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = convertToCamel(item, path)
		}
		return items
	default:
		return data
	}
}

// isMCPEnvPath reports whether path addresses a map at
// tools.mcp_servers.<name>.env. Path segments are snake_case in both
// conversion directions.
func isMCPEnvPath(path []string) bool {
	return len(path) == 4 &&
		path[0] == "tools" &&
		path[1] == "mcp_servers" &&
		path[3] == "env"
}

// CamelToSnake converts a camelCase name to snake_case.
func CamelToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// SnakeToCamel converts a snake_case name to camelCase.
func SnakeToCamel(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}
