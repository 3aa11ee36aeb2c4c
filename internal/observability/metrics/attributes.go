package metrics

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

var droppedAttributeKeys = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"authorization",
}

// FilterAttributes drops attributes with sensitive keys before they reach an
// exporter.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if isDroppedKey(string(attr.Key)) {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

func isDroppedKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, needle := range droppedAttributeKeys {
		if strings.Contains(key, needle) {
			return true
		}
	}
	return false
}
