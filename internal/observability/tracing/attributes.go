package tracing

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

var redactedAttributeKeys = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"authorization",
}

// SafeAttributes filters out attributes whose key names credential-like data
// before they reach a span.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	safe := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		key := strings.ToLower(strings.TrimSpace(string(attr.Key)))
		if containsRedactedKey(key) {
			continue
		}
		safe = append(safe, attr)
	}
	return safe
}

// SafeError reduces an error to its Go type so span events never carry
// message text that may embed request payloads.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%T", err)
}

func containsRedactedKey(key string) bool {
	for _, needle := range redactedAttributeKeys {
		if strings.Contains(key, needle) {
			return true
		}
	}
	return false
}
