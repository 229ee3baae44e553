package middleware

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/hyp3rd/hypertable/internal/telemetry/attrs"
)

// keyAttrs describes a key without recording its content. Only string keys have a
// meaningful byte length; other key types get no attribute.
func keyAttrs[K comparable](key K) []attribute.KeyValue {
	if k, ok := any(key).(string); ok {
		return []attribute.KeyValue{attribute.Int(attrs.AttrKeyLength, len(k))}
	}

	return nil
}
