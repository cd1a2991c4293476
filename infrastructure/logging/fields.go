package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/opregistry/domain/operation"
	"github.com/felixgeelhaar/opregistry/domain/provider"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for resolution logging.

// Operation adds the requested operation name.
func Operation(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operation", name)
	}
}

// Provider adds a provider id field. Absent providers are omitted.
func Provider(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		if id == "" {
			return e
		}
		return e.Str("provider", id)
	}
}

// Version adds a requested version field. Absent versions are omitted.
func Version(v string) Field {
	return func(e *bolt.Event) *bolt.Event {
		if v == "" {
			return e
		}
		return e.Str("version", v)
	}
}

// Kind adds the handler kind.
func Kind(k operation.Kind) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("kind", k.String())
	}
}

// Tag adds a capability tag field.
func Tag(t provider.CapabilityTag) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tag", string(t))
	}
}

// Candidates adds the number of handlers considered.
func Candidates(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("candidates", n)
	}
}

// Path adds a file path field.
func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", p)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Int adds an integer field with custom key.
func Int(key string, n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, n)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
