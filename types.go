package shopkit

import (
	"context"
	"fmt"
	"net/http"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenProvider exposes the current bearer token to any requester.
type TokenProvider interface {
	CurrentToken() (string, bool)
}

// Doer is the transport used by AuthorizedClient. *http.Client satisfies it;
// tests inject counting fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Storage is a durable persistence layer for the serialized session payload.
// Implementations must treat an absent payload as (nil, nil), not an error.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, payload []byte) error
	Delete(ctx context.Context) error

	// Watch registers a change callback and returns an unregister func.
	// Callbacks carry no payload; observers re-read through their store.
	Watch(fn func()) (cancel func())
}

// GuardConfig holds the route guard's redirect settings.
type GuardConfig interface {
	GetLoginPath() string
	GetRejectedRouteKey() string
	GetRejectedRouteDefault() string
}

// DefaultLogger returns the fallback logger components use when none is
// configured.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SHOPKIT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SHOPKIT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SHOPKIT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SHOPKIT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
