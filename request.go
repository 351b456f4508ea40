package shopkit

import (
	"net/http"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// FetchRequest describes one remote operation. Stateless, constructed per call.
type FetchRequest struct {
	Method       string
	Path         string
	Query        url.Values
	Body         any
	RequiresAuth bool
}

// Validate rejects malformed requests before any network call.
func (r FetchRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Method,
			validation.Required,
			validation.In(
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodPatch,
				http.MethodDelete,
			),
		),
		validation.Field(&r.Path, validation.Required),
	)
	if err != nil {
		return NewValidationError(err, "invalid fetch request")
	}

	if r.Method == http.MethodGet && r.Body != nil {
		return NewValidationError(nil, "GET requests must not carry a body")
	}

	if !strings.HasPrefix(r.Path, "/") {
		return NewValidationError(nil, "request path must be absolute")
	}

	return nil
}

// Get builds an idempotent read request. GETs are safely retriable by the
// caller; the client itself never retries.
func Get(path string, query url.Values) FetchRequest {
	return FetchRequest{
		Method:       http.MethodGet,
		Path:         path,
		Query:        query,
		RequiresAuth: true,
	}
}

// Post builds a mutating request. Mutations are never auto-retried.
func Post(path string, body any) FetchRequest {
	return FetchRequest{
		Method:       http.MethodPost,
		Path:         path,
		Body:         body,
		RequiresAuth: true,
	}
}

func Put(path string, body any) FetchRequest {
	return FetchRequest{
		Method:       http.MethodPut,
		Path:         path,
		Body:         body,
		RequiresAuth: true,
	}
}

func Patch(path string, body any) FetchRequest {
	return FetchRequest{
		Method:       http.MethodPatch,
		Path:         path,
		Body:         body,
		RequiresAuth: true,
	}
}

func Delete(path string) FetchRequest {
	return FetchRequest{
		Method:       http.MethodDelete,
		Path:         path,
		RequiresAuth: true,
	}
}

// Public marks the request as not requiring a bearer token.
func (r FetchRequest) Public() FetchRequest {
	r.RequiresAuth = false
	return r
}
