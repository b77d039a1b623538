package domain

import "errors"

// Error taxonomy shared across services. Handlers classify with errors.Is and
// translate to HTTP status codes; services wrap these with fmt.Errorf("...: %w").
var (
	// ErrValidation missing or malformed client input (400)
	ErrValidation = errors.New("validation error")
	// ErrAuth missing or rejected credential (401)
	ErrAuth = errors.New("auth error")
	// ErrNotFound upstream record does not exist (404)
	ErrNotFound = errors.New("not found")
	// ErrUpstream Shopify API or storage backend failure (502)
	ErrUpstream = errors.New("upstream error")
)
