// Package apierror defines the error envelopes every 4xx/5xx response uses.
// Handlers never return raw error strings from the persistence or domain
// layers: internal detail stays in the logs.
package apierror

// APIError carries a single human-readable message.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError { return &APIError{Detail: msg} }

// ValidationError adds per-field messages to the envelope.
type ValidationError struct {
	APIError
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{
		APIError: APIError{Detail: "Error de validacion"},
		Fields:   fields,
	}
}
