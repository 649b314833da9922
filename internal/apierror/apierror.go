// Package apierror holds the JSON bodies of every 4xx/5xx response. Internal
// failures only ever reach clients as Interno().
package apierror

// APIError is the error envelope: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Interno is the body for any 5xx; the cause stays in the logs.
func Interno() *APIError {
	return New("Error interno del servidor")
}

// ValidationError is the 422 body, one message per rejected field.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
