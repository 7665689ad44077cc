package core

// Error codes carried on EventError and surfaced to clients verbatim.
const (
	ErrCodeNotRegistered = "not_registered"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeStoreError    = "store_error"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
