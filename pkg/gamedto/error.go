package gamedto

import "errors"

// ErrorKind classifies a failed fetch or auth operation. Callers branch on
// kinds instead of matching error message text.
type ErrorKind string

const (
	ErrValidation          ErrorKind = "validation"
	ErrUsernameNotFound    ErrorKind = "username_not_found"
	ErrRateLimited         ErrorKind = "rate_limited"
	ErrNoGamesFound        ErrorKind = "no_games_found"
	ErrNetwork             ErrorKind = "network"
	ErrUnsupportedPlatform ErrorKind = "unsupported_platform"
	ErrUnknown             ErrorKind = "unknown"
)

type DomainError struct {
	Kind      ErrorKind
	Message   string
	Retryable bool
	Err       error
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != "" {
		return string(e.Kind)
	}
	return "game history error"
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewError builds a DomainError of the given kind with a human-readable message.
func NewError(kind ErrorKind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message, Retryable: retryable(kind)}
}

// WrapError is NewError with an underlying cause preserved for unwrapping.
func WrapError(kind ErrorKind, message string, err error) *DomainError {
	return &DomainError{Kind: kind, Message: message, Retryable: retryable(kind), Err: err}
}

func retryable(kind ErrorKind) bool {
	return kind == ErrRateLimited || kind == ErrNetwork
}

// KindOf returns the classified kind of err, or ErrUnknown when err carries
// no DomainError in its chain.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrUnknown
}

// IsKind reports whether err is classified as the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
