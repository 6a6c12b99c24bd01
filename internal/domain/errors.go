package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSecretNotFound  = errors.New("secret not found")
	ErrMissingToken    = errors.New("no token received from server")
	ErrTokenExpired    = errors.New("token expired")
	ErrInvalidIdentity = errors.New("invalid identity payload")
	ErrUnknownLanguage = errors.New("unsupported language")
)

type FailureKind string

const (
	FailureNetworkUnavailable FailureKind = "network_unavailable"
	FailureNoResponse         FailureKind = "no_response"
	FailureRejected           FailureKind = "rejected"
)

// BackendError classifies a failed backend call.
type BackendError struct {
	Kind    FailureKind
	Op      string
	Status  int
	Payload []byte
	Err     error
}

func (e *BackendError) Error() string {
	switch e.Kind {
	case FailureRejected:
		return fmt.Sprintf("%s: backend rejected request with status %d", e.Op, e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Unauthorized() bool {
	return e.Kind == FailureRejected && (e.Status == 401 || e.Status == 403)
}

// AsBackendError extracts a BackendError from the chain.
func AsBackendError(err error) (*BackendError, bool) {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr, true
	}
	return nil, false
}
