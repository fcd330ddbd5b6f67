package adapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
)

// Kind classifies why an adapter call failed.
type Kind string

const (
	KindConnection Kind = "connection_error"
	KindNotFound   Kind = "not_found"
	KindProtected  Kind = "protected_resource"
	KindPartial    Kind = "partial_degradation"
	KindBackend    Kind = "backend_error"
)

var (
	// ErrConnection - backing service unreachable or credentials rejected
	ErrConnection = errors.New("adapter: backing service unreachable")

	// ErrNotFound - delete target does not exist
	ErrNotFound = errors.New("adapter: target not found")

	// ErrProtected - delete target is on the service's protected list
	ErrProtected = errors.New("adapter: target is protected")

	// ErrPartial - one item of an enumeration failed; the report still carries a placeholder
	ErrPartial = errors.New("adapter: partial degradation")

	// ErrBackend - any other failure reported by the service after connecting
	ErrBackend = errors.New("adapter: backing service error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindConnection:
		return ErrConnection
	case KindNotFound:
		return ErrNotFound
	case KindProtected:
		return ErrProtected
	case KindPartial:
		return ErrPartial
	default:
		return ErrBackend
	}
}

// Error is returned by every adapter operation.
// errors.Is matches it against the sentinel of its Kind.
type Error struct {
	Kind    Kind
	Service string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func ConnectionError(service string, err error) error {
	return &Error{Kind: KindConnection, Service: service, Message: err.Error(), Err: err}
}

func BackendError(service string, err error) error {
	return &Error{Kind: KindBackend, Service: service, Message: err.Error(), Err: err}
}

func NotFoundError(service, resource, name string) error {
	return &Error{
		Kind:    KindNotFound,
		Service: service,
		Message: fmt.Sprintf("%s %s not found", resource, name),
	}
}

func ProtectedError(service, resource, name string) error {
	return &Error{
		Kind:    KindProtected,
		Service: service,
		Message: fmt.Sprintf("Cannot drop protected %s: %s", strings.ToLower(resource), name),
	}
}

// PartialError records that enumerating item failed while the report went on.
func PartialError(service, item string, err error) error {
	return &Error{
		Kind:    KindPartial,
		Service: service,
		Message: fmt.Sprintf("%s: %v", item, err),
		Err:     err,
	}
}

// KindOf reports the Kind of an adapter error; foreign errors count as backend errors.
func KindOf(err error) Kind {
	var adapterErr *Error
	if errors.As(err, &adapterErr) {
		return adapterErr.Kind
	}
	return KindBackend
}

// Report renders err as the body returned in place of a report or result.
func Report(err error) models.ErrorReport {
	return models.ErrorReport{
		Status:    models.StatusError,
		ErrorKind: string(KindOf(err)),
		Message:   err.Error(),
	}
}
