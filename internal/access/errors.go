package access

import (
	"errors"
	"net/http"
)

// Kind classifies a validation failure by who has to fix it.
type Kind int

const (
	// KindConfiguration means the server's key file is missing or broken.
	KindConfiguration Kind = iota + 1
	// KindAuth means the caller supplied no key or the wrong one.
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// HTTPStatus maps the kind to the status a handler should answer with.
func (k Kind) HTTPStatus() int {
	if k == KindAuth {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// Error is returned by Guard for every failed check.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind and code so wrapped copies still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

var (
	ErrKeyFileNotFound   = &Error{Kind: KindConfiguration, Code: "key_file_not_found", Message: "Access key file not found on the server."}
	ErrKeyFileUnreadable = &Error{Kind: KindConfiguration, Code: "key_file_unreadable", Message: "Access key file could not be read."}
	ErrInvalidConfig     = &Error{Kind: KindConfiguration, Code: "invalid_config", Message: "Invalid access key JSON configuration."}
	ErrKeyNotConfigured  = &Error{Kind: KindConfiguration, Code: "key_not_configured", Message: "Access key missing in configuration."}

	ErrMissingKey = &Error{Kind: KindAuth, Code: "missing_access_key", Message: "Missing access key."}
	ErrInvalidKey = &Error{Kind: KindAuth, Code: "invalid_access_key", Message: "Invalid access key."}
)

func wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// KindOf reports the kind of an error returned by this package, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
