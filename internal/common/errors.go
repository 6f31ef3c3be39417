// Package common defines the error taxonomy shared across microauth
// components. Every failure the core can produce carries a Kind so callers
// branch with KindOf / errors.As instead of matching message text.
package common

import "errors"

// Kind classifies a core failure.
type Kind int

const (
	// KindUnknown is the zero value; errors without a kind map to it.
	KindUnknown Kind = iota

	// KindValidation marks malformed or missing input. Recoverable by
	// resubmitting corrected input.
	KindValidation

	// KindConflict marks a uniqueness violation on registration.
	KindConflict

	// KindAuthentication marks a credential mismatch on sign-in. The same
	// kind and message cover "unknown user" and "wrong password".
	KindAuthentication

	// KindStorage marks a backend I/O fault.
	KindStorage

	// KindCrypto marks a hashing or signing subsystem fault.
	KindCrypto

	// KindInvalidToken marks a malformed token or a bad signature.
	KindInvalidToken
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindStorage:
		return "storage"
	case KindCrypto:
		return "crypto"
	case KindInvalidToken:
		return "invalid token"
	}
	return "unknown"
}

// Error is a tagged error: a kind plus a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is lets errors.Is match tagged errors by kind, so sentinels like
// &Error{Kind: KindConflict} work as comparison targets regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NewValidation(msg string) *Error     { return newError(KindValidation, msg) }
func NewConflict(msg string) *Error       { return newError(KindConflict, msg) }
func NewAuthentication(msg string) *Error { return newError(KindAuthentication, msg) }
func NewStorage(msg string) *Error        { return newError(KindStorage, msg) }
func NewCrypto(msg string) *Error         { return newError(KindCrypto, msg) }
func NewInvalidToken(msg string) *Error   { return newError(KindInvalidToken, msg) }

// KindOf extracts the kind from err, unwrapping as needed.
// Untagged errors report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
