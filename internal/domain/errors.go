package domain

import "fmt"

// Kind classifies a domain failure so callers can branch on the cause
// without parsing error messages.
type Kind string

const (
	KindInvalidArgument   Kind = "invalid_argument"
	KindDuplicateProduct  Kind = "duplicate_product"
	KindNotFound          Kind = "not_found"
	KindInactive          Kind = "inactive"
	KindInsufficientStock Kind = "insufficient_stock"
	KindLimitExceeded     Kind = "limit_exceeded"
	KindStockChanged      Kind = "stock_changed"
	KindInvalidTransition Kind = "invalid_transition"
	KindAlreadyInState    Kind = "already_in_state"
	KindUnexpected        Kind = "unexpected"
)

// Error is the failure type returned across the aggregate boundary.
// Infrastructure errors are wrapped into KindUnexpected before surfacing.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a domain error of the given kind.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Errorf creates a domain error with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind and message to an underlying error.
func WrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from an error chain, or KindUnexpected
// if no domain error is present.
func KindOf(err error) Kind {
	for err != nil {
		if de, ok := err.(*Error); ok {
			return de.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return KindUnexpected
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
