package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a class of WSDL generation failure.
type ErrorCode string

const (
	// ErrSchemaNotFound indicates the schema resource could not be located.
	ErrSchemaNotFound ErrorCode = "wsdl-schema-not-found"
	// ErrInvalidOption indicates the builder options are missing or inconsistent.
	ErrInvalidOption ErrorCode = "wsdl-invalid-option"

	// ErrPhaseOrder indicates a build phase ran out of order or more than once.
	ErrPhaseOrder ErrorCode = "wsdl-phase-order"
	// ErrEncode indicates the definition could not be serialized.
	ErrEncode ErrorCode = "wsdl-encode"

	// ErrSchemaParse indicates a schema document is not well-formed XML.
	ErrSchemaParse ErrorCode = "xsd-parse"
	// ErrSchemaInvalid indicates a schema document is not rooted at xsd:schema.
	ErrSchemaInvalid ErrorCode = "xsd-invalid"
	// ErrIncludeUnresolved indicates an xsd:include could not be resolved.
	ErrIncludeUnresolved ErrorCode = "xsd-include-unresolved"
	// ErrImportUnresolved indicates an xsd:import could not be resolved.
	ErrImportUnresolved ErrorCode = "xsd-import-unresolved"
	// ErrNamespaceMismatch indicates an included or imported schema has an unexpected target namespace.
	ErrNamespaceMismatch ErrorCode = "xsd-namespace-mismatch"
)

// Error describes a WSDL generation failure with a code and optional context.
type Error struct {
	Err      error
	Code     ErrorCode
	Message  string
	Location string
	Phase    string
}

// Error formats the error with its code and context.
func (e *Error) Error() string {
	if e == nil {
		return "wsdl error <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.Phase != "" {
		b.WriteString(fmt.Sprintf(" during %s", e.Phase))
	}
	if e.Location != "" {
		b.WriteString(fmt.Sprintf(" (%s)", e.Location))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	var other *Error
	if !errors.As(target, &other) || other == nil {
		return false
	}
	if other.Code != e.Code {
		return false
	}
	return other.Message == "" || other.Message == e.Message
}

// New builds an Error with a code and message.
func New(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf formats a message and builds an Error.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap builds an Error with a code and message around cause.
func Wrap(code ErrorCode, cause error, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: cause}
}

// Sentinel returns a code-only Error usable as an errors.Is target.
func Sentinel(code ErrorCode) error {
	return &Error{Code: code}
}

// CodeOf extracts the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code, true
	}
	return "", false
}

// IsInput reports whether err was raised while locating or configuring inputs,
// before any build phase ran.
func IsInput(err error) bool {
	code, ok := CodeOf(err)
	if !ok {
		return false
	}
	switch code {
	case ErrSchemaNotFound, ErrInvalidOption:
		return true
	default:
		return false
	}
}

// IsBuild reports whether err was raised by a build phase.
func IsBuild(err error) bool {
	_, ok := CodeOf(err)
	return ok && !IsInput(err)
}
