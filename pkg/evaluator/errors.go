package evaluator

import (
	"fmt"

	"github.com/thomasrohde/lispy/pkg/diagnostics"
)

// NewError creates an Error value with the given code.
func NewError(code, message string) Error {
	return Error{Code: code, Message: message}
}

// Errorf creates an Error value with a formatted message.
func Errorf(code, format string, args ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrUnbound reports a symbol with no binding in the environment chain.
func ErrUnbound(name string) Error {
	return Errorf(diagnostics.EUnbound, "Unbound Symbol '%s'", name)
}

// ErrType reports argument idx of fn having the wrong type.
func ErrType(fn string, idx int, got Value, expected string) Error {
	return Errorf(diagnostics.EType,
		"Function '%s' passed incorrect type for argument %d. Got %s, Expected %s.",
		fn, idx, TypeName(got), expected)
}

// ErrNotFunction reports an S-expression whose head cannot be applied.
func ErrNotFunction(got Value) Error {
	return Errorf(diagnostics.EType,
		"S-Expression starts with incorrect type. Got %s, Expected Function.", TypeName(got))
}

// ErrArity reports a builtin called with the wrong number of arguments.
func ErrArity(fn string, got, expected int) Error {
	return Errorf(diagnostics.EArity,
		"Function '%s' passed incorrect number of arguments. Got %d, Expected %d.",
		fn, got, expected)
}

// ErrTooMany reports a function given more arguments than it has formals.
func ErrTooMany(fn string, got, expected int) Error {
	return Errorf(diagnostics.EArity,
		"Function '%s' passed too many arguments. Got %d, Expected %d.", fn, got, expected)
}

// ErrEmpty reports an empty Q-expression where a non-empty one is needed.
func ErrEmpty(fn string, idx int) Error {
	return Errorf(diagnostics.EEmpty, "Function '%s' passed {} for argument %d.", fn, idx)
}

// ErrDivZero reports integer division by zero.
func ErrDivZero() Error {
	return NewError(diagnostics.EDivZero, "Division By Zero.")
}

// ErrStructField reports a field name missing from a struct definition.
func ErrStructField(structName, field string) Error {
	return Errorf(diagnostics.EStructField, "Struct '%s' has no attribute '%s'.", structName, field)
}

// ErrRestParam reports a '&' formal not followed by exactly one symbol.
func ErrRestParam() Error {
	return NewError(diagnostics.ERestParam,
		"Function format invalid. Symbol '&' not followed by single symbol.")
}

// ErrUser wraps a message raised by a program with the error builtin.
func ErrUser(message string) Error {
	return NewError(diagnostics.EUser, message)
}

// ErrLoad reports a source file that could not be read or parsed.
func ErrLoad(code, reason string) Error {
	return Errorf(code, "Could not load Library %s", reason)
}
