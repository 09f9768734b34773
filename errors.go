package jmux

import (
	"fmt"

	"github.com/mevansam/jmux/utils"
)

// MalformedInputError indicates a character was received that is not
// valid in the lexer's current state.
type MalformedInputError struct {
	Char    rune
	State   string
	Message string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf(
		"jmux: unexpected character %q in state %q: %s",
		e.Char, e.State, e.Message,
	)
}

// UnknownFieldError indicates a key was read that is not declared in
// the schema and the demultiplexer is running in strict mode.
type UnknownFieldError struct {
	Key string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("jmux: key %q is not declared in schema", e.Key)
}

// TypeMismatchError indicates a token's shape is incompatible with the
// value kind declared for the field it belongs to.
type TypeMismatchError struct {
	Field    string
	Declared ValueKind
	Token    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"jmux: field %q declared as %s cannot accept token %q",
		e.Field, e.Declared, e.Token,
	)
}

// InvalidEnumValueError indicates a string value was not a member of
// the declared enumeration.
type InvalidEnumValueError struct {
	Field   string
	Value   string
	Members []string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf(
		"jmux: field %q value %q is not one of %s",
		e.Field, e.Value,
		utils.JoinListAsSentence("%s", e.Members, true),
	)
}

// NumericOverflowError indicates an integer token could not be
// represented in the implementation's integer range.
type NumericOverflowError struct {
	Field string
	Token string
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf(
		"jmux: field %q value %q overflows the integer range",
		e.Field, e.Token,
	)
}

// ExtraneousInputError indicates non-whitespace characters were fed
// after the root object had already closed.
type ExtraneousInputError struct {
	Char rune
}

func (e *ExtraneousInputError) Error() string {
	return fmt.Sprintf("jmux: extraneous character %q after root object close", e.Char)
}

// SchemaMismatchError indicates a conformance check failed. Path is a
// dot-qualified description of where in the schema tree the mismatch
// was found, e.g. "root.nested.key_str".
type SchemaMismatchError struct {
	Path    string
	Message string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("jmux: schema mismatch at %q: %s", e.Path, e.Message)
}

// AlreadyTerminalError is a programmer error: a sink was resolved,
// closed or failed more than once.
type AlreadyTerminalError struct {
	Field string
}

func (e *AlreadyTerminalError) Error() string {
	return fmt.Sprintf("jmux: sink for field %q is already terminal", e.Field)
}

// PoisonedError wraps the error that put the demultiplexer into its
// terminal poisoned state, returned for every feed call made after it.
type PoisonedError struct {
	Cause error
}

func (e *PoisonedError) Error() string {
	return fmt.Sprintf("jmux: demultiplexer is poisoned: %s", e.Cause)
}

func (e *PoisonedError) Unwrap() error {
	return e.Cause
}
