package typesystem

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDescriptor reports a constructor invariant violation.
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	// ErrTooFewHandles reports a flat handle list that ran out mid-descriptor.
	ErrTooFewHandles = errors.New("handle list is too small")
	// ErrTooManyHandles reports handles left over after the top-level descriptor.
	ErrTooManyHandles = errors.New("handle list is too large")
	// ErrMalformedTypeString reports text that does not match the type grammar.
	ErrMalformedTypeString = errors.New("malformed type string")
	// ErrUnknownType reports a name that neither the alias table nor the registry knows.
	ErrUnknownType = errors.New("unknown type")
)

// UnknownTypeError indicates a type name was not found
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %s", e.Name)
}

func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

func NewUnknownTypeError(name string) *UnknownTypeError {
	return &UnknownTypeError{Name: name}
}

// SyntaxError describes where a type string stopped matching the grammar.
// Pos is a byte offset into Input after whitespace removal.
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed type string %q at offset %d: %s", e.Input, e.Pos, e.Msg)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedTypeString
}

func NewSyntaxError(input string, pos int, msg string) *SyntaxError {
	return &SyntaxError{Input: input, Pos: pos, Msg: msg}
}

func errInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDescriptor, fmt.Sprintf(format, args...))
}
