package physcalc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dnswlt/physcalc/token"
	"github.com/dnswlt/physcalc/unit"
)

// The most generic error type returned by physcalc functions.
// This type should be used if no more specific error type
// is appropriate, e.g. to add context to an error while loading
// a pack or running a script.
type PhyscalcError struct {
	msg   string
	cause error
}

func (e *PhyscalcError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.cause)
}

func (e *PhyscalcError) Unwrap() error {
	return e.cause
}

func chainError(cause error, format string, a ...any) error {
	return &PhyscalcError{msg: fmt.Sprintf(format, a...), cause: cause}
}

// SyntaxError is returned by the scanner and the parser for malformed input.
type SyntaxError struct {
	pos token.Pos
	msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s at position %d", e.msg, e.pos)
}

// Returns the byte offset at which the SyntaxError occurred.
func (e *SyntaxError) Pos() token.Pos {
	return e.pos
}

// ArithmeticError reports an operation that has no value in the current
// numeric domain, like a division by zero.
type ArithmeticError struct {
	msg string
}

func (e *ArithmeticError) Error() string {
	return "arithmetic error: " + e.msg
}

func arithmeticError(format string, a ...any) error {
	return &ArithmeticError{msg: fmt.Sprintf(format, a...)}
}

// DimensionMismatchError is returned when the operands of Op (or the source
// and target of a conversion) have incompatible dimensions.
type DimensionMismatchError struct {
	Op   string
	X, Y unit.Dimension
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch for %s: %s and %s", e.Op, e.X, e.Y)
}

// ReferenceError is returned for a backreference to a history entry that does not exist.
type ReferenceError struct {
	Index int
	Len   int
}

func (e *ReferenceError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("no result [%d]: history is empty", e.Index)
	}
	return fmt.Sprintf("no result [%d]: valid indices are 1 to %d", e.Index, e.Len)
}

// EvalError is the error type returned if evaluation of an expression fails.
// The specific kind of failure (e.g. *ArithmeticError) is available via errors.As.
type EvalError struct {
	pos   token.Pos // Position at which evaluation failed.
	msg   string    // Error message.
	cause error     // Optional root cause error.
}

func (e *EvalError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s at position %d: %s", e.msg, e.pos, e.cause)
	}
	return fmt.Sprintf("%s at position %d", e.msg, e.pos)
}

func (e *EvalError) Pos() token.Pos {
	return e.pos
}

func (e *EvalError) Unwrap() error {
	return e.cause
}

// FormattedError turns a (possible chain of) physcalc errors
// into a simple Go error with a human-readable message.
// Positioned errors get a caret line pointing at the failing column of line.
// Other error types contribute their own message and end the chain.
func FormattedError(line string, err error) error {
	var msgs []string
	caret := -1
Loop:
	for err != nil {
		switch e := err.(type) {
		case *PhyscalcError:
			msgs = append(msgs, e.msg)
		case *SyntaxError:
			msgs = append(msgs, "syntax error: "+e.msg)
			caret = int(e.pos)
		case *EvalError:
			msgs = append(msgs, e.msg)
			if caret < 0 {
				caret = int(e.pos)
			}
		default:
			msgs = append(msgs, err.Error())
			break Loop // Don't unwrap external errors.
		}
		err = errors.Unwrap(err)
	}
	msg := strings.Join(msgs, ": ")
	if caret >= 0 && caret <= len(line) {
		// Count runes, not bytes, to place the caret below the right column.
		col := len([]rune(line[:caret]))
		msg = fmt.Sprintf("%s\n%s\n%s^", msg, line, strings.Repeat(" ", col))
	}
	return errors.New(msg)
}
