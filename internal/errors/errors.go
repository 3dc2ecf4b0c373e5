// Package errors implements the error taxonomy of the interpreter:
// compile-time diagnostics with source context (carried over from the
// teacher's formatter) and the runtime JSError family used by the
// evaluator's Result[Value] protocol.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/ssrlive/ecmacore/internal/token"
)

// Kind tags a runtime error the way ECMAScript's native error
// constructors do. Kind also doubles as the surface name printed to the
// user ("TypeError: ...").
type Kind string

const (
	KindTokenization Kind = "SyntaxError"
	KindParse        Kind = "SyntaxError"
	KindReference    Kind = "ReferenceError"
	KindType         Kind = "TypeError"
	KindRange        Kind = "RangeError"
	KindSyntax       Kind = "SyntaxError"
	KindEval         Kind = "EvalError"
	KindURI          Kind = "URIError"
	KindRuntime      Kind = "RuntimeError"
	KindAggregate    Kind = "AggregateError"
)

// Frame is one entry of a call-stack trace, named by the function's
// display name or, for anonymous closures, its source position.
type Frame struct {
	Name string
	Pos  token.Position
}

func (f Frame) String() string {
	if f.Name == "" {
		return fmt.Sprintf("    at <anonymous> (%s)", f.Pos)
	}
	return fmt.Sprintf("    at %s (%s)", f.Name, f.Pos)
}

// JSError is the runtime error value threaded through the evaluator.
// It either wraps a native Kind+message or an arbitrary thrown value
// (ECMAScript's `throw <expr>` allows any value, not just Error objects).
type JSError struct {
	Kind    Kind
	Message string
	// Thrown, when non-nil, is the exact value passed to `throw`. When a
	// user throws an Error instance, Kind/Message mirror its name/message
	// for convenience but Thrown is authoritative for identity checks.
	Thrown interface{}
	Pos    token.Position
	Stack  []Frame
	// Wrapped lets JSError participate in errors.Is/errors.As chains when
	// it was produced from an underlying Go error (I/O, host shim, etc.).
	Wrapped error
}

func New(kind Kind, pos token.Position, format string, args ...any) *JSError {
	return &JSError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func Throw(value interface{}, pos token.Position) *JSError {
	return &JSError{Kind: "", Thrown: value, Pos: pos}
}

func (e *JSError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("Uncaught %v at %s", e.Thrown, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *JSError) Unwrap() error { return e.Wrapped }

// WithFrame appends a call-stack frame, innermost call last-appended but
// printed first (matches V8/teacher convention: most recent call on top).
func (e *JSError) WithFrame(f Frame) *JSError {
	e.Stack = append(e.Stack, f)
	return e
}

// Format renders "Kind: message\n    at line L:C" plus the stack, with
// optional ANSI coloring for TTY stderr output.
func (e *JSError) Format(useColor bool) string {
	var sb strings.Builder
	header := e.Error()
	if useColor {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}
	sb.WriteString(header)
	sb.WriteString(fmt.Sprintf("\n    at line %d:%d", e.Pos.Line, e.Pos.Column))
	for i := len(e.Stack) - 1; i >= 0; i-- {
		sb.WriteString("\n")
		sb.WriteString(e.Stack[i].String())
	}
	return sb.String()
}

// CompilerError represents a single tokenization/parse error with
// source context, adapted from the teacher's formatter.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     token.Position
}

func NewCompilerError(pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

func (e *CompilerError) Error() string { return e.Format(false) }

func (e *CompilerError) Format(useColor bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("Error at line %d:%d\n", e.Pos.Line, e.Pos.Column))
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		caret := "^"
		if useColor {
			caret = color.New(color.FgRed, color.Bold).Sprint(caret)
		}
		sb.WriteString(caret)
		sb.WriteString("\n")
	}

	msg := e.Message
	if useColor {
		msg = color.New(color.Bold).Sprint(msg)
	}
	sb.WriteString(msg)
	return sb.String()
}

func (e *CompilerError) sourceLine(n int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// TokenizationError wraps a CompilerError raised by the lexer.
type TokenizationError struct{ *CompilerError }

// ParseError wraps a CompilerError raised by the parser.
type ParseError struct{ *CompilerError }
