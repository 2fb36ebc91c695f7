// Package diagnostics defines the structured error stream produced by the
// scope creator and inference engine. Every non-internal failure mode
// (structural, reference, shape) is accumulated here rather than
// interrupting analysis; see DiagnosticError.
package diagnostics

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nuxleus/closure-compiler/internal/token"
)

// Code identifies the kind of diagnostic. Values are stable strings: they
// appear in test expectations and in the LSP's Diagnostic.Code field.
type Code string

const (
	// ParseError marks a malformed or unparseable doc-comment type
	// expression. The annotation defaults to Unknown and analysis continues.
	ParseError Code = "PARSE_ERROR"

	// ConstructorExpected is emitted when goog.reflect.object's first
	// argument does not resolve to a constructor function.
	ConstructorExpected Code = "CONSTRUCTOR_EXPECTED"

	// ObjectlitExpected is emitted when goog.reflect.object's second
	// argument is not an object-literal expression.
	ObjectlitExpected Code = "OBJECTLIT_EXPECTED"

	// TypeMismatch is reserved for checking passes built on top of this
	// core; the core itself never emits it, but downstream passes reuse
	// this sink and code space.
	TypeMismatch Code = "TYPE_MISMATCH"
)

// DiagnosticError is one accumulated diagnostic. It is always non-fatal:
// the pass that produced it has already substituted Unknown (or an
// unresolved Named type) and kept going.
type DiagnosticError struct {
	// ID correlates one diagnostic across the sink and whatever the host
	// (LSP, test harness) renders from it, stable for the diagnostic's
	// lifetime even if the sink is later re-sorted or filtered.
	ID    uuid.UUID
	Code  Code
	Token token.Token
	File  string
	Msg   string
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s: %s: %s", e.File, e.Token, e.Code, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Token, e.Code, e.Msg)
}

// New builds a DiagnosticError. File is left blank; callers that track a
// current file (the typed scope creator, the inference engine) fill it in
// via Sink.Add so every error in a multi-file pass is attributable.
func New(code Code, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{ID: uuid.New(), Code: code, Token: tok, Msg: msg}
}

func Newf(code Code, tok token.Token, format string, args ...any) *DiagnosticError {
	return New(code, tok, fmt.Sprintf(format, args...))
}

// Sink accumulates diagnostics for a compilation unit. It never panics and
// never stops analysis; callers just keep appending.
type Sink struct {
	CurrentFile string
	errors      []*DiagnosticError
}

// Add records a diagnostic, stamping it with the sink's current file if
// the diagnostic doesn't already carry one.
func (s *Sink) Add(err *DiagnosticError) {
	if err == nil {
		return
	}
	if err.File == "" {
		err.File = s.CurrentFile
	}
	s.errors = append(s.errors, err)
}

// Errorf is a convenience wrapper around New + Add.
func (s *Sink) Errorf(code Code, tok token.Token, format string, args ...any) {
	s.Add(Newf(code, tok, format, args...))
}

// All returns the accumulated diagnostics in insertion order.
func (s *Sink) All() []*DiagnosticError {
	return s.errors
}

func (s *Sink) HasErrors() bool {
	return len(s.errors) > 0
}
