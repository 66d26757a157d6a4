// Package pverr defines the error kinds surfaced by the scanning and
// release pipeline so that callers can distinguish fatal conditions from
// ones that should be logged and skipped.
package pverr

import (
	"errors"
	"fmt"
)

// Kind enumerates the error categories the pipeline can produce.
type Kind string

const (
	BadPath          Kind = "BadPath"
	UnsupportedFormat Kind = "UnsupportedFormat"
	MissingField     Kind = "MissingField"
	ControlParse     Kind = "ControlParse"
	ElfParse         Kind = "ElfParse"
	HashMismatch     Kind = "HashMismatch"
	IoError          Kind = "IoError"
	DbError          Kind = "DbError"
	SignError        Kind = "SignError"
	TemplateError    Kind = "TemplateError"
)

// Error wraps an underlying error with a kind and the stage it occurred in.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func New(kind Kind, stage string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("while %s: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, target) match any *Error target with the same
// Kind, comparing kinds rather than identity.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// KindOf reports the Kind carried by err, if any, and whether one was found.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Fatal reports whether an error of the given kind should abort the whole
// subcommand rather than being logged and skipped, per the policy in
// section 7: per-file errors inside the Deb Reader and the Garbage
// Collector's reclaim passes are not fatal, so one bad .deb or one failed
// cleanup of a single stale artifact must not abort the run; batch-level
// failures (index transactions, discovery, move-over, signing, rendering)
// are. IoError sits on the non-fatal side because the per-file call sites
// (the scanner's deb parsing, the garbage collector's removals) use Fatal
// to decide whether to skip. A batch-level IoError (e.g. failing to list
// the pool root at all) is returned directly by its caller instead and
// reaches main, which also consults Fatal, only to choose how to log it.
func Fatal(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return true
	}
	switch kind {
	case BadPath, UnsupportedFormat, MissingField, ControlParse, ElfParse, HashMismatch, IoError:
		return false
	default:
		return true
	}
}
