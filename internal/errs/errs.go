package errs

import (
	"errors"
	"fmt"
	"strings"
)

type Code string

const (
	ProviderFailure Code = "PROVIDER_FAILURE"
	EncodingFailure Code = "ENCODING_FAILURE"
	SinkFailure     Code = "SINK_FAILURE"
	StoreFailure    Code = "STORE_FAILURE"
	ConfigInvalid   Code = "CONFIG_INVALID"
	RunLocked       Code = "RUN_LOCKED"

	ConfigExists Code = "CONFIG_EXISTS"
	InvalidLimit Code = "INVALID_LIMIT"
)

var messages = map[Code]string{
	ProviderFailure: "item provider failed",
	EncodingFailure: "row encoding failed",
	SinkFailure:     "sitemap file operation failed",
	StoreFailure:    "generation record could not be persisted",
	ConfigInvalid:   "invalid configuration",

	RunLocked: `Another generation run holds the lock at %[1]s

If no other sitemapgen process is running, the lock is stale:
  rm %[1]s`,

	ConfigExists: `%[1]s already exists

Overwrite it with:
  sitemapgen init --force`,

	InvalidLimit: `Invalid --limit %[1]d: must be at least 1

Example:
  sitemapgen status --limit 5`,
}

// Msg renders the user-facing message for a code.
func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	if len(a) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, a...)
}

// Error is a classified failure. Op names the step that failed (a group key,
// a filename, a provider key).
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := Msg(e.Code)
	switch {
	case strings.Contains(msg, "%[1]s"):
		msg = Msg(e.Code, e.Op)
	case e.Op != "":
		msg += " (" + e.Op + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap classifies err. A nil err stays nil and an already classified error
// keeps its original code.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf returns the code of the first classified error in the chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
