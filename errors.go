package formcheck

import (
	"errors"
	"fmt"
)

// Package-specific errors
var (
	// ErrConfigNotFound is returned when the rule document path does not exist.
	// The message is stable; callers and tooling match on it.
	ErrConfigNotFound = errors.New("file does not exist")

	// ErrRuleDocumentInvalid is returned when the rule document exists but cannot
	// be parsed into the section/field/rule shape. The underlying parser
	// diagnostic is joined onto it.
	ErrRuleDocumentInvalid = errors.New("invalid rule document")

	// ErrSubExpressionsDisabled is returned when a rule carries a sub expression
	// but the validator was not constructed with WithSubExpressions.
	// This is a fatal configuration error, never a failed check.
	ErrSubExpressionsDisabled = errors.New("sub expressions are disabled")

	// ErrPluginNotFound is returned when a rule names a checker plugin that has
	// not been registered.
	ErrPluginNotFound = errors.New("checker plugin not registered")

	// ErrEmptyCheckerName is returned when registering a checker without a name.
	ErrEmptyCheckerName = errors.New("checker name is empty")

	// ErrNilCheckerFunc is returned when registering a nil checker function.
	ErrNilCheckerFunc = errors.New("checker func is nil")

	// ErrParsingConfig is returned when environment variables cannot be parsed
	// into the Config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
)

// PluginError reports a rule that references an unregistered checker plugin.
// It indicates a broken deployment, not bad input: validation of the affected
// form aborts instead of recording a field failure.
type PluginError struct {
	Field  string
	Plugin string
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("field %q: checker plugin %q not registered", e.Field, e.Plugin)
}

func (e *PluginError) Unwrap() error { return ErrPluginNotFound }

// SubError reports a sub expression that failed to compile, failed at runtime,
// or produced a non-boolean result. Like PluginError it is fatal.
type SubError struct {
	Field string
	Expr  string
	Err   error
}

func (e *SubError) Error() string {
	return fmt.Sprintf("field %q: sub expression %q: %v", e.Field, e.Expr, e.Err)
}

func (e *SubError) Unwrap() error { return e.Err }
