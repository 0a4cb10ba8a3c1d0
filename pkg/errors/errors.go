package errors

import (
	"fmt"
)

// ParseError represents a theme pack, script or config decoding failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnboundComponentError is returned when styles are resolved for a component
// that never had a style factory registered. It signals a programming error in
// the caller and is not expected to be recovered from at runtime.
type UnboundComponentError struct {
	Component string
}

// NewUnboundComponentError constructs an UnboundComponentError.
func NewUnboundComponentError(component string) error {
	return &UnboundComponentError{Component: component}
}

func (e *UnboundComponentError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("no style factory registered for component '%s'\nHint: call RegisterFactory before resolving styles", e.Component)
}

// PluginSetupError indicates that a plugin failed while registering its
// contributions. Registrations performed before the failure are kept.
type PluginSetupError struct {
	Plugin  string
	Message string
	Err     error
}

// NewPluginSetupError constructs a PluginSetupError for the given plugin name.
func NewPluginSetupError(plugin string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &PluginSetupError{Plugin: plugin, Message: message, Err: err}
}

func (e *PluginSetupError) Error() string {
	if e == nil {
		return ""
	}
	if e.Plugin != "" {
		return fmt.Sprintf("plugin setup failed [%s]: %s", e.Plugin, e.Message)
	}
	return fmt.Sprintf("plugin setup failed: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *PluginSetupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
