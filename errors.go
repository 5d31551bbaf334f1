package glossify

import "fmt"

// ProcessorError indicates a content processing failure (parse error,
// aborted pass, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// PatternError indicates a blacklist pattern that failed to compile.
// Such patterns are treated as never-matching; the error exists for
// diagnostics only.
type PatternError struct {
	Pattern string
	Message string
	Cause   error
}

func (e *PatternError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("pattern error: %q: %v", e.Pattern, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("pattern error: %q: %s", e.Pattern, e.Message)
	default:
		return fmt.Sprintf("pattern error: %q", e.Pattern)
	}
}

func (e *PatternError) Unwrap() error {
	return e.Cause
}

// CommandError indicates an unknown or malformed debug command.
type CommandError struct {
	Name    string
	Message string
}

func (e *CommandError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("command %q: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("unknown command %q", e.Name)
}
