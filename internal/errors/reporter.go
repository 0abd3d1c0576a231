package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of a diagnostic
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
)

// CompilerError is a structured diagnostic with a stable code and optional
// context describing where in the tree the problem was found.
type CompilerError struct {
	Level   ErrorLevel
	Code    string // Error code like E0001
	Message string // Primary error message
	Context string // Enclosing function or "top-level code"
	Notes   []string
}

func (e CompilerError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s[%s]: %s (in %s)", e.Level, e.Code, e.Message, e.Context)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Level, e.Code, e.Message)
}

// ErrorReporter handles consistent diagnostic formatting for a file
type ErrorReporter struct {
	filename string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename string) *ErrorReporter {
	return &ErrorReporter{filename: filename}
}

// FormatError formats one diagnostic with colored severity markers
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder

	levelColor := color.New(color.FgRed, color.Bold)
	switch err.Level {
	case Warning:
		levelColor = color.New(color.FgYellow, color.Bold)
	case Note:
		levelColor = color.New(color.FgCyan, color.Bold)
	}

	result.WriteString(levelColor.Sprintf("%s[%s]", err.Level, err.Code))
	result.WriteString(color.New(color.Bold).Sprintf(": %s\n", err.Message))

	location := er.filename
	if err.Context != "" {
		location = fmt.Sprintf("%s: %s", er.filename, err.Context)
	}
	result.WriteString(color.BlueString("  --> %s\n", location))

	for _, note := range err.Notes {
		result.WriteString(color.CyanString("  note: %s\n", note))
	}

	return result.String()
}

// FormatAll formats a list of diagnostics in order
func (er *ErrorReporter) FormatAll(errs []CompilerError) string {
	var result strings.Builder
	for _, err := range errs {
		result.WriteString(er.FormatError(err))
	}
	return result.String()
}
