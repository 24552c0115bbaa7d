package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/vango-dev/ripple/pkg/vdom"
)

// Category represents the type of error.
type Category string

const (
	CategoryRender Category = "render"
	CategoryConfig Category = "config"
	CategoryServer Category = "server"
	CategoryExport Category = "export"
)

// Location represents a position in a source document.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// RippleError is a coded error with an explanation and a fix hint.
type RippleError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (render, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the document position the error refers to.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RippleError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RippleError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a document position to the error.
func (e *RippleError) WithLocation(file string, line, column int) *RippleError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, contextLines)
	return e
}

var yamlLine = regexp.MustCompile(`yaml: line (\d+):`)

// WithLocationFromError extracts a line number from a YAML decode error.
func (e *RippleError) WithLocationFromError(file string, err error) *RippleError {
	if err == nil {
		return e
	}
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return e
	}
	line, _ := strconv.Atoi(m[1])
	if line > 0 {
		e.WithLocation(file, line, 0)
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RippleError) WithSuggestion(s string) *RippleError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RippleError) WithDetail(d string) *RippleError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *RippleError) Wrap(err error) *RippleError {
	e.Wrapped = err
	return e
}

// contextLines is how many source lines an error with a location shows.
const contextLines = 5

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := max(1, targetLine-contextSize/2)
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a RippleError from a registered error code.
func New(code string) *RippleError {
	template, ok := registry[code]
	if !ok {
		return &RippleError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RippleError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new RippleError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RippleError {
	return &RippleError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError classifies err. Render errors from pkg/vdom get their own codes;
// anything else is wrapped under fallback.
func FromError(err error, fallback string) *RippleError {
	if err == nil {
		return nil
	}
	var re *RippleError
	if stderrors.As(err, &re) {
		return re
	}

	var (
		unrenderable *vdom.UnrenderableTypeError
		component    *vdom.ComponentRenderError
		coercion     *vdom.CoercionError
	)
	switch {
	case stderrors.As(err, &coercion):
		return New("E003").Wrap(err)
	case stderrors.As(err, &component):
		return New("E002").Wrap(err)
	case stderrors.As(err, &unrenderable):
		return New("E001").Wrap(err)
	}
	return New(fallback).Wrap(err)
}
