package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/roach88/colina/internal/tabulation"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Query or scenario failure (domain error, failed expectations)
	ExitCommandError = 2 // Command error (bad arguments, missing paths)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode returns the code reported in JSON error envelopes: the
// tabulation error code when there is one, otherwise a generic code.
func ErrorCode(err error) string {
	if code := tabulation.CodeOf(err); code != "" {
		return string(code)
	}
	if GetExitCode(err) == ExitCommandError {
		return "USAGE"
	}
	return "FAILURE"
}

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; keeps JSON on Writer parseable
	Verbose   bool
}

// CLIResponse is the JSON envelope for every command.
type CLIResponse struct {
	Status  string    `json:"status"` // "ok" or "error"
	Data    any       `json:"data,omitempty"`
	Error   *CLIError `json:"error,omitempty"`
	TraceID string    `json:"trace_id,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // tabulation error code, "USAGE", or "FAILURE"
	Message string `json:"message"`
}

// Success writes data. Text mode prints it with %v, so result types
// provide a String method.
func (f *OutputFormatter) Success(data any) error {
	if f.Format != "json" {
		_, err := fmt.Fprintln(f.Writer, data)
		return err
	}
	return json.NewEncoder(f.Writer).Encode(CLIResponse{
		Status:  "ok",
		Data:    data,
		TraceID: newTraceID(),
	})
}

// Fail returns err unchanged after writing a JSON error envelope when the
// format is json. In text mode the error is printed by the entry point.
func (f *OutputFormatter) Fail(err error) error {
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "error",
			Error:   &CLIError{Code: ErrorCode(err), Message: err.Error()},
			TraceID: newTraceID(),
		})
	}
	return err
}

// VerboseLog writes a diagnostic line to ErrWriter when verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose || f.ErrWriter == nil {
		return
	}
	fmt.Fprintf(f.ErrWriter, format+"\n", args...)
}

// newTraceID returns a time-sortable id for a single CLI response.
func newTraceID() string {
	return uuid.Must(uuid.NewV7()).String()
}
