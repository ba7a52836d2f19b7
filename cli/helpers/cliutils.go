package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/pretty"
)

// CliError represents a CLI-specific error with enhanced context
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	cause     error
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the error the CliError was built from, if any.
func (e *CliError) Unwrap() error {
	return e.cause
}

// NewCliError creates a new CLI error with context
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WrapCliError builds a CliError whose details and chain come from cause.
func WrapCliError(code, message string, cause error) *CliError {
	err := NewCliError(code, message)
	if cause != nil {
		err.Details = cause.Error()
		err.cause = cause
	}
	return err
}

// WithContext adds context to the error
func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsTimeoutError checks if an error is a timeout error
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out")
}

// IsNetworkError checks if an error is a network-related error
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetwork) {
		return true
	}
	return ContainsAny(err.Error(),
		"connection refused", "connection reset", "no route to host",
		"network unreachable", "no such host", "name resolution failed",
	)
}

// IsAuthError checks if an error is authentication-related
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuth) {
		return true
	}
	return ContainsAny(err.Error(), "unauthorized", "invalid token", "forbidden", "not logged in")
}

// FormatError formats errors based on output mode
func FormatError(err error, mode Mode) string {
	if err == nil {
		return ""
	}
	switch mode {
	case ModeJSON:
		return formatErrorJSON(err)
	case ModeTUI:
		return formatErrorTUI(err)
	default:
		return err.Error()
	}
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func formatErrorJSON(err error) string {
	body := errorBody{Code: "ERROR", Message: err.Error()}
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		body = errorBody{Code: cliErr.Code, Message: cliErr.Message, Details: cliErr.Details}
	}
	data, mErr := json.Marshal(errorEnvelope{Error: body})
	if mErr != nil {
		return `{"error":{"code":"ERROR","message":"JSON marshaling failed"}}`
	}
	return strings.TrimRight(string(pretty.Pretty(data)), "\n")
}

func formatErrorTUI(err error) string {
	message, details := extractErrorInfo(err)
	result := formatErrorMessage(getErrorIcon(err), message)
	if details != "" {
		result += formatErrorDetails(details)
	}
	return result
}

func extractErrorInfo(err error) (message, details string) {
	var cliErr *CliError
	if errors.As(err, &cliErr) && cliErr != nil {
		return cliErr.Message, cliErr.Details
	}
	return err.Error(), ""
}

func getErrorIcon(err error) string {
	switch {
	case IsAuthError(err):
		return "🔐"
	case IsTimeoutError(err):
		return "⏰"
	case IsNetworkError(err):
		return "🌐"
	default:
		return "❌"
	}
}

func formatErrorMessage(icon, message string) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true)
	return fmt.Sprintf("%s %s", icon, style.Render(message))
}

func formatErrorDetails(details string) string {
	detailStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true)
	return "\n" + detailStyle.Render(fmt.Sprintf("Details: %s", details))
}

// OutputError prints err for the given mode. JSON errors go to stdout so
// scripts can parse them; TUI errors go to stderr.
func OutputError(err error, mode Mode) {
	if mode == ModeJSON {
		writeError(os.Stdout, err, mode)
		return
	}
	writeError(os.Stderr, err, mode)
}

func writeError(w io.Writer, err error, mode Mode) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, FormatError(err, mode))
}

// ParseID parses a positive numeric row id.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, NewCliError("INVALID_ID", "ID cannot be empty")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewCliError("INVALID_ID", "ID must be a positive integer", fmt.Sprintf("provided: %s", raw))
	}
	return id, nil
}

// ParseNonNegative parses a counter value such as points or level.
func ParseNonNegative(raw, fieldName string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, NewCliError("INVALID_VALUE",
			fmt.Sprintf("%s must be a non-negative integer", fieldName),
			fmt.Sprintf("provided: %s", raw))
	}
	return n, nil
}

// ValidateRequired validates that a required string value is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewCliError("REQUIRED_FIELD", fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateEnum validates that a value is in a set of allowed values. Empty
// values pass; combine with ValidateRequired when needed.
func ValidateEnum(value string, allowed []string, fieldName string) error {
	if value == "" {
		return nil
	}
	if slices.Contains(allowed, value) {
		return nil
	}
	return NewCliError("INVALID_ENUM",
		fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(allowed, ", ")),
		fmt.Sprintf("provided: %s", value))
}

// ContainsAny reports whether s contains any of the provided substrings.
// The comparison is case-insensitive; empty substrings are ignored.
func ContainsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if sub == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most maxLength runes, ending with "..." when
// there is room for it.
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}

// LogOperation logs the start and completion of an operation
func LogOperation(ctx context.Context, operation string, fn func() error) error {
	log := logger.FromContext(ctx)
	start := time.Now()
	log.Debug("starting operation", "operation", operation)
	err := fn()
	duration := time.Since(start)
	if err != nil {
		log.Error("operation failed", "operation", operation, "duration", duration, "error", err)
	} else {
		log.Debug("operation completed", "operation", operation, "duration", duration)
	}
	return err
}

// Pluralize returns singular or plural form based on count
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
