package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/tidwall/gjson"
)

// maxMessageRunes caps plain-text error bodies such as proxy HTML pages.
const maxMessageRunes = 200

// ErrUnsupported is returned by operations an entity family does not expose.
var ErrUnsupported = errors.New("operation not supported for this collection")

// TransportError covers every failed exchange with the API: network errors,
// non-2xx responses and payloads that cannot be decoded.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" && e.StatusCode != 0 {
		msg = http.StatusText(e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches helpers.ErrNotFound for 404 responses.
func (e *TransportError) Is(target error) bool {
	return target == helpers.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is a 404 from the API or another
// helpers.ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, helpers.ErrNotFound)
}

// errorMessage extracts the human readable message the API puts in error
// bodies. Plain-text bodies are returned trimmed.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if gjson.ValidBytes(body) {
		for _, path := range []string{"message", "error.message", "error"} {
			if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
		return ""
	}
	msg := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(msg) > maxMessageRunes {
		msg = string([]rune(msg)[:maxMessageRunes])
	}
	return msg
}
