package network

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxSnippetBytes = 512

var (
	// ErrInvalidResponse means the session returned something that is not an HTTP response.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("network service closed")
)

// StatusError is returned when a response status falls outside [200, 299].
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	if snippet := bodySnippet(e.Body); snippet != "" {
		return fmt.Sprintf("unacceptable status code %d: %s", e.Code, snippet)
	}
	return fmt.Sprintf("unacceptable status code %d", e.Code)
}

// StatusCode extracts the code of a *StatusError in err's chain.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

// bodySnippet cuts body to at most maxSnippetBytes without splitting a rune.
func bodySnippet(body []byte) string {
	if len(body) > maxSnippetBytes {
		n := maxSnippetBytes
		for n > 0 && !utf8.RuneStart(body[n]) {
			n--
		}
		body = body[:n]
	}
	return strings.TrimSpace(string(body))
}
