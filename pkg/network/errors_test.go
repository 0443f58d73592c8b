package network

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestStatusErrorMessage(t *testing.T) {
	assert.Equal(t, "unacceptable status code 404", (&StatusError{Code: 404}).Error())
	assert.Equal(t, "unacceptable status code 500: boom", (&StatusError{Code: 500, Body: []byte(" boom\n")}).Error())

	code, ok := StatusCode(fmt.Errorf("fetch: %w", &StatusError{Code: 418}))
	assert.True(t, ok)
	assert.Equal(t, 418, code)

	_, ok = StatusCode(ErrInvalidResponse)
	assert.False(t, ok)
}

func TestBodySnippetKeepsRunesWhole(t *testing.T) {
	// "é" is two bytes, so byte 512 falls in the middle of a rune.
	body := []byte("x" + strings.Repeat("é", 300))

	snippet := bodySnippet(body)
	assert.True(t, utf8.ValidString(snippet))
	assert.LessOrEqual(t, len(snippet), maxSnippetBytes)
	assert.Equal(t, "x"+strings.Repeat("é", 255), snippet)

	assert.True(t, utf8.ValidString((&StatusError{Code: 500, Body: body}).Error()))
	assert.Equal(t, "short", bodySnippet([]byte("short")))
}
