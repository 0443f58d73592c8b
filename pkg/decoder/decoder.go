// Package decoder holds the strategies used to turn response bodies into Go values.
package decoder

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
	FormatHTML = "html"
)

// ErrDecode is matched by every *Error.
var ErrDecode = errors.New("decode error")

// Decoder parses a byte sequence into the value pointed to by v.
type Decoder interface {
	Decode(data []byte, v any) error
	Format() string
}

// Error reports a body that does not match the requested target.
type Error struct {
	Format string
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode %s into %s: %v", e.Format, e.Target, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrDecode }

func newError(format string, v any, err error) *Error {
	return &Error{Format: format, Target: targetName(v), Err: err}
}

func targetName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}

// checkTarget rejects targets that cannot receive a decoded value.
func checkTarget(format string, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newError(format, v, errors.New("target must be a non-nil pointer"))
	}
	return nil
}
