package decoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaDecoder validates JSON bodies against a JSON schema before handing
// them to the wrapped decoder.
type SchemaDecoder struct {
	inner  Decoder
	schema *gojsonschema.Schema
}

// Schema compiles schema (draft 4, 6 or 7) and wraps inner, JSON when nil.
func Schema(inner Decoder, schema string) (*SchemaDecoder, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile json schema: %w", err)
	}
	if inner == nil {
		inner = NewJSON()
	}
	return &SchemaDecoder{inner: inner, schema: compiled}, nil
}

func (s *SchemaDecoder) Format() string { return s.inner.Format() }

func (s *SchemaDecoder) Decode(data []byte, v any) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return newError(s.Format(), v, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return newError(s.Format(), v, errors.New(strings.Join(msgs, "; ")))
	}
	return s.inner.Decode(data, v)
}
