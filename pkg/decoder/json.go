package decoder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
)

// JSON decodes JSON bodies. Non-pointer struct fields without omitempty are
// required: a body that lacks one of their keys, or sets it to null, fails to
// decode. Nested structs are held to the same rule.
type JSON struct {
	disallowUnknown bool
}

// JSONOption customizes a JSON decoder.
type JSONOption func(j *JSON)

// DisallowUnknownFields makes keys without a matching struct field an error.
func DisallowUnknownFields() JSONOption {
	return func(j *JSON) {
		j.disallowUnknown = true
	}
}

func NewJSON(opts ...JSONOption) JSON {
	var j JSON
	for _, opt := range opts {
		opt(&j)
	}
	return j
}

func (JSON) Format() string { return FormatJSON }

// Decode unmarshals data into v and checks that every required key was present.
func (j JSON) Decode(data []byte, v any) error {
	if err := checkTarget(FormatJSON, v); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if j.disallowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return newError(FormatJSON, v, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return newError(FormatJSON, v, errors.New("unexpected data after top-level value"))
	}

	if missing := missingKeys(data, reflect.TypeOf(v).Elem()); len(missing) > 0 {
		return newError(FormatJSON, v, fmt.Errorf("missing required keys: %s", strings.Join(missing, ", ")))
	}
	return nil
}

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// missingKeys lists the required keys of t that are absent from data or set
// to null. Nested structs are checked too and reported by dotted path.
func missingKeys(data []byte, t reflect.Type) []string {
	if t.Kind() != reflect.Struct || reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}
	return missingIn(gjson.ParseBytes(data), t, "")
}

func missingIn(obj gjson.Result, t reflect.Type, prefix string) []string {
	if !obj.IsObject() && obj.Type != gjson.Null {
		return nil
	}

	present := make(map[string]gjson.Result)
	if obj.IsObject() {
		obj.ForEach(func(key, value gjson.Result) bool {
			// encoding/json matches keys case-insensitively; the last one wins.
			present[strings.ToLower(key.String())] = value
			return true
		})
	}

	var missing []string
	for _, f := range jsonFields(t) {
		path := prefix + f.name
		value, ok := present[strings.ToLower(f.name)]
		if !ok || value.Type == gjson.Null {
			if f.required {
				missing = append(missing, path)
			}
			continue
		}
		missing = append(missing, nestedMissing(value, f.typ, path)...)
	}
	return missing
}

func nestedMissing(value gjson.Result, t reflect.Type, path string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		if value.IsObject() {
			return missingIn(value, t, path+".")
		}
	case reflect.Slice, reflect.Array:
		if !value.IsArray() {
			return nil
		}
		var missing []string
		for i, elem := range value.Array() {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			if elem.Type == gjson.Null {
				if t.Elem().Kind() == reflect.Struct {
					missing = append(missing, elemPath)
				}
				continue
			}
			missing = append(missing, nestedMissing(elem, t.Elem(), elemPath)...)
		}
		return missing
	}
	return nil
}

type jsonField struct {
	name     string
	typ      reflect.Type
	required bool
}

func jsonFields(t reflect.Type) []jsonField {
	var fields []jsonField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			if f.Type.Kind() == reflect.Struct {
				fields = append(fields, jsonFields(f.Type)...)
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		required := !strings.Contains(opts, "omitempty") && !strings.Contains(opts, "omitzero")
		switch f.Type.Kind() {
		case reflect.Pointer, reflect.Interface:
			required = false
		}
		fields = append(fields, jsonField{name: name, typ: f.Type, required: required})
	}
	return fields
}
