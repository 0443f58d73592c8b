package decoder

import (
	"gopkg.in/yaml.v3"
)

// YAML decodes YAML bodies.
type YAML struct{}

func NewYAML() YAML { return YAML{} }

func (YAML) Format() string { return FormatYAML }

func (YAML) Decode(data []byte, v any) error {
	if err := checkTarget(FormatYAML, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return newError(FormatYAML, v, err)
	}
	return nil
}
