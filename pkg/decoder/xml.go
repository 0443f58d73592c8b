package decoder

import (
	"encoding/xml"
)

// XML decodes XML bodies such as sitemaps or feeds.
type XML struct{}

func NewXML() XML { return XML{} }

func (XML) Format() string { return FormatXML }

func (XML) Decode(data []byte, v any) error {
	if err := checkTarget(FormatXML, v); err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return newError(FormatXML, v, err)
	}
	return nil
}
