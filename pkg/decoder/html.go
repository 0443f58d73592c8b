package decoder

import (
	"bytes"
	"errors"

	"github.com/PuerkitoBio/goquery"
)

// HTML parses bodies into a *goquery.Document. The target must be a **goquery.Document.
type HTML struct{}

func NewHTML() HTML { return HTML{} }

func (HTML) Format() string { return FormatHTML }

func (HTML) Decode(data []byte, v any) error {
	if err := checkTarget(FormatHTML, v); err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return newError(FormatHTML, v, err)
	}

	target, ok := v.(**goquery.Document)
	if !ok {
		return newError(FormatHTML, v, errors.New("target must be a **goquery.Document"))
	}
	*target = doc
	return nil
}
