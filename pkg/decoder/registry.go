package decoder

import (
	"fmt"
	"strings"
	"sync"
)

// Registry maps format names to decoders.
type Registry interface {
	Register(format string, d Decoder)
	DecoderFor(format string) (Decoder, error)
}

type registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry returns a registry with optional pre-registered decoders.
func NewRegistry(decoders ...Decoder) Registry {
	r := &registry{
		decoders: make(map[string]Decoder),
	}
	for _, d := range decoders {
		if d != nil {
			r.Register(d.Format(), d)
		}
	}
	return r
}

// Register associates a decoder with a format name.
func (r *registry) Register(format string, d Decoder) {
	if format = strings.TrimSpace(strings.ToLower(format)); format == "" || d == nil {
		return
	}

	r.mu.Lock()
	r.decoders[format] = d
	r.mu.Unlock()
}

// DecoderFor returns the decoder registered for format.
func (r *registry) DecoderFor(format string) (Decoder, error) {
	key := strings.TrimSpace(strings.ToLower(format))
	if key == "" {
		return nil, fmt.Errorf("decoder format is empty")
	}

	r.mu.RLock()
	d := r.decoders[key]
	r.mu.RUnlock()

	if d == nil {
		return nil, fmt.Errorf("no decoder registered for format %q", format)
	}
	return d, nil
}

// DefaultRegistry wires up the built-in decoders.
func DefaultRegistry() Registry {
	return NewRegistry(NewJSON(), NewYAML(), NewXML(), NewHTML())
}
