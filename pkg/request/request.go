// Package request describes single HTTP requests declaratively and turns them into *http.Request values.
package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	goquery "github.com/google/go-querystring/query"

	"github.com/samvad-hq/netlayer/pkg/decoder"
)

const DefaultScheme = "https"

var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrUnsupportedMethod = errors.New("unsupported method")
)

// Method is the HTTP verb of a Request.
type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
	MethodPut  Method = http.MethodPut
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut:
		return true
	}
	return false
}

// QueryItem is one name/value pair of the query string.
type QueryItem struct {
	Name  string
	Value string
}

// Request is an immutable description of an HTTP request.
type Request struct {
	scheme  string
	host    string
	path    string
	method  Method
	query   []QueryItem
	decoder decoder.Decoder

	// err records an option failure so it surfaces when the request is built.
	err error
}

// Option customizes a Request at construction time.
type Option func(r *Request)

// WithScheme overrides the default https scheme.
func WithScheme(scheme string) Option {
	return func(r *Request) {
		r.scheme = scheme
	}
}

// WithMethod sets the HTTP verb.
func WithMethod(m Method) Option {
	return func(r *Request) {
		r.method = m
	}
}

// WithQuery appends query items, keeping their order.
func WithQuery(items ...QueryItem) Option {
	return func(r *Request) {
		r.query = append(r.query, items...)
	}
}

// WithQueryParam appends a single query item.
func WithQueryParam(name, value string) Option {
	return WithQuery(QueryItem{Name: name, Value: value})
}

// WithQueryStruct appends query items built from the `url` tags of v.
// Keys are appended in sorted order; repeated values keep their slice order.
func WithQueryStruct(v any) Option {
	return func(r *Request) {
		values, err := goquery.Values(v)
		if err != nil {
			r.err = fmt.Errorf("%w: encode query struct: %v", ErrInvalidURL, err)
			return
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, val := range values[k] {
				r.query = append(r.query, QueryItem{Name: k, Value: val})
			}
		}
	}
}

// WithDecoder sets the decoder used for the response body.
func WithDecoder(d decoder.Decoder) Option {
	return func(r *Request) {
		r.decoder = d
	}
}

// New builds a Request for host and path. Scheme defaults to https, method to GET
// and the decoder to JSON.
func New(host, path string, opts ...Option) Request {
	r := Request{
		scheme: DefaultScheme,
		host:   host,
		path:   path,
		method: MethodGet,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&r)
		}
	}
	if len(r.query) > 0 {
		r.query = append([]QueryItem(nil), r.query...)
	}
	return r
}

func (r Request) Scheme() string { return r.scheme }
func (r Request) Host() string   { return r.host }
func (r Request) Path() string   { return r.path }
func (r Request) Method() Method { return r.method }

// Query returns a copy of the query items.
func (r Request) Query() []QueryItem {
	if len(r.query) == 0 {
		return nil
	}
	return append([]QueryItem(nil), r.query...)
}

// Decoder returns the response decoder, JSON when none was configured.
func (r Request) Decoder() decoder.Decoder {
	if r.decoder == nil {
		return decoder.NewJSON()
	}
	return r.decoder
}

// URL composes scheme, host, path and query into a URL. The query component is
// omitted entirely when there are no query items.
func (r Request) URL() (*url.URL, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := validateScheme(r.scheme); err != nil {
		return nil, err
	}
	if err := validateHost(r.host); err != nil {
		return nil, err
	}
	if r.path != "" && !strings.HasPrefix(r.path, "/") {
		return nil, fmt.Errorf("%w: path %q must begin with /", ErrInvalidURL, r.path)
	}

	return &url.URL{
		Scheme:   r.scheme,
		Host:     r.host,
		Path:     r.path,
		RawQuery: encodeQuery(r.query),
	}, nil
}

// HTTPRequest materializes the description into an *http.Request bound to ctx.
func (r Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	if !r.method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, string(r.method))
	}
	u, err := r.URL()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, string(r.method), u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return req, nil
}

// String renders the request as "METHOD url" for logs.
func (r Request) String() string {
	u, err := r.URL()
	if err != nil {
		return fmt.Sprintf("%s <%v>", r.method, err)
	}
	return fmt.Sprintf("%s %s", r.method, u.String())
}

func encodeQuery(items []QueryItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(item.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(item.Value))
	}
	return b.String()
}

func validateScheme(scheme string) error {
	if scheme == "" {
		return fmt.Errorf("%w: scheme is empty", ErrInvalidURL)
	}
	for i, c := range scheme {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return fmt.Errorf("%w: malformed scheme %q", ErrInvalidURL, scheme)
		}
	}
	return nil
}

func validateHost(host string) error {
	if strings.TrimSpace(host) == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidURL)
	}
	if strings.ContainsAny(host, "/?#@ \t\r\n") {
		return fmt.Errorf("%w: host %q must be a bare authority", ErrInvalidURL, host)
	}
	u, err := url.Parse("//" + host)
	if err != nil || u.Host != host {
		return fmt.Errorf("%w: malformed host %q", ErrInvalidURL, host)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: host %q has no hostname", ErrInvalidURL, host)
	}
	if strings.HasSuffix(host, ":") {
		return fmt.Errorf("%w: host %q has an empty port", ErrInvalidURL, host)
	}
	return nil
}
