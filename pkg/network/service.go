// Package network executes request descriptions against an injected session.
package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/samvad-hq/netlayer/pkg/httpclient"
	"github.com/samvad-hq/netlayer/pkg/request"
)

// Provider is the request execution contract. Use Execute for typed results.
type Provider interface {
	// ExecuteInto decodes the response body into v with the request's decoder.
	ExecuteInto(ctx context.Context, req request.Request, v any) error
	// DownloadData returns the raw body of a 2xx response.
	DownloadData(ctx context.Context, req request.Request) ([]byte, error)
}

var _ Provider = (*Service)(nil)

// Option customizes a Service.
type Option func(s *Service)

// WithStatusValidation makes ExecuteInto reject non-2xx responses before
// decoding, like DownloadData does. Off by default: error bodies are decoded.
func WithStatusValidation() Option {
	return func(s *Service) {
		s.validateStatus = true
	}
}

// Service owns one session for its lifetime and releases it on Close.
type Service struct {
	session        httpclient.Session
	validateStatus bool

	closed    atomic.Bool
	closeOnce sync.Once
}

// New returns a Service that submits every request on session.
func New(session httpclient.Session, opts ...Option) (*Service, error) {
	if session == nil {
		return nil, errors.New("network: session must not be nil")
	}
	s := &Service{session: session}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Execute runs req on p and decodes the body into a new T.
func Execute[T any](ctx context.Context, p Provider, req request.Request) (T, error) {
	var out T
	if err := p.ExecuteInto(ctx, req, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ExecuteInto runs req and decodes the body into v. Unless the Service was
// built WithStatusValidation, the status code is not checked. A session reply
// that is not an HTTP response (nil, or a status outside [100, 999]) still
// fails with ErrInvalidResponse before anything is decoded.
func (s *Service) ExecuteInto(ctx context.Context, req request.Request, v any) error {
	resp, err := s.perform(ctx, req)
	if err != nil {
		return err
	}
	if s.validateStatus {
		if err := validateStatus(resp); err != nil {
			return err
		}
	}
	return req.Decoder().Decode(resp.Body(), v)
}

// DownloadData runs req and returns the body unchanged when the status is 2xx.
func (s *Service) DownloadData(ctx context.Context, req request.Request) ([]byte, error) {
	resp, err := s.perform(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := validateStatus(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Close invalidates the session and cancels its in-flight requests. It is
// safe to call more than once.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.session.InvalidateAndCancel()
	})
	return nil
}

// perform makes exactly one attempt and requires an HTTP-shaped response.
func (s *Service) perform(ctx context.Context, req request.Request) (httpclient.Response, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.session.Do(ctx, httpReq)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: session returned no response", ErrInvalidResponse)
	}
	if code := resp.StatusCode(); code < 100 || code > 999 {
		return nil, fmt.Errorf("%w: status code %d", ErrInvalidResponse, code)
	}
	return resp, nil
}

func validateStatus(resp httpclient.Response) error {
	code := resp.StatusCode()
	if code < 200 || code > 299 {
		return &StatusError{Code: code, Body: resp.Body()}
	}
	return nil
}
