package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/moul/http2curl"
)

// ErrSessionInvalidated is returned for requests cancelled or rejected because
// the session was invalidated. Such errors also match context.Canceled.
var ErrSessionInvalidated = errors.New("session invalidated")

// Options configures a RestySession.
type Options struct {
	// Timeout bounds each request. Zero leaves the transport default.
	Timeout   time.Duration
	UserAgent string
	// Debug logs every outgoing request as a curl command and every response status.
	Debug  bool
	Logger Logger
}

// RestySession adapts resty.Client to the Session interface.
type RestySession struct {
	client *resty.Client
	log    Logger

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewRestySession creates a session on a fresh resty.Client.
func NewRestySession(opts Options) *RestySession {
	return NewRestySessionWithClient(newRestyBaseClient(opts.Timeout), opts)
}

// NewRestySessionWithClient wraps a caller-configured resty.Client. The
// session owns the client from then on.
func NewRestySessionWithClient(c *resty.Client, opts Options) *RestySession {
	if c == nil {
		c = newRestyBaseClient(opts.Timeout)
	}
	log := ensureLogger(opts.Logger)

	// exactly one attempt per call
	c.SetRetryCount(0)
	c.SetLogger(restyLogger{log: log})
	if opts.UserAgent != "" {
		c.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Debug {
		installDebugHooks(c, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RestySession{
		client: c,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

func installDebugHooks(c *resty.Client, log Logger) {
	c.SetPreRequestHook(func(_ *resty.Client, req *http.Request) error {
		cmd, err := http2curl.GetCurlCommand(req)
		if err != nil {
			log.WarnObj("render curl command failed", "error", err.Error())
			return nil
		}
		log.DebugObj("outgoing request", "curl", cmd.String())
		return nil
	})
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log.DebugObj("response received", "response", map[string]any{
			"method":      resp.Request.Method,
			"url":         resp.Request.URL,
			"status_code": resp.StatusCode(),
			"duration_ms": resp.Time().Milliseconds(),
			"body_bytes":  len(resp.Body()),
		})
		return nil
	})
}

// Do performs req once. Transport errors are returned unchanged unless the
// session was invalidated while the request was in flight.
func (s *RestySession) Do(ctx context.Context, req *http.Request) (Response, error) {
	if req == nil || req.URL == nil {
		return nil, fmt.Errorf("http request is nil")
	}
	if s.ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionInvalidated, context.Canceled)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	r := s.client.R().SetContext(ctx)
	for name, values := range req.Header {
		for _, v := range values {
			r.Header.Add(name, v)
		}
	}

	resp, err := r.Execute(req.Method, req.URL.String())
	if err != nil {
		if s.ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrSessionInvalidated, err)
		}
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// InvalidateAndCancel cancels all in-flight requests and closes idle
// connections. Later calls to Do fail with ErrSessionInvalidated.
func (s *RestySession) InvalidateAndCancel() {
	s.once.Do(func() {
		s.cancel()
		s.client.GetClient().CloseIdleConnections()
	})
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
