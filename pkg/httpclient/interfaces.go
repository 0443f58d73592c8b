package httpclient

import (
	"context"
	"net/http"
)

// Response is the body and metadata a Session reports for one exchange.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Session submits requests on a shared transport. It must be safe for
// concurrent use and able to cancel all of its outstanding work at once.
type Session interface {
	Do(ctx context.Context, req *http.Request) (Response, error)
	// InvalidateAndCancel cancels in-flight requests and rejects new ones.
	InvalidateAndCancel()
}
