package driven

import (
	"context"
	"net/http"
)

// ContentTypeText is the content type of raw text payloads.
const ContentTypeText = "text/plain"

// Request describes one call to the data service.
type Request struct {
	// Method is the HTTP method. Defaults to GET.
	Method string

	// Path is resolved against the configured base address.
	Path string

	// Body is the raw payload. Nil means no body.
	Body []byte

	// ContentType of Body. Defaults to ContentTypeText when Body is set.
	ContentType string

	// Params is a struct whose `url` tagged fields become query parameters.
	Params any
}

// Response is a completed HTTP exchange, whatever its status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Dispatcher issues requests against the data service.
//
// Implementations make exactly one network call per invocation and never
// retry. A response with any status is returned without error; only
// transport faults (connection refused, timeout, cancelled context) are
// returned as errors.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) (*Response, error)
}

// Linker is implemented by dispatchers that can turn a path into an
// absolute link, such as a dataset download URL.
type Linker interface {
	URL(path string) string
}
