package crawler

import (
	"context"
	"errors"
	"net"
)

var _ error = (*Error)(nil)

// Error is a crawler error.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}

const (
	// ErrOperationCanceled indicates that the operation was canceled.
	ErrOperationCanceled = Error("operation canceled")
	// ErrMissingHostname indicates that the seed url is missing hostname.
	ErrMissingHostname = Error("missing hostname")
	// ErrUnsupportedScheme indicates that the url contains an unsupported scheme.
	ErrUnsupportedScheme = Error("unsupported scheme")
	// ErrFetchFailed indicates that the page could not be fetched due to a transport failure (DNS, connection, TLS).
	ErrFetchFailed = Error("failed to fetch page")
	// ErrTimeout indicates that the page was not fetched in time.
	ErrTimeout = Error("fetch timed out")
	// ErrUnexpectedStatusCode indicates that the server responded with a non-2xx status code.
	ErrUnexpectedStatusCode = Error("unexpected status code")
	// ErrReadBody indicates that the response body could not be read while collecting links.
	ErrReadBody = Error("failed to read page")
)

// ErrorKind classifies the failure of a single url.
type ErrorKind string

const (
	// KindFetch is a transport level failure.
	KindFetch ErrorKind = "fetch"
	// KindTimeout is a per-fetch timeout.
	KindTimeout ErrorKind = "timeout"
	// KindHTTPStatus is a non-2xx response.
	KindHTTPStatus ErrorKind = "http_status"
	// KindCanceled is a fetch aborted by cancellation.
	KindCanceled ErrorKind = "canceled"
	// KindUnknown is anything else.
	KindUnknown ErrorKind = "unknown"
)

// ClassifyError determines the kind of a per-url error.
//
// Sentinel errors of this package take precedence, then the standard context and net errors are inspected.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown

	case errors.Is(err, ErrUnexpectedStatusCode):
		return KindHTTPStatus

	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout

	case errors.Is(err, ErrOperationCanceled), errors.Is(err, context.Canceled):
		return KindCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if errors.Is(err, ErrFetchFailed) || errors.Is(err, ErrReadBody) {
		return KindFetch
	}

	return KindUnknown
}
