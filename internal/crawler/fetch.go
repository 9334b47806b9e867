package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/bool64/ctxd"
)

const (
	// sniffLen is used for detecting content type. See http.sniffLen.
	sniffLen = 512

	// defaultUserAgent is the default user agent to disguise.
	defaultUserAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/99.0.4844.51 Safari/537.36`
)

// Page is a fetched page.
type Page struct {
	// URL is the final url, after following redirects.
	URL         *url.URL
	StatusCode  int
	ContentType string
	// Body must be closed by the caller.
	Body io.ReadCloser
}

// Fetcher fetches a page.
type Fetcher interface {
	// Fetch performs a GET request, follows the redirects and returns the final page. A non-2xx status code is not an error.
	Fetch(ctx context.Context, u *url.URL) (*Page, error)
}

var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher fetches pages over HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	log       ctxd.Logger
}

// Fetch fetches a page over HTTP.
func (f HTTPFetcher) Fetch(ctx context.Context, u *url.URL) (*Page, error) {
	ctx = ctxd.AddFields(ctx,
		"http.url", u.String(),
		"http.timeout", f.client.Timeout.String(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		// This should not happen because the context is not nil and the url is valid (resolved by the supervisor).
		f.log.Error(ctx, "failed to create http request", "error", err)

		return nil, fmt.Errorf("%w: could not create request: %s", ErrFetchFailed, err.Error())
	}

	req.Header.Set("User-Agent", f.userAgent)

	f.log.Debug(ctx, "send http request", "http.user_agent", f.userAgent)

	startTime := time.Now()
	resp, err := f.client.Do(req)
	endTime := time.Now()

	if err != nil {
		f.log.Error(ctx, "failed to send http request", "error", err)

		return nil, fetchError(ctx, err)
	}

	ctx = ctxd.AddFields(ctx,
		"http.final_url", resp.Request.URL.String(),
		"http.status_code", resp.StatusCode,
	)

	f.log.Debug(ctx, "received http response", "http.duration", endTime.Sub(startTime).String())

	page := &Page{
		URL:        resp.Request.URL,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}

	if !isSuccessStatus(resp.StatusCode) {
		return page, nil
	}

	if err := f.detectContentType(ctx, resp, page); err != nil {
		_ = resp.Body.Close() // nolint: errcheck

		return nil, err
	}

	return page, nil
}

// detectContentType detects the content type of the response.
//
// It uses the media type (without the parameters) from the Content-Type in the response headers. If the Content-Type is not set or is set to
// `application/octet-stream`, the function will use http.DetectContentType() to detect the content type. if http.DetectContentType() cannot determine a more
// specific one, it uses `application/octet-stream`.
//
// See https://pkg.go.dev/net/http#DetectContentType.
func (f HTTPFetcher) detectContentType(ctx context.Context, resp *http.Response, page *Page) error {
	contentType := resp.Header.Get("Content-Type")

	if contentType != "" {
		contentType, _, _ = mime.ParseMediaType(contentType) // nolint: errcheck // We do not care about the error, it is probably an error after the `;`
	}

	if contentType != "" && contentType != "application/octet-stream" {
		page.ContentType = contentType

		return nil
	}

	// http.DetectContentType() needs only http.sniffLen bytes, there is no need to read the whole body into memory.
	sniff, err := io.ReadAll(io.LimitReader(resp.Body, int64(sniffLen)))
	if err != nil {
		f.log.Error(ctx, "failed to detect content type", "error", err)

		return fmt.Errorf("%w: could not detect content type: %s", ErrReadBody, err.Error())
	}

	contentType = http.DetectContentType(sniff)
	contentType, _, _ = mime.ParseMediaType(contentType) // nolint: errcheck // We do not care about the error, it is probably an error after the `;`.

	f.log.Debug(ctx, "detected content type", "http.content_type", contentType)

	page.ContentType = contentType
	page.Body = readCloser{
		Reader: io.MultiReader(bytes.NewReader(sniff), resp.Body),
		Closer: resp.Body,
	}

	return nil
}

// NewHTTPFetcher creates a new HTTPFetcher.
func NewHTTPFetcher(client *http.Client, userAgent string, log ctxd.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	if log == nil {
		log = ctxd.NoOpLogger{}
	}

	return &HTTPFetcher{
		client:    client,
		userAgent: userAgent,
		log:       log,
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

// fetchError converts the error returned by http.Client.Do() into a crawler error.
func fetchError(ctx context.Context, err error) error {
	var netErr net.Error

	switch {
	case ctx.Err() != nil && errors.Is(err, context.Canceled):
		return ErrOperationCanceled

	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %s", ErrTimeout, err.Error())
	}

	return fmt.Errorf("%w: %s", ErrFetchFailed, err.Error())
}

func isSuccessStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
