package crawler_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/nhatthm/linkcheck/internal/crawler"
)

func contextWithDeadline(t *testing.T, d time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()

	deadline, ok := t.Deadline()
	if !ok {
		deadline = time.Now().Add(d)
	}

	return context.WithDeadline(context.Background(), deadline)
}

func gzipFile(file string) func(*http.Request) ([]byte, error) {
	return func(req *http.Request) ([]byte, error) {
		f, err := os.Open(filepath.Clean(file))
		if err != nil {
			return nil, fmt.Errorf("could not open for compression: %w", err)
		}

		defer func() {
			_ = f.Close() // nolint: errcheck
		}()

		buf := new(bytes.Buffer)
		gz := gzip.NewWriter(buf)

		if _, err := io.Copy(gz, f); err != nil {
			return nil, fmt.Errorf("could not compress: %w", err)
		}

		if err := gz.Close(); err != nil {
			return nil, fmt.Errorf("could not close compressor: %w", err)
		}

		return buf.Bytes(), nil
	}
}

type fetcherFunc func(ctx context.Context) error

func (f fetcherFunc) Fetch(ctx context.Context, _ *url.URL) (*crawler.Page, error) {
	return nil, f(ctx)
}

// fakePage is a page served by fakeFetcher.
type fakePage struct {
	status      int
	contentType string
	body        string
	redirectTo  string
	err         error
	// bodyErr is returned after the body is read.
	bodyErr error
}

// fakeFetcher serves pages from memory and records the fetched urls.
type fakeFetcher struct {
	pages map[string]fakePage

	mu      sync.Mutex
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, u *url.URL) (*crawler.Page, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, u.String())
	f.mu.Unlock()

	p, ok := f.pages[u.String()]
	if !ok {
		p = fakePage{status: http.StatusNotFound}
	}

	if p.err != nil {
		return nil, p.err
	}

	finalURL := u

	if p.redirectTo != "" {
		finalURL, _ = url.Parse(p.redirectTo) // nolint: errcheck
	}

	if p.status == 0 {
		p.status = http.StatusOK
	}

	if p.contentType == "" {
		p.contentType = "text/html"
	}

	var body io.Reader = strings.NewReader(p.body)

	if p.bodyErr != nil {
		body = io.MultiReader(body, iotest.ErrReader(p.bodyErr))
	}

	return &crawler.Page{
		URL:         finalURL,
		StatusCode:  p.status,
		ContentType: p.contentType,
		Body:        io.NopCloser(body),
	}, nil
}

func (f *fakeFetcher) Fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]string, len(f.fetched))
	copy(result, f.fetched)

	return result
}

func anchors(hrefs ...string) string {
	sb := new(strings.Builder)

	for _, href := range hrefs {
		_, _ = fmt.Fprintf(sb, "<a href=%q>link</a>\n", href)
	}

	return sb.String()
}

func badURLs(r crawler.Report) map[string]crawler.ErrorKind {
	result := make(map[string]crawler.ErrorKind, len(r.BadURLs))

	for _, b := range r.BadURLs {
		result[b.URL] = b.Kind
	}

	return result
}
