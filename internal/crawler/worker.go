package crawler

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/bool64/ctxd"

	"github.com/nhatthm/linkcheck/internal/collector"
)

// maxDrainLen is the maximum number of bytes read from a discarded body so that the connection could be reused.
const maxDrainLen = 4 << 10

// worker fetches the pages of the commands it receives and emits exactly one result per command.
type worker struct {
	id         int
	fetcher    Fetcher
	collectors collector.Registry
	log        ctxd.Logger
}

// run loops until the commands channel is closed or the context is canceled.
func (w worker) run(ctx context.Context, commands <-chan Command, results chan<- Result) error {
	ctx = ctxd.AddFields(ctx, "crawler.worker_id", w.id)

	w.log.Debug(ctx, "started crawler worker")

	for {
		select {
		case <-ctx.Done():
			w.log.Debug(ctx, "stopped crawler worker")

			return nil

		case cmd, ok := <-commands:
			if !ok {
				w.log.Debug(ctx, "finished crawler worker")

				return nil
			}

			r := w.visit(ctx, cmd)

			select {
			case <-ctx.Done():
				return nil

			case results <- r:
			}
		}
	}
}

// visit fetches the page of the command and collects its links if required.
func (w worker) visit(ctx context.Context, cmd Command) (result Result) {
	startTime := time.Now()
	ctx = ctxd.AddFields(ctx,
		"crawler.url", cmd.URL.String(),
		"crawler.extract_links", cmd.ExtractLinks,
	)

	w.log.Debug(ctx, "started visiting")

	defer func() {
		w.log.Debug(ctx, "finished visiting", "crawler.duration", time.Since(startTime).String(), "crawler.num_links", len(result.Links))
	}()

	result = Result{Command: cmd}

	page, err := w.fetcher.Fetch(ctx, cmd.URL)
	if err != nil {
		result.Err = err

		return result
	}

	defer page.Body.Close() // nolint: errcheck

	if !isSuccessStatus(page.StatusCode) {
		w.log.Error(ctx, "unexpected http status code", "status_code", page.StatusCode)

		result.Err = fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, page.StatusCode)

		return result
	}

	if !cmd.ExtractLinks {
		_, _ = io.CopyN(io.Discard, page.Body, maxDrainLen) // nolint: errcheck

		return result
	}

	hrefs, err := w.collectLinks(ctx, page)
	if err != nil {
		result.Err = err

		return result
	}

	result.Links = w.resolveLinks(ctx, page.URL, hrefs)

	return result
}

// collectLinks collects the raw links with the collector registered for the content type of the page.
//
// A page without a collector for its content type has no links.
func (w worker) collectLinks(ctx context.Context, page *Page) ([]string, error) {
	ctx = ctxd.AddFields(ctx, "http.content_type", page.ContentType)

	linkCollector, ok := w.collectors.Lookup(page.ContentType)
	if !ok {
		w.log.Debug(ctx, "no collector for content type")

		return nil, nil
	}

	ctx = ctxd.AddFields(ctx, "crawler.collector", fmt.Sprintf("%T", linkCollector))

	hrefs, err := linkCollector.GetLinks(page.Body)
	if err != nil {
		w.log.Error(ctx, "failed to get links", "error", err)

		return nil, readError(ctx, err)
	}

	w.log.Debug(ctx, "collected links", "crawler.num_hrefs", len(hrefs))

	return hrefs, nil
}

// resolveLinks resolves the hrefs against the final url of the page. Invalid hrefs are logged and dropped.
func (w worker) resolveLinks(ctx context.Context, base *url.URL, hrefs []string) []*url.URL {
	links := make([]*url.URL, 0, len(hrefs))

	for _, href := range hrefs {
		link, err := ResolveLink(base, href)
		if err != nil {
			w.log.Debug(ctx, "ignored unparsable link", "crawler.href", href, "error", err)

			continue
		}

		links = append(links, link)
	}

	return links
}

// readError converts the error of reading the body of a page into a crawler error.
func readError(ctx context.Context, err error) error {
	switch ClassifyError(err) {
	case KindCanceled:
		if ctx.Err() != nil {
			return ErrOperationCanceled
		}

	case KindTimeout:
		return fmt.Errorf("%w: %s", ErrTimeout, err.Error())

	default:
	}

	return fmt.Errorf("%w: %s", ErrReadBody, err.Error())
}
