package crawler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bool64/ctxd"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/nhatthm/linkcheck/internal/collector"
)

// Stats are the progress counters of the crawls of a LinkChecker, accumulated over all the runs.
//
// They are written by the supervisor and could be read concurrently.
type Stats struct {
	dispatched atomic.Int64
	resolved   atomic.Int64
	failed     atomic.Int64
	visited    atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Dispatched int64
	Resolved   int64
	Failed     int64
	Visited    int64
}

// Snapshot reads the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Dispatched: s.dispatched.Load(),
		Resolved:   s.resolved.Load(),
		Failed:     s.failed.Load(),
		Visited:    s.visited.Load(),
	}
}

// LinkChecker crawls a website from a seed url and reports the links that are broken.
//
// The pages of the seed's domain are fetched and their links are extracted recursively. The links to other domains are fetched to validate them
// but never extracted.
type LinkChecker struct {
	fetcher    Fetcher
	collectors collector.Registry
	log        ctxd.Logger
	stats      *Stats

	// client is used for creating the default fetcher when there is no custom one.
	client    *http.Client
	userAgent string

	// numWorkers is the number of workers running in parallel to use for crawling. Default value is defaultNumWorkers.
	numWorkers int
	// maxPages is the maximum number of visited urls of a run, 0 means unlimited.
	maxPages int
}

// Run crawls from the seed until there is no more work.
//
// Only an invalid seed and the cancellation of the context are errors. In case of cancellation, the partial report is returned along with
// ErrOperationCanceled.
func (c *LinkChecker) Run(ctx context.Context, seed string) (Report, error) {
	startTime := time.Now()
	ctx = ctxd.AddFields(ctx, "crawler.seed", seed)

	seedURL, err := parseSeed(seed)
	if err != nil {
		c.log.Error(ctx, "failed to parse seed", "error", err)

		return Report{Seed: seed}, err
	}

	ctx = ctxd.AddFields(ctx, "crawler.domain", seedURL.Host)

	c.log.Debug(ctx, "started crawling", "crawler.num_workers", c.numWorkers, "crawler.max_pages", c.maxPages)

	commands := make(chan Command)
	results := make(chan Result, c.numWorkers)

	sv := newSupervisor(ctx, seedURL, c.maxPages, c.stats, c.log)
	g, gCtx := errgroup.WithContext(ctx)

	for i := 0; i < c.numWorkers; i++ {
		w := worker{
			id:         i,
			fetcher:    c.fetcher,
			collectors: c.collectors,
			log:        c.log,
		}

		g.Go(func() error {
			return w.run(gCtx, commands, results)
		})
	}

	g.Go(func() error {
		return sv.run(gCtx, commands, results)
	})

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	report := sv.report(seed)
	report.Duration = time.Since(startTime)

	if err != nil {
		c.log.Error(ctx, "crawling canceled", "crawler.num_visited", len(report.Visited))

		return report, ErrOperationCanceled
	}

	c.log.Debug(ctx, "finished crawling",
		"crawler.duration", report.Duration.String(),
		"crawler.num_visited", len(report.Visited),
		"crawler.num_bad_urls", len(report.BadURLs),
	)

	return report, nil
}

// Stats returns the progress counters.
func (c *LinkChecker) Stats() *Stats {
	return c.stats
}

// NewLinkChecker creates a new LinkChecker.
//
// Usage:
//
//	c := NewLinkChecker(
//		WithNumWorkers(8),
//		WithMaxPages(100),
//		WithLinkCollector(collector.NewHTMLLinkCollector(), "text/html"),
//	)
//
//	report, err := c.Run(ctx, "https://example.org")
//	if err != nil {
//		return err
//	}
//
//	for _, b := range report.BadURLs {
//		fmt.Printf("%s: %s\n", b.URL, b.Err)
//	}
func NewLinkChecker(opts ...LinkCheckerOption) *LinkChecker {
	c := &LinkChecker{
		collectors: make(collector.Registry),
		log:        ctxd.NoOpLogger{},
		stats:      &Stats{},

		client:     &http.Client{}, // Default HTTP Client.
		userAgent:  defaultUserAgent,
		numWorkers: defaultNumWorkers,
	}

	for _, opt := range opts {
		opt.applyLinkCheckerOption(c)
	}

	// Safeguard the number of workers.
	if c.numWorkers < 1 {
		c.numWorkers = defaultNumWorkers
	} else if c.numWorkers > maxNumWorkers {
		c.numWorkers = maxNumWorkers
	}

	if c.maxPages < 0 {
		c.maxPages = 0
	}

	if c.fetcher == nil {
		if c.client.Timeout == 0 {
			c.client.Timeout = defaultTimeout
		}

		c.fetcher = NewHTTPFetcher(c.client, c.userAgent, c.log)
	}

	return c
}

// LinkCheckerOption is option to set up LinkChecker.
type LinkCheckerOption interface {
	applyLinkCheckerOption(c *LinkChecker)
}

type linkCheckerOptionFunc func(c *LinkChecker)

func (f linkCheckerOptionFunc) applyLinkCheckerOption(c *LinkChecker) {
	f(c)
}

// WithLogger sets logger for LinkChecker.
func WithLogger(l ctxd.Logger) LinkCheckerOption {
	return linkCheckerOptionFunc(func(c *LinkChecker) {
		c.log = l
	})
}

// WithNumWorkers sets number of workers for LinkChecker.
func WithNumWorkers(numWorkers int) LinkCheckerOption {
	return linkCheckerOptionFunc(func(c *LinkChecker) {
		c.numWorkers = numWorkers
	})
}

// WithMaxPages sets the maximum number of visited urls of a run. Once it is reached, the newly discovered links are ignored.
func WithMaxPages(maxPages int) LinkCheckerOption {
	return linkCheckerOptionFunc(func(c *LinkChecker) {
		c.maxPages = maxPages
	})
}

// WithClientTimeout sets timeout for fetching a page. It has no effect if a custom fetcher is used.
func WithClientTimeout(d time.Duration) LinkCheckerOption {
	return linkCheckerOptionFunc(func(c *LinkChecker) {
		c.client.Timeout = d
	})
}

// WithUserAgent sets the user agent of the requests. It has no effect if a custom fetcher is used.
func WithUserAgent(userAgent string) LinkCheckerOption {
	return linkCheckerOptionFunc(func(c *LinkChecker) {
		c.userAgent = userAgent
	})
}

// WithFetcher sets a custom fetcher for LinkChecker.
func WithFetcher(f Fetcher) LinkCheckerOption {
	return linkCheckerOptionFunc(func(c *LinkChecker) {
		c.fetcher = f
	})
}

// WithLinkCollectors sets link collectors for LinkChecker.
func WithLinkCollectors(collectors collector.Registry) LinkCheckerOption {
	return linkCheckerOptionFunc(func(c *LinkChecker) {
		c.collectors = collectors
	})
}

// WithLinkCollector sets link collector for LinkChecker for multiple content types.
func WithLinkCollector(lc collector.LinkCollector, contentTypes ...string) LinkCheckerOption {
	return linkCheckerOptionFunc(func(c *LinkChecker) {
		if c.collectors == nil {
			c.collectors = make(collector.Registry)
		}

		c.collectors.Register(lc, contentTypes...)
	})
}

// IsCanceled returns true if the error is caused by a cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrOperationCanceled) || errors.Is(err, context.Canceled)
}
