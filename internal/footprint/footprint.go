// Package footprint periodically reports the resources usage and the crawl progress.
package footprint

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/bool64/ctxd"

	"github.com/nhatthm/linkcheck/internal/crawler"
)

const defaultReportInterval = 100 * time.Millisecond

// Track tracks the resources usage and the progress of the crawls and writes them to log until the context is canceled.
func Track(ctx context.Context, log ctxd.Logger, stats *crawler.Stats, opts ...Option) {
	t := tracker{interval: defaultReportInterval}

	for _, opt := range opts {
		opt(&t)
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			trackMemory(ctx, log)

			if stats != nil {
				trackProgress(ctx, log, stats.Snapshot())
			}
		}
	}
}

type tracker struct {
	interval time.Duration
}

// Option configures Track.
type Option func(t *tracker)

// WithInterval sets the reporting interval.
func WithInterval(d time.Duration) Option {
	return func(t *tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

func trackMemory(ctx context.Context, log ctxd.Logger) {
	// See: https://golang.org/pkg/runtime/#MemStats
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	log.Debug(ctx, "memory usage",
		"alloc_mb", formatB(m.Alloc),
		"total_alloc_mb", formatB(m.TotalAlloc),
		"sys_mb", formatB(m.Sys),
		"num_gc", m.NumGC,
		"num_goroutine", runtime.NumGoroutine(),
	)
}

func trackProgress(ctx context.Context, log ctxd.Logger, s crawler.StatsSnapshot) {
	log.Debug(ctx, "crawl progress",
		"crawler.dispatched", s.Dispatched,
		"crawler.resolved", s.Resolved,
		"crawler.outstanding", s.Dispatched-s.Resolved,
		"crawler.failed", s.Failed,
		"crawler.visited", s.Visited,
	)
}

func formatB(b uint64) string {
	return fmt.Sprintf("%dMiB", b/1024/1024) // nolint: gomnd // bytes conversion.
}
