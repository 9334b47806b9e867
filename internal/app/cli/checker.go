package cli

import (
	"context"
	"sort"

	"github.com/bool64/ctxd"

	"github.com/nhatthm/linkcheck/internal/crawler"
)

// seedReport is the outcome of checking one seed.
type seedReport struct {
	crawler.Report

	// Err is set when the seed is invalid or the check is canceled. The report is partial in the latter case.
	Err error
}

func (r seedReport) success() bool {
	return r.Err == nil && r.OK()
}

// checkSummary aggregates the reports of all the seeds. It is safe to read once the reports channel is closed.
type checkSummary struct {
	visited   map[string]struct{}
	numFailed int
}

func (s *checkSummary) addVisited(urls []string) {
	if s.visited == nil {
		s.visited = make(map[string]struct{}, len(urls))
	}

	for _, u := range urls {
		s.visited[u] = struct{}{}
	}
}

// visitedURLs returns the sorted union of the visited urls of all the seeds.
func (s *checkSummary) visitedURLs() []string {
	result := make([]string, 0, len(s.visited))

	for u := range s.visited {
		result = append(result, u)
	}

	sort.Strings(result)

	return result
}

// seedChecker checks the seeds it receives and publishes one report per seed.
type seedChecker func(ctx context.Context, seeds <-chan string) (<-chan seedReport, *checkSummary)

// sequentialSeedChecker creates a new seed checker that checks the seeds one after another, each seed uses all the workers of the checker.
//
// The checker stops at the first canceled run, the partial report of that run is still published.
func sequentialSeedChecker(c *crawler.LinkChecker, log ctxd.Logger) seedChecker {
	return func(ctx context.Context, seeds <-chan string) (<-chan seedReport, *checkSummary) {
		reportsCh := make(chan seedReport)
		summary := &checkSummary{}

		go func() {
			defer close(reportsCh)

			for {
				var (
					seed string
					ok   bool
				)

				select {
				case <-ctx.Done():
					log.Debug(ctx, "seed checker stopped")

					return

				case seed, ok = <-seeds:
					if !ok {
						return
					}
				}

				report, err := c.Run(ctx, seed)
				r := seedReport{Report: report, Err: err}

				summary.addVisited(report.Visited)

				if !r.success() {
					summary.numFailed++
				}

				// The reports are always drained, even after a failed write.
				reportsCh <- r

				if crawler.IsCanceled(err) {
					return
				}
			}
		}()

		return reportsCh, summary
	}
}
