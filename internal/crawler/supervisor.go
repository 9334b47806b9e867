package crawler

import (
	"context"
	"net/url"

	"github.com/bool64/ctxd"
)

// state is the crawl state. It is owned by the supervisor, the workers never read nor write it.
type state struct {
	domain      string
	visited     map[string]struct{}
	order       []string
	outstanding int
	badURLs     []BadURL
	maxPages    int
}

// supervisor dispatches the commands, consumes the results and detects the termination.
type supervisor struct {
	state    state
	frontier *frontier
	stats    *Stats
	log      ctxd.Logger
}

func newSupervisor(ctx context.Context, seed *url.URL, maxPages int, stats *Stats, log ctxd.Logger) *supervisor {
	s := &supervisor{
		state: state{
			domain:   seed.Host,
			visited:  make(map[string]struct{}),
			maxPages: maxPages,
		},
		frontier: newFrontier(),
		stats:    stats,
		log:      log,
	}

	s.visit(ctx, seed)
	s.dispatch(Command{URL: seed, ExtractLinks: true})

	return s
}

// run loops until there is no outstanding command or the context is canceled. The commands channel is closed when it returns.
//
// The supervisor never blocks on sending a command: the head of the frontier is offered to the workers while the results are being received.
func (s *supervisor) run(ctx context.Context, commands chan<- Command, results <-chan Result) error {
	defer close(commands)

	s.log.Debug(ctx, "started supervisor")

	for s.state.outstanding > 0 {
		var (
			out  chan<- Command
			next Command
		)

		if cmd, ok := s.frontier.Peek(); ok {
			out, next = commands, cmd
		}

		select {
		case <-ctx.Done():
			s.log.Debug(ctx, "supervisor stopped", "crawler.outstanding", s.state.outstanding)

			return ErrOperationCanceled

		case out <- next:
			s.frontier.Pop()

		case r := <-results:
			s.handle(ctx, r)
		}
	}

	// The last results may be received after the cancellation, the crawl is still incomplete.
	if ctx.Err() != nil {
		s.log.Debug(ctx, "supervisor stopped after the last result")

		return ErrOperationCanceled
	}

	s.log.Debug(ctx, "finished supervisor", "crawler.num_visited", len(s.state.order))

	return nil
}

// handle applies one result to the state.
func (s *supervisor) handle(ctx context.Context, r Result) {
	s.state.outstanding--
	s.stats.resolved.Inc()

	ctx = ctxd.AddFields(ctx, "crawler.url", r.Command.URL.String())

	if r.Failed() {
		kind := ClassifyError(r.Err)

		// The url is neither good nor bad when its fetch is aborted by the cancellation of the run.
		if kind == KindCanceled {
			s.log.Debug(ctx, "visit canceled", "error", r.Err)

			return
		}

		s.state.badURLs = append(s.state.badURLs, BadURL{
			URL:  r.Command.URL.String(),
			Kind: kind,
			Err:  r.Err,
		})
		s.stats.failed.Inc()

		s.log.Debug(ctx, "bad url", "crawler.error_kind", kind, "error", r.Err)

		return
	}

	for _, link := range r.Links {
		if !s.visit(ctx, link) {
			continue
		}

		s.dispatch(Command{
			URL:          link,
			ExtractLinks: link.Host == s.state.domain,
		})
	}
}

// visit inserts the url into the visited set. It returns false if the url was visited or the visited set is full.
func (s *supervisor) visit(ctx context.Context, u *url.URL) bool {
	key := u.String()

	if _, ok := s.state.visited[key]; ok {
		return false
	}

	if s.state.maxPages > 0 && len(s.state.order) >= s.state.maxPages {
		s.log.Debug(ctx, "max pages reached, link ignored", "crawler.url", key, "crawler.max_pages", s.state.maxPages)

		return false
	}

	s.state.visited[key] = struct{}{}
	s.state.order = append(s.state.order, key)
	s.stats.visited.Inc()

	return true
}

func (s *supervisor) dispatch(cmd Command) {
	s.frontier.Push(cmd)
	s.state.outstanding++
	s.stats.dispatched.Inc()
}

// report creates the report of the current state.
func (s *supervisor) report(seed string) Report {
	badURLs := make([]BadURL, len(s.state.badURLs))
	copy(badURLs, s.state.badURLs)

	return Report{
		Seed:    seed,
		Domain:  s.state.domain,
		Visited: sortedURLs(s.state.order),
		BadURLs: badURLs,
	}
}
