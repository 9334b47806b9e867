package crawler

import (
	"net/url"
	"sort"
	"time"
)

const (
	// defaultNumWorkers is the default value for number of workers.
	defaultNumWorkers = 10
	// maxNumWorkers is the limitation for number of workers to avoid resource saturation.
	maxNumWorkers = 24

	// defaultTimeout is the default timeout for requesting an url.
	defaultTimeout = 30 * time.Second
)

// Command is a unit of work dispatched by the supervisor to the workers.
//
// A command is immutable once it is dispatched.
type Command struct {
	URL          *url.URL
	ExtractLinks bool
}

// Result is the outcome of exactly one consumed Command.
//
// When Err is nil, the result is a success and Links holds the resolved absolute links of the page, if any. Otherwise, the result is a failure of
// Command.URL, the url that was dispatched, not the one the server redirected to.
type Result struct {
	Command Command
	Links   []*url.URL
	Err     error
}

// Failed returns true if the result is a failure.
func (r Result) Failed() bool {
	return r.Err != nil
}

// BadURL is an url that could not be fetched or that responded with a non-2xx status code.
type BadURL struct {
	URL  string
	Kind ErrorKind
	Err  error
}

// Report is the outcome of a crawl run.
type Report struct {
	Seed   string
	Domain string
	// Visited contains every url a command was dispatched for, sorted.
	Visited []string
	// BadURLs is in the order the failures were received.
	BadURLs  []BadURL
	Duration time.Duration
}

// OK returns true if no bad url was found.
func (r Report) OK() bool {
	return len(r.BadURLs) == 0
}

// Reachable returns the visited urls that were confirmed reachable.
func (r Report) Reachable() []string {
	bad := make(map[string]struct{}, len(r.BadURLs))

	for _, b := range r.BadURLs {
		bad[b.URL] = struct{}{}
	}

	result := make([]string, 0, len(r.Visited))

	for _, u := range r.Visited {
		if _, ok := bad[u]; !ok {
			result = append(result, u)
		}
	}

	return result
}

func sortedURLs(urls []string) []string {
	result := make([]string, len(urls))
	copy(result, urls)
	sort.Strings(result)

	return result
}
