package cli_test

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/nhatthm/httpmock"
	"github.com/nhatthm/httpmock/planner"
	"github.com/nhatthm/httpmock/request"
)

// Mock interfaces for testing.

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) {
	return f(p)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

type safeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

func (s *safeBuffer) Read(p []byte) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.buffer.Read(p) // nolint: wrapcheck
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.buffer.Write(p) // nolint: wrapcheck
}

func (s *safeBuffer) String() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.buffer.String()
}

// srvRequests generates a list of server urls for testing.
func srvRequests(srv *httpmock.Server, numRequests int) []string {
	result := make([]string, numRequests)

	for i := 0; i < numRequests; i++ {
		result[i] = fmt.Sprintf("%s/path%d", srv.URL(), i+1)
	}

	return result
}

// srvReplacer replaces the [server] and [domain] placeholders of an expectation.
func srvReplacer(srv *httpmock.Server) *strings.Replacer {
	return strings.NewReplacer(
		"[server]", srv.URL(),
		"[domain]", strings.TrimPrefix(srv.URL(), "http://"),
	)
}

var _ planner.Planner = (*unorderedPlanner)(nil)

// unorderedPlanner matches a request with the first expectation it satisfies, regardless of the order of the expectations.
type unorderedPlanner struct {
	expectations []*request.Request

	mu sync.Mutex
}

func (p *unorderedPlanner) IsEmpty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.expectations) == 0
}

func (p *unorderedPlanner) Expect(expect *request.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.expectations = append(p.expectations, expect)
}

func (p *unorderedPlanner) Plan(req *http.Request) (*request.Request, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error

	for i, expected := range p.expectations {
		if err = planner.MatchRequest(expected, req); err != nil {
			continue
		}

		if t := request.Repeatability(expected); t > 0 {
			request.SetRepeatability(expected, t-1)

			if t == 1 {
				p.expectations = append(p.expectations[:i:i], p.expectations[i+1:]...)
			}
		}

		return expected, nil
	}

	return nil, err
}

func (p *unorderedPlanner) Remain() []*request.Request {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.expectations
}

func (p *unorderedPlanner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.expectations = nil
}
