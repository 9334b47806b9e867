package crawler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhatthm/linkcheck/internal/crawler"
)

type netTimeoutError struct{}

func (netTimeoutError) Error() string   { return "i/o timeout" }
func (netTimeoutError) Timeout() bool   { return true }
func (netTimeoutError) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		scenario string
		err      error
		expected crawler.ErrorKind
	}{
		{
			scenario: "nil",
			expected: crawler.KindUnknown,
		},
		{
			scenario: "unexpected status code",
			err:      fmt.Errorf("%w: %d", crawler.ErrUnexpectedStatusCode, 404),
			expected: crawler.KindHTTPStatus,
		},
		{
			scenario: "timeout",
			err:      fmt.Errorf("%w: i/o timeout", crawler.ErrTimeout),
			expected: crawler.KindTimeout,
		},
		{
			scenario: "deadline exceeded",
			err:      fmt.Errorf("get: %w", context.DeadlineExceeded),
			expected: crawler.KindTimeout,
		},
		{
			scenario: "net timeout",
			err:      fmt.Errorf("dial: %w", netTimeoutError{}),
			expected: crawler.KindTimeout,
		},
		{
			scenario: "operation canceled",
			err:      crawler.ErrOperationCanceled,
			expected: crawler.KindCanceled,
		},
		{
			scenario: "context canceled",
			err:      fmt.Errorf("get: %w", context.Canceled),
			expected: crawler.KindCanceled,
		},
		{
			scenario: "fetch failed",
			err:      fmt.Errorf("%w: connection refused", crawler.ErrFetchFailed),
			expected: crawler.KindFetch,
		},
		{
			scenario: "read body",
			err:      fmt.Errorf("%w: unexpected EOF", crawler.ErrReadBody),
			expected: crawler.KindFetch,
		},
		{
			scenario: "unknown",
			err:      errors.New("unknown error"),
			expected: crawler.KindUnknown,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.scenario, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, crawler.ClassifyError(tc.err))
		})
	}
}

func TestIsCanceled(t *testing.T) {
	t.Parallel()

	assert.True(t, crawler.IsCanceled(crawler.ErrOperationCanceled))
	assert.True(t, crawler.IsCanceled(fmt.Errorf("run: %w", context.Canceled)))
	assert.False(t, crawler.IsCanceled(crawler.ErrFetchFailed))
	assert.False(t, crawler.IsCanceled(nil))
}

func TestReport(t *testing.T) {
	t.Parallel()

	r := crawler.Report{
		Visited: []string{"https://example.org/", "https://example.org/a", "https://example.org/b"},
		BadURLs: []crawler.BadURL{
			{URL: "https://example.org/a", Kind: crawler.KindHTTPStatus},
		},
	}

	assert.False(t, r.OK())
	assert.Equal(t, []string{"https://example.org/", "https://example.org/b"}, r.Reachable())

	r.BadURLs = nil

	assert.True(t, r.OK())
	assert.Equal(t, r.Visited, r.Reachable())
}
