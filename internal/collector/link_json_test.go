package collector_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatthm/linkcheck/internal/collector"
)

func TestJSONLinkCollector_GetLinks_Error(t *testing.T) {
	t.Parallel()

	c := collector.NewJSONLinkCollector()

	actual, err := c.GetLinks(newErrorReader(errors.New("random error")))

	assert.EqualError(t, err, "could not collect links from json doc: random error")
	assert.Nil(t, actual)
}

func TestJSONLinkCollector_GetLinks_Success(t *testing.T) {
	t.Parallel()

	c := collector.NewJSONLinkCollector()

	actual, err := c.GetLinks(openFixture(t, sampleJSON))
	require.NoError(t, err, "could not get links")

	expected := []string{
		"https://example.org/",
		"https://example.com/key",
		"http://mirror.example.net/a",
		"https://example.org/docs",
	}

	assert.Equal(t, expected, actual)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := collector.DefaultRegistry()

	testCases := []struct {
		mediaType string
		expected  collector.LinkCollector
	}{
		{mediaType: "text/html", expected: collector.NewHTMLLinkCollector()},
		{mediaType: "application/xhtml+xml", expected: collector.NewHTMLLinkCollector()},
		{mediaType: "application/json", expected: collector.NewJSONLinkCollector()},
		{mediaType: "text/x-json", expected: collector.NewJSONLinkCollector()},
		{mediaType: "text/plain", expected: collector.NewTextLinkCollector()},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.mediaType, func(t *testing.T) {
			t.Parallel()

			actual, ok := r.Lookup(tc.mediaType)

			assert.True(t, ok)
			assert.Equal(t, tc.expected, actual)
		})
	}

	_, ok := r.Lookup("image/png")

	assert.False(t, ok)
}
