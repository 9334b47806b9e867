package collector_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatthm/linkcheck/internal/collector"
)

func TestHTMLLinkCollector_GetLinks_Error(t *testing.T) {
	t.Parallel()

	c := collector.NewHTMLLinkCollector()

	actual, err := c.GetLinks(newErrorReader(errors.New("random error")))

	assert.EqualError(t, err, "could not collect links from html doc: random error")
	assert.Nil(t, actual)
}

func TestHTMLLinkCollector_GetLinks_Success(t *testing.T) {
	t.Parallel()

	c := collector.NewHTMLLinkCollector()

	actual, err := c.GetLinks(openFixture(t, sampleHTML))
	require.NoError(t, err, "could not get links")

	expected := []string{
		"/",
		"/about",
		"docs/intro.html",
		"#top",
		"https://example.org/blog?page=2",
		"/about",
		"://bad",
		"mailto:john@example.com",
		"",
	}

	assert.Equal(t, expected, actual)
}

func TestHTMLLinkCollector_GetLinks_WithTagAttribute(t *testing.T) {
	t.Parallel()

	c := collector.NewHTMLLinkCollector(
		collector.WithTagAttribute("link", "href"),
		collector.WithTagAttribute("img", "src"),
	)

	actual, err := c.GetLinks(strings.NewReader(`
		<link rel="stylesheet" href="/style.css">
		<a href="/page">Page</a>
		<img alt="logo" src="/logo.png"/>
	`))
	require.NoError(t, err, "could not get links")

	expected := []string{"/style.css", "/page", "/logo.png"}

	assert.Equal(t, expected, actual)
}

func TestHTMLLinkCollector_GetLinks_Unescape(t *testing.T) {
	t.Parallel()

	c := collector.NewHTMLLinkCollector()

	actual, err := c.GetLinks(strings.NewReader(`<A HREF="/search?q=go&amp;page=1">Search</A>`))
	require.NoError(t, err, "could not get links")

	assert.Equal(t, []string{"/search?q=go&page=1"}, actual)
}
