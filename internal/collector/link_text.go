package collector

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
)

var _ LinkCollector = (*TextLinkCollector)(nil)

// httpLinkRegexp is the regex used to extract absolute http(s) links from a string.
// Ref: https://mathiasbynens.be/demo/url-regex
var httpLinkRegexp = regexp.MustCompile(`(https?)://(-\.)?([^\s/?.#]+\.?)+(/\S*)?`)

// TextLinkCollector collects the absolute http(s) links of a plain text document.
type TextLinkCollector struct{}

// GetLinks collects links line by line.
func (t TextLinkCollector) GetLinks(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	links := make([]string, 0, initialLinksCapacity)

	for s.Scan() {
		links = append(links, httpLinkRegexp.FindAllString(s.Text(), -1)...)
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("could not collect links from text doc: %w", err)
	}

	return shrink(links), nil
}

// NewTextLinkCollector creates a new collector for collecting links from a text document.
func NewTextLinkCollector() *TextLinkCollector {
	return &TextLinkCollector{}
}
