// Package collector provides the link collectors that extract raw links from fetched documents.
package collector

import "io"

// initialLinksCapacity is the initial capacity of the links slice, it does not mean this is the maximum capacity.
// It is just not recommended to have more than 100 links in a document due to SEO (Page Ranking) reason.
// Ref: https://moz.com/blog/how-many-links-is-too-many
const initialLinksCapacity = 100

// LinkCollector collects raw links from a reader, in document order, duplicates included.
type LinkCollector interface {
	GetLinks(r io.Reader) ([]string, error)
}

var _ LinkCollector = (LinkCollectorFunc)(nil)

// LinkCollectorFunc is a function that implements LinkCollector.
type LinkCollectorFunc func(r io.Reader) ([]string, error)

// GetLinks collects links from a reader.
func (f LinkCollectorFunc) GetLinks(r io.Reader) ([]string, error) {
	return f(r)
}

// Registry maps media types (without parameters) to link collectors.
type Registry map[string]LinkCollector

// Register registers a collector for multiple media types.
func (r Registry) Register(c LinkCollector, mediaTypes ...string) Registry {
	for _, t := range mediaTypes {
		r[t] = c
	}

	return r
}

// Lookup finds the collector for a media type.
func (r Registry) Lookup(mediaType string) (LinkCollector, bool) {
	c, ok := r[mediaType]

	return c, ok
}

// DefaultRegistry returns a registry with the HTML collector for HTML documents, the JSON collector for JSON documents and the text collector for
// plain text documents.
func DefaultRegistry() Registry {
	return Registry{}.
		Register(NewHTMLLinkCollector(), "text/html", "application/xhtml+xml").
		Register(NewJSONLinkCollector(), "application/json", "text/x-json").
		Register(NewTextLinkCollector(), "text/plain")
}

// shrink reduces memory allocation. GC will clean up the old links slice.
func shrink(links []string) []string {
	result := make([]string, len(links))
	copy(result, links)

	return result
}
