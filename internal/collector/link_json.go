package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var _ LinkCollector = (*JSONLinkCollector)(nil)

// JSONLinkCollector collects the absolute http(s) links found in the string tokens, keys included, of a JSON document.
type JSONLinkCollector struct{}

// GetLinks collects links token by token, the document is never fully decoded.
func (JSONLinkCollector) GetLinks(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)
	links := make([]string, 0, initialLinksCapacity)

	for {
		token, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("could not collect links from json doc: %w", err)
		}

		if s, ok := token.(string); ok {
			links = append(links, httpLinkRegexp.FindAllString(s, -1)...)
		}
	}

	return shrink(links), nil
}

// NewJSONLinkCollector creates a new collector for collecting links from a JSON document.
func NewJSONLinkCollector() *JSONLinkCollector {
	return &JSONLinkCollector{}
}
