package collector

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

var _ LinkCollector = (*HTMLLinkCollector)(nil)

// HTMLLinkCollector collects the href of the anchors of an HTML document.
//
//	c := NewHTMLLinkCollector()
//	links, err := c.GetLinks(r)
//	if err != nil {
//		return nil, err
//	}
//
//	fmt.Println(links)
type HTMLLinkCollector struct {
	tagAttributes map[string]string // Key is tag name, Value is attribute name.
}

// GetLinks collects the raw attribute values, they are not resolved nor validated.
func (c HTMLLinkCollector) GetLinks(r io.Reader) ([]string, error) {
	z := html.NewTokenizer(r)
	links := make([]string, 0, initialLinksCapacity)

process:
	for {
		switch tt := z.Next(); tt { // nolint: exhaustive // We ignore the other tokens because we focus on the tag attributes.
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				break process
			}

			return nil, fmt.Errorf("could not collect links from html doc: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if !hasAttr {
				continue
			}

			wantAttr, ok := c.tagAttributes[string(name)]
			if !ok {
				continue
			}

			for {
				key, val, more := z.TagAttr()

				if string(key) == wantAttr {
					links = append(links, string(val))

					break
				}

				if !more {
					break
				}
			}
		}
	}

	return shrink(links), nil
}

// NewHTMLLinkCollector creates a new collector for the `<a href>` links of an HTML document.
//
// Additional tags can be collected with WithTagAttribute, for example `WithTagAttribute("link", "href")`.
func NewHTMLLinkCollector(opts ...HTMLLinkCollectorOption) *HTMLLinkCollector {
	c := &HTMLLinkCollector{
		tagAttributes: map[string]string{
			"a": "href",
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// HTMLLinkCollectorOption is option to set up HTMLLinkCollector.
type HTMLLinkCollectorOption func(c *HTMLLinkCollector)

// WithTagAttribute collects the value of the attribute of the tag.
func WithTagAttribute(tag, attr string) HTMLLinkCollectorOption {
	return func(c *HTMLLinkCollector) {
		c.tagAttributes[tag] = attr
	}
}
