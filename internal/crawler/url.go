package crawler

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// parseSeed parses the seed string into an url.URL.
//
// - If the url string does not have a scheme, it will default to https.
// - If the url string is not a valid url, it will return an error.
// - If the url string does not start with http and https, it will return an error.
func parseSeed(s string) (*url.URL, error) {
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, err // nolint: wrapcheck // *url.URL error is meaningful, we do not need to wrap it.
	}

	if u.Host == "" {
		return nil, fmt.Errorf("parse %q: %w", s, ErrMissingHostname)
	}

	if !isHTTPScheme(u.Scheme) {
		return nil, fmt.Errorf("parse %q: %w %q", s, ErrUnsupportedScheme, u.Scheme)
	}

	return canonicalURL(u), nil
}

// ResolveLink resolves a possibly-relative href against the base url and returns the canonical absolute url.
//
// For example: given a `http://localhost/path/` base
//   - href: .
//     result: http://localhost/path/
//   - href: /absolute/path/to/file.html
//     result: http://localhost/absolute/path/to/file.html
//   - href: to/file.html#anchor
//     result: http://localhost/path/to/file.html
//   - href: https://Example.org:443
//     result: https://example.org/
//
// Links with a scheme other than http and https are rejected with ErrUnsupportedScheme.
func ResolveLink(base *url.URL, href string) (*url.URL, error) {
	// In HTML, \n does not mean new line, browsers ignore it.
	ref, err := url.Parse(strings.TrimSpace(strings.ReplaceAll(href, "\n", "")))
	if err != nil {
		return nil, err // nolint: wrapcheck
	}

	u := base.ResolveReference(ref)

	if !isHTTPScheme(u.Scheme) {
		return nil, fmt.Errorf("resolve %q: %w %q", href, ErrUnsupportedScheme, u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("resolve %q: %w", href, ErrMissingHostname)
	}

	return canonicalURL(u), nil
}

// canonicalURL returns a copy of the url that is used as the identity of a page.
//
// The host is lower-cased and stripped of the default port of the scheme, an empty path becomes "/" and the fragment is removed.
func canonicalURL(u *url.URL) *url.URL {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = canonicalHost(c.Scheme, c.Host)
	c.Fragment = ""
	c.RawFragment = ""
	c.User = nil

	if c.Path == "" && c.Opaque == "" {
		c.Path = "/"
		c.RawPath = ""
	}

	return &c
}

// canonicalHost lower-cases the host and removes the port if it is the default one of the scheme.
func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)

	h, port, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		if strings.Contains(h, ":") {
			return "[" + h + "]"
		}

		return h
	}

	return host
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)

	return scheme == "http" || scheme == "https"
}
