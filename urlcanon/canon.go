/*
	urlcanon package normalizes links into the canonical absolute form that is
	used as the identity of a page across the crawler, the index and the
	ranked datasets. Two URLs refer to the same page iff their canonical
	strings are equal.

	Canonical form:
		- scheme is http or https.
		- the authority (host) is lower-cased, the path never is.
		- the host carries a "www." prefix.
		- a single trailing slash is removed from the path.
		- there is no fragment.
*/

package urlcanon

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

var (
	// ErrUnsupportedScheme is returned when a URL uses a scheme other than
	// http or https.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")

	// ErrMissingHost is returned when a URL has no authority segment.
	ErrMissingHost = errors.New("url has no host")
)

// Resolve expands href against the absolute base URL and returns its
// canonical form. It reports false for empty or fragment-only hrefs, for
// references that cannot be parsed and for links whose resolved scheme is
// not http or https.
func Resolve(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || href[0] == '#' {
		return "", false
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}

	resolved := resolveToAbsoluteURL(baseURL, href)
	if resolved == nil {
		return "", false
	}

	canonical, err := canonicalize(resolved)
	if err != nil {
		return "", false
	}

	return canonical, true
}

// Canonicalize returns the canonical form of an absolute http or https URL.
func Canonicalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}

	return canonicalize(u)
}

// MustCanonicalize is like Canonicalize but panics if raw cannot be
// canonicalized. It simplifies safe initialization of seed URLs.
func MustCanonicalize(raw string) string {
	canonical, err := Canonicalize(raw)
	if err != nil {
		panic(err)
	}

	return canonical
}

// Domain returns the second-level and top-level label pair of the URL's
// authority, ie. "example.com" for "http://www.sub.example.com/page". When
// the authority holds fewer than two dots it is returned as is.
func Domain(rawURL string) string {
	authority := Authority(rawURL)

	lastDot := strings.LastIndexByte(authority, '.')
	if lastDot <= 0 {
		return authority
	}

	secondLastDot := strings.LastIndexByte(authority[:lastDot], '.')
	if secondLastDot < 0 {
		return authority
	}

	return authority[secondLastDot+1:]
}

// Authority returns the segment between "://" and the first following "/"
// of rawURL.
func Authority(rawURL string) string {
	start := 0
	if idx := strings.Index(rawURL, "://"); idx >= 0 {
		start = idx + 3
	}

	rest := rawURL[start:]
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		rest = rest[:end]
	}

	return rest
}

// Path returns everything that follows the authority of rawURL, excluding
// any fragment. A URL with nothing after its authority yields "/".
func Path(rawURL string) string {
	start := 0
	if idx := strings.Index(rawURL, "://"); idx >= 0 {
		start = idx + 3
	}

	rest := rawURL[start:]
	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		rest = rest[:idx]
	}

	idx := strings.IndexAny(rest, "/?")
	if idx < 0 {
		return "/"
	}

	path := rest[idx:]
	if path[0] == '?' {
		path = "/" + path
	}

	return path
}

func canonicalize(u *url.URL) (string, error) {
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("canonicalize %q: %w", u.String(), ErrUnsupportedScheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("canonicalize %q: %w", u.String(), ErrMissingHost)
	}

	flags := purell.FlagLowercaseScheme | purell.FlagLowercaseHost |
		purell.FlagRemoveTrailingSlash | purell.FlagRemoveFragment |
		purell.FlagRemoveEmptyQuerySeparator
	// IP literals are left without a prefix; "www.10.0.0.1" does not
	// resolve to anything.
	if !isIPHost(u.Hostname()) {
		flags |= purell.FlagAddWWW
	}

	c := *u
	// purell leaves the raw fields and ForceQuery alone.
	c.RawPath = strings.TrimSuffix(c.RawPath, "/")
	c.RawFragment = ""
	c.ForceQuery = false

	// The normalized string is re-escaped by purell; the url package's own
	// encoding is kept instead so that canonical strings stay stable.
	_ = purell.NormalizeURL(&c, flags)

	return c.String(), nil
}

func isIPHost(host string) bool {
	return net.ParseIP(host) != nil
}

// resolveToAbsoluteURL expands target into an absolute URL using the
// following rules:
//   - targets starting with '//' are treated as absolute URLs that inherit
//     the protocol / scheme from relativeTo.
//   - all other targets are resolved relative to relativeTo.
//
// If the target URL cannot be parsed, a nil URL is returned.
func resolveToAbsoluteURL(relativeTo *url.URL, target string) *url.URL {
	if len(target) == 0 {
		return nil
	}

	// Network path references. ["//example.com"]
	if len(target) >= 2 && target[0] == '/' && target[1] == '/' {
		target = relativeTo.Scheme + ":" + target
	}

	parsedURL, err := url.Parse(target)
	if err != nil {
		return nil
	}

	return relativeTo.ResolveReference(parsedURL)
}
