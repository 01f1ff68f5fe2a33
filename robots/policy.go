/*
	robots package builds a per-domain fetch permission oracle from the body
	of a robots.txt file. Only the rules of the wildcard user-agent group
	("User-agent: *") are taken into account.
*/

package robots

import (
	"bufio"
	"bytes"
	"sort"
	"strings"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/mycok/wander/urlcanon"
)

const wildcardAgent = "*"

// Policy is the set of path prefixes that must not be fetched for a domain.
// A Policy is immutable once built and is safe for concurrent use.
type Policy struct {
	disallowed map[string]struct{}
	crawlDelay time.Duration
}

// Permissive returns a Policy that allows every path. It is used for domains
// without a fetchable robots.txt.
func Permissive() *Policy {
	return &Policy{disallowed: make(map[string]struct{})}
}

// Parse builds a Policy from a raw robots.txt body.
//
// The parser tracks whether it is inside the wildcard user-agent group: a
// "User-agent: *" line opens the group and any later "User-agent:" line
// naming a different agent closes it. "Disallow:" lines inside the group
// contribute their value, with all whitespace removed, to the disallowed set.
func Parse(body []byte) *Policy {
	p := Permissive()

	var inWildcardGroup bool

	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		field, value, ok := splitDirective(scanner.Text())
		if !ok {
			continue
		}

		switch field {
		case "user-agent":
			inWildcardGroup = value == wildcardAgent
		case "disallow":
			if !inWildcardGroup {
				continue
			}

			path := stripWhitespace(value)
			// An empty Disallow value allows everything.
			if path == "" {
				continue
			}

			p.disallowed[path] = struct{}{}
		}
	}

	p.crawlDelay = wildcardCrawlDelay(body)

	return p
}

// IsAllowed reports whether rawURL may be fetched under this policy. A URL
// is allowed iff no disallowed path is a prefix of its path.
func (p *Policy) IsAllowed(rawURL string) bool {
	if p == nil || len(p.disallowed) == 0 {
		return true
	}

	path := urlcanon.Path(rawURL)
	for prefix := range p.disallowed {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	return true
}

// DisallowedPaths returns the sorted list of disallowed path prefixes.
func (p *Policy) DisallowedPaths() []string {
	paths := make([]string, 0, len(p.disallowed))
	for path := range p.disallowed {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	return paths
}

// CrawlDelay returns the Crawl-delay declared for the wildcard group, or
// zero when none was declared.
func (p *Policy) CrawlDelay() time.Duration {
	if p == nil {
		return 0
	}

	return p.crawlDelay
}

// splitDirective splits a robots.txt line into a lower-cased field name and
// its value. Comments and lines without a colon are rejected.
func splitDirective(line string) (string, string, bool) {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}

	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", "", false
	}

	field := strings.ToLower(strings.TrimSpace(line[:colon]))
	value := strings.TrimSpace(line[colon+1:])

	return field, value, true
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func wildcardCrawlDelay(body []byte) time.Duration {
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return 0
	}

	group := data.FindGroup(wildcardAgent)
	if group == nil {
		return 0
	}

	return group.CrawlDelay
}
