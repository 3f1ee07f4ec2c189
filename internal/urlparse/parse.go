// Package urlparse turns full API Colombia URLs into request paths.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/colombia-api/colombia-cli/internal/api"
)

// ParsedURL is a URL split at the /api/v1 prefix.
type ParsedURL struct {
	BaseURL  string // scheme://host[/prefix]/api/v1
	Path     string // percent-encoded, starts with "/", keeps any query string
	Resource string // first path segment, e.g. Department
	Endpoint string // catalogue name when the path matches one, else ""
}

const apiPrefix = "/api/v1"

// pathPattern matches the segment after the prefix: /{Resource}[/...]
var pathPattern = regexp.MustCompile(`^/([A-Za-z]+)(?:/.*)?$`)

var templateMatchers = compileTemplates()

type templateMatcher struct {
	name string
	re   *regexp.Regexp
}

func compileTemplates() []templateMatcher {
	endpoints := api.Endpoints()
	out := make([]templateMatcher, 0, len(endpoints))
	for _, e := range endpoints {
		expr := regexp.QuoteMeta(e.Template)
		expr = strings.Replace(expr, `\{id\}`, `\d+`, 1)
		expr = strings.Replace(expr, `\{text\}`, `[^/]+`, 1)
		out = append(out, templateMatcher{name: e.Name, re: regexp.MustCompile("^" + expr + "$")})
	}
	return out
}

// IsURL reports whether s looks like an absolute http(s) URL.
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Parse extracts the request path from a URL such as
// https://api-colombia.com/api/v1/Department/5/cities.
func Parse(rawURL string) (*ParsedURL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" {
		return nil, fmt.Errorf("invalid URL: missing scheme (expected https://...)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: missing host")
	}

	escaped := parsed.EscapedPath()
	idx := strings.Index(strings.ToLower(escaped), apiPrefix+"/")
	if idx < 0 {
		return nil, fmt.Errorf("invalid API Colombia URL: expected %s/{Resource}[/...] in the path", apiPrefix)
	}
	prefix := escaped[:idx+len(apiPrefix)]
	path := strings.TrimSuffix(escaped[idx+len(apiPrefix):], "/")

	matches := pathPattern.FindStringSubmatch(path)
	if matches == nil {
		return nil, fmt.Errorf("invalid API Colombia URL: expected %s/{Resource}[/...] in the path", apiPrefix)
	}

	p := &ParsedURL{
		BaseURL:  fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, prefix),
		Path:     path,
		Resource: matches[1],
	}
	for _, m := range templateMatchers {
		if m.re.MatchString(path) {
			p.Endpoint = m.name
			break
		}
	}
	if parsed.RawQuery != "" {
		p.Path += "?" + parsed.RawQuery
	}
	return p, nil
}

// SameBase reports whether the URL targets base, ignoring case and a
// trailing slash.
func (p *ParsedURL) SameBase(base string) bool {
	return strings.EqualFold(strings.TrimSuffix(base, "/"), p.BaseURL)
}
