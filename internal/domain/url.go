package domain

import (
	"net/url"
	"strings"
)

// NormalizeURL prefixes https:// when the input has no http(s) scheme and
// validates the result.
func NormalizeURL(input string) (string, error) {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", &InvalidURLError{Input: input, Err: err}
	}
	if u.Host == "" {
		return "", &InvalidURLError{Input: input}
	}
	return s, nil
}

// NormalizeURLs normalizes every entry, failing on the first invalid one.
func NormalizeURLs(inputs []string) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		u, err := NormalizeURL(in)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// ExtractDomain returns the URL host with dots replaced by underscores, for
// use in file names. It falls back to "screenshot".
func ExtractDomain(rawURL string) string {
	host := "screenshot"
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return strings.ReplaceAll(host, ".", "_")
}
