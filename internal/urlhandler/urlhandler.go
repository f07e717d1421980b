package urlhandler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var trackingParamPrefixes = []string{"utm_", "fbclid", "gclid", "mc_cid", "mc_eid"}

// NormalizeURL trims rawURL, lowercases scheme and host and drops tracking
// query parameters. The fragment is kept: two documents of a service may live
// on one page. Only absolute http and https URLs are accepted.
func NormalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", errors.New("URL is empty or only whitespace")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", trimmed, err)
	}
	if err := checkAbsoluteHTTP(u); err != nil {
		return "", fmt.Errorf("invalid URL '%s': %w", trimmed, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if isTrackingParam(key) {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// ValidateURLFormat reports whether rawURL is an absolute http(s) URL.
func ValidateURLFormat(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("could not parse URL: %w", err)
	}
	return checkAbsoluteHTTP(u)
}

func checkAbsoluteHTTP(u *url.URL) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return errors.New("URL lacks a scheme")
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return errors.New("URL lacks a valid hostname")
	}
	return nil
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range trackingParamPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
