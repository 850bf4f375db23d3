package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// InvalidURLMessage is shown to users when a URL is rejected locally.
const InvalidURLMessage = "Please enter a valid URL (including http:// or https://)"

// ValidateURL trims and validates a URL string, returning a normalized value
// or an error if the URL is empty, relative, or not http/https.
func ValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("URL is required")
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("invalid URL: %q is not absolute", s)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("invalid URL: unsupported scheme %q", u.Scheme)
	}

	if u.Host == "" || u.Hostname() == "" {
		return "", fmt.Errorf("invalid URL: missing host")
	}

	return s, nil
}

// IsValidURL reports whether s is an absolute http or https URL.
func IsValidURL(s string) bool {
	_, err := ValidateURL(s)
	return err == nil
}
