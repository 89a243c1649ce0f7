package api

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	usernameCharset = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	emailShape      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// validateUsername returns the first failing rule's message, or "" when the
// username is acceptable. Order matters: length, spaces, case, charset.
func validateUsername(username string) string {
	if len(username) < 7 || len(username) > 20 {
		return "Username must be between 7 and 20 characters long"
	}
	if strings.Contains(username, " ") {
		return "Username cannot contain spaces"
	}
	if username != strings.ToLower(username) {
		return "Username must be in lowercase"
	}
	if !usernameCharset.MatchString(username) {
		return "Username can only contain letters and numbers"
	}
	return ""
}

// isValidEmail is a deliberately loose shape check, not an RFC validator.
func isValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

// isValidURL accepts anything that parses with a scheme and host. It says
// nothing about reachability.
func isValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
