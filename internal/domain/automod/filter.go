package automod

import (
	"regexp"
	"strings"
)

// Deny reasons. Fixed strings: the frontend matches on them.
const (
	ReasonLinks   = "Links are not allowed"
	ReasonWord    = "Message contains a banned word"
	ReasonPattern = "Message matches a blocked pattern"
)

// linkPattern recognizes http(s):// URLs and bare www. tokens.
var linkPattern = regexp.MustCompile(`(?i)(?:https?://[^\s<>"]+|www\.[^\s<>"]+)`)

// Check is a pure predicate over a candidate chat message. Evaluation order
// is links, then banned words, then banned regexes; the first match wins.
// Disabled automod allows everything.
func Check(message string, s Settings) Verdict {
	if !s.Enabled {
		return Verdict{Allowed: true}
	}

	if s.BlockLinks {
		for _, raw := range linkPattern.FindAllString(message, -1) {
			if !domainAllowed(hostOf(raw), s.AllowLinkDomains) {
				return Verdict{Allowed: false, Reason: ReasonLinks}
			}
		}
	}

	lower := strings.ToLower(message)
	for _, word := range s.BannedWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" && strings.Contains(lower, word) {
			return Verdict{Allowed: false, Reason: ReasonWord}
		}
	}

	for _, pattern := range s.BannedRegex {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			// A malformed admin-entered pattern must not break chat.
			continue
		}
		if re.MatchString(message) {
			return Verdict{Allowed: false, Reason: ReasonPattern}
		}
	}

	return Verdict{Allowed: true}
}

// hostOf extracts the lower-cased, www-stripped hostname from a matched
// link token.
func hostOf(raw string) string {
	host := strings.ToLower(raw)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	for _, sep := range []string{"/", "?", "#"} {
		if i := strings.Index(host, sep); i >= 0 {
			host = host[:i]
		}
	}
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}

// domainAllowed matches a hostname against the allow-list, accepting exact
// matches and subdomains.
func domainAllowed(host string, allowed []string) bool {
	for _, d := range allowed {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
