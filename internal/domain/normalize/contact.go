package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Profile domains matched against scraped and model-provided links.
const (
	LinkedInDomain = "linkedin.com"
	GitHubDomain   = "github.com"
)

const indiaCountryCode = "+91"

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	dobPattern   = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

// Email returns v when it has the local@domain.tld shape, otherwise "".
func Email(v string) string {
	v = strings.TrimSpace(v)
	if !emailPattern.MatchString(v) {
		return ""
	}
	return v
}

// Phone strips whitespace, hyphens, parentheses and a leading +91, and keeps
// the result only if exactly ten digits remain.
func Phone(v string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, v)
	cleaned = strings.TrimPrefix(cleaned, indiaCountryCode)
	if !phonePattern.MatchString(cleaned) {
		return ""
	}
	return cleaned
}

// DateOfBirth keeps v only in DD-MM-YYYY digit grouping.
func DateOfBirth(v string) string {
	v = strings.TrimSpace(v)
	if !dobPattern.MatchString(v) {
		return ""
	}
	return v
}

// ProfileURL resolves a LinkedIn or GitHub field. An empty value falls back to
// the link scraped from the document. A value without an http scheme that
// mentions domain is rewritten as an https URL. Anything else, including "",
// is kept.
func ProfileURL(v, scraped, domain string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		v = strings.TrimSpace(scraped)
	}
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http") || !strings.Contains(lower, domain) {
		return v
	}
	if i := strings.Index(v, "://"); i >= 0 {
		v = v[i+len("://"):]
	}
	return "https://" + strings.TrimLeft(v, "/")
}
