// Package uri extracts addressing information from loosely formatted SIP URIs.
//
// The accepted shape is
//
//	[sip:][user@]host[:port][;params]
//
// where any of the bracketed parts may be missing. The input is not validated
// against the RFC 3261 grammar: callers pass whatever the user typed.
package uri

import "regexp"

var domainRe = regexp.MustCompile(`^(?:sip:)?(?:[^@]+@)?([^:;>]+)`)

// ExtractDomain returns the host segment of the SIP URI: the text after the optional
// "sip:" scheme and "user@" part, up to the first ':', ';' or '>' character.
// The second return value is false when no host-like segment is found.
//
//	ExtractDomain("sip:alice@example.com:5060;foo=bar") // "example.com", true
//	ExtractDomain("not a uri")                          // "not a uri", true
//	ExtractDomain("")                                   // "", false
func ExtractDomain(sipURI string) (string, bool) {
	m := domainRe.FindStringSubmatch(sipURI)
	if m == nil {
		return "", false
	}
	return m[1], true
}
