package middleware

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

const redacted = "[REDACTED]"

// Scrub patterns. Ids go first so the loose phone pattern never eats the
// digit groups of a UUID.
var scrubbers = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

// defaultMaskedQuery holds the query parameters that carry free text: q
// searches child names and communities.
var defaultMaskedQuery = map[string]struct{}{"q": {}}

var defaultMaskedHeaders = []string{"authorization", "cookie", "set-cookie"}

// RedactOptions adds names to the built-in masks. Header names match
// case-insensitively; query names match exactly.
type RedactOptions struct {
	MaskHeaders []string
	MaskQuery   []string
}

// RedactingLogger writes a debug line with the request headers and query
// through the request-scoped logger, so it must run after Logger. Session
// cookies and credentials are masked outright, free-text parameters are
// masked wholesale, and ids, e-mail addresses and phone numbers are scrubbed
// from everything else. Bodies are never logged.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	headers := make(map[string]struct{}, len(defaultMaskedHeaders)+len(opts.MaskHeaders))
	for _, h := range append(defaultMaskedHeaders, opts.MaskHeaders...) {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			headers[h] = struct{}{}
		}
	}
	query := make(map[string]struct{}, len(defaultMaskedQuery)+len(opts.MaskQuery))
	for q := range defaultMaskedQuery {
		query[q] = struct{}{}
	}
	for _, q := range opts.MaskQuery {
		if q = strings.TrimSpace(q); q != "" {
			query[q] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		lg := LoggerFrom(c)
		if ev := lg.Debug(); ev.Enabled() {
			ev.Str("scrubbed_query", scrub(maskQueryParams(c.Request.URL.RawQuery, query))).
				Interface("headers", scrubHeaders(c.Request.Header, headers)).
				Msg("request headers")
		}
		c.Next()
	}
}

func scrub(s string) string {
	for _, p := range scrubbers {
		s = p.re.ReplaceAllString(s, p.with)
	}
	return s
}

func scrubHeaders(h map[string][]string, masked map[string]struct{}) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := masked[strings.ToLower(k)]; ok {
			out[k] = redacted
			continue
		}
		out[k] = scrub(strings.Join(vv, ", "))
	}
	return out
}

// maskQueryParams replaces the value of every parameter named in names and
// leaves the rest of raw untouched.
func maskQueryParams(raw string, names map[string]struct{}) string {
	if raw == "" {
		return raw
	}
	parts := strings.Split(raw, "&")
	for i, part := range parts {
		name, _, _ := strings.Cut(part, "=")
		if n, err := url.QueryUnescape(name); err == nil {
			name = n
		}
		if _, ok := names[name]; ok {
			parts[i] = name + "=" + redacted
		}
	}
	return strings.Join(parts, "&")
}
