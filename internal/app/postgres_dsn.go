package app

import (
	"net/url"
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	queryLiteralRegex    = regexp.MustCompile(`'(?:[^']|'')*'`)
)

// postgresDSN applies connection flags to a URL-style DSN and returns it with
// the database name used as a span attribute. Keyword-style DSNs are passed
// through unchanged.
func postgresDSN(raw, applicationName string, disablePreparedBinaryResult bool) (string, string) {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw, keywordDBName(raw)
	}

	query := parsed.Query()
	if disablePreparedBinaryResult && query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
	}
	if applicationName != "" && query.Get("application_name") == "" {
		query.Set("application_name", applicationName)
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
}

func keywordDBName(dsn string) string {
	for _, token := range strings.Fields(dsn) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
			return name
		}
	}
	return ""
}

// formatDBQueryForTrace collapses whitespace and masks string literals so
// blob keys and payloads do not end up in span attributes.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = queryLiteralRegex.ReplaceAllString(normalized, "'?'")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
