package app

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// normalizeDBURL sets application_name and a server side statement_timeout on
// URL-style DSNs unless the operator already chose values. Key/value DSNs are
// returned untouched.
func normalizeDBURL(raw, applicationName string, statementTimeout time.Duration) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if applicationName != "" && query.Get("application_name") == "" {
		query.Set("application_name", applicationName)
	}
	if statementTimeout > 0 && query.Get("statement_timeout") == "" {
		query.Set("statement_timeout", strconv.FormatInt(statementTimeout.Milliseconds(), 10))
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
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
