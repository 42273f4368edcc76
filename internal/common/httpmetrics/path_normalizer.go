package httpmetrics

import (
	"regexp"
	"strings"
)

var uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

var knownPaths = map[string]struct{}{
	"/":                 {},
	"/health":           {},
	"/metrics":          {},
	"/token-for-docs":   {},
	"/register":         {},
	"/login":            {},
	"/edit-profile":     {},
	"/get-current-user": {},
}

// NormalizePath keeps metric label cardinality bounded: known routes pass
// through, ids become placeholders and anything else collapses to "other".
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}

	normalized := uuidRegex.ReplaceAllString(path, "{id}")

	parts := strings.Split(normalized, "/")
	changed := normalized != path
	for i, part := range parts {
		if isNumeric(part) {
			parts[i] = "{param}"
			changed = true
		}
	}
	if !changed {
		return "other"
	}

	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
