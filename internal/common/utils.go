package common

import "strings"

// FirstUsable returns the first value that is neither blank nor "unknown"
// (any case), or "" when there is none.
func FirstUsable(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, "unknown") {
			continue
		}
		return v
	}
	return ""
}

// FirstListItem returns the first entry of a comma separated list.
func FirstListItem(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
