// Package shared provides small helpers used by several adapters and the
// application layer.
package shared

import (
	"fmt"
	"strings"
)

// NormalizeID trims and lowercases a namespace or loader identifier.
// Identifiers compare case-insensitively everywhere.
func NormalizeID(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// trimmed response body. Empty bodies fall back to HTTPStatusError.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return HTTPStatusError(status, url)
	}
	return fmt.Errorf("status=%d url=%s response=%s", status, url, trimmed)
}
