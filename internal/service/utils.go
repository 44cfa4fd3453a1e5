package service

import "strings"

// sanitizeUTF8 drops invalid UTF-8 bytes; PostgreSQL text columns reject them.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}
