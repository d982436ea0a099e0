package services

import "strings"

// normalizeIdentifier canonicalizes a raw invite identifier by trimming and
// lowercasing it. The boolean result is false when nothing remains.
func normalizeIdentifier(raw string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	return normalized, normalized != ""
}

// looksLikeEmail classifies an identifier for validation purposes only;
// persistence never depends on this.
func looksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}
