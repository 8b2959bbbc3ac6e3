package app

import "strings"

// Query spans carry a normalized copy of each statement. Collapsing the
// whitespace keeps multi-line builder output readable in the trace UI, and
// the cap keeps bulk IN lists from bloating span payloads.
const maxTracedQueryLength = 512

func formatDBQueryForTrace(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	normalized := strings.Join(fields, " ")
	if len(normalized) > maxTracedQueryLength {
		return normalized[:maxTracedQueryLength] + "..."
	}

	return normalized
}
