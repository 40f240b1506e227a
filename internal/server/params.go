package server

import "strings"

// Query parameter names understood by the export endpoint.
const (
	ParamPassword  = "password"
	ParamFileIDs   = "fileIds"
	ParamFolderIDs = "folderIds"
)

// parseIDs flattens repeated query values into a list of IDs.
// With split set each value may itself be a comma-separated list and its
// elements are trimmed. Otherwise values are used unchanged. Empty IDs are
// dropped; returns nil if none remain.
func parseIDs(values []string, split bool) []string {
	var ids []string
	for _, v := range values {
		if split {
			ids = append(ids, parseCommaSeparatedList(v)...)
		} else if v != "" {
			ids = append(ids, v)
		}
	}
	return ids
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
