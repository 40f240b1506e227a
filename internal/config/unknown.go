package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// maxLevenshteinDistance is the maximum edit distance for "did you mean?"
// suggestions.
const maxLevenshteinDistance = 3

// knownKeys lists the valid keys of every config section.
var knownKeys = map[string][]string{
	"server":  {"addr", "password", "read_header_timeout", "shutdown_timeout"},
	"source":  {"credentials_file", "local_dir", "timezone", "type"},
	"export":  {"archive_name"},
	"logging": {"format", "level"},
	"metrics": {"addr", "enabled"},
}

// knownSections is the sorted list of section names.
var knownSections = func() []string {
	sections := make([]string, 0, len(knownKeys))
	for s := range knownKeys {
		sections = append(sections, s)
	}

	sort.Strings(sections)

	return sections
}()

// checkUnknownKeys reports every undecoded key, suggesting the closest known
// key where one is near enough.
func checkUnknownKeys(md *toml.MetaData) error {
	var errs []error

	reported := make(map[string]bool)
	for _, key := range md.Undecoded() {
		if len(key) == 0 {
			continue
		}

		if _, ok := knownKeys[key[0]]; !ok {
			// one error per unknown section, however many keys it holds
			if reported[key[0]] {
				continue
			}
			reported[key[0]] = true
		}

		errs = append(errs, unknownKeyError(key))
	}

	return errors.Join(errs...)
}

func unknownKeyError(key toml.Key) error {
	fields, ok := knownKeys[key[0]]
	if !ok {
		return withSuggestion(fmt.Sprintf("unknown config section %q", key[0]), key[0], knownSections)
	}

	if len(key) == 1 {
		return fmt.Errorf("config key %q must be a section", key[0])
	}

	return withSuggestion(fmt.Sprintf("unknown config key %q", strings.Join(key, ".")), key[1], fields)
}

func withSuggestion(msg, name string, known []string) error {
	if suggestion := closestMatch(name, known); suggestion != "" {
		return fmt.Errorf("%s, did you mean %q?", msg, suggestion)
	}
	return errors.New(msg)
}

// closestMatch finds the known key with the smallest Levenshtein distance.
// It returns "" when nothing is within maxLevenshteinDistance.
func closestMatch(unknown string, known []string) string {
	best := ""
	bestDist := maxLevenshteinDistance + 1

	for _, k := range known {
		if d := levenshtein(unknown, k); d < bestDist {
			bestDist = d
			best = k
		}
	}

	return best
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := range len(a) {
		curr[0] = i + 1

		for j := range len(b) {
			cost := 1
			if a[i] == b[j] {
				cost = 0
			}
			curr[j+1] = min(prev[j+1]+1, curr[j]+1, prev[j]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}
