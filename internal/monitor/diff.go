package monitor

import (
	"sort"

	"Domain_Monitor/internal/models"
)

// Diff computes the set difference between the freshly fetched candidates
// and the previously stored snapshot keys. Pure set arithmetic, no side
// effects: added = candidates − previous, removed = previous − candidates.
// Domains are compared by exact string equality; any normalization is the
// source fetcher's business.
func Diff(candidates, previous map[string]struct{}) models.DiffResult {
	result := models.DiffResult{
		Added:   make(map[string]struct{}),
		Removed: make(map[string]struct{}),
	}

	for domain := range candidates {
		if _, ok := previous[domain]; !ok {
			result.Added[domain] = struct{}{}
		}
	}

	for domain := range previous {
		if _, ok := candidates[domain]; !ok {
			result.Removed[domain] = struct{}{}
		}
	}

	return result
}

// sortedKeys returns the set members in lexicographic order for
// deterministic report output
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
