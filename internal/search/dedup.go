package search

import "deedfind/internal/types"

// Dedup keeps the first record for each distinct Key, preserving input order.
func Dedup(records []types.DeedRecord) []types.DeedRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]types.DeedRecord, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
