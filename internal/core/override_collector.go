package core

import (
	"maps"
	"slices"
	"strings"

	"helmtest/internal/core/domain"
)

// CollectOverrides turns every source entry whose key starts with prefix into
// a chart override named after the rest of the key. Entries are ordered by
// source key so the resulting helm command line is reproducible. A key equal
// to the prefix yields an override with an empty key, which callers reject.
func CollectOverrides(prefix string, source map[string]string) []domain.OverrideEntry {
	if prefix == "" {
		return nil
	}

	var overrides []domain.OverrideEntry
	for _, key := range slices.Sorted(maps.Keys(source)) {
		name, found := strings.CutPrefix(key, prefix)
		if !found {
			continue
		}
		overrides = append(overrides, domain.OverrideEntry{Key: name, Value: source[key]})
	}
	return overrides
}
