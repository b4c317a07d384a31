package core

import (
	"testing"

	"helmtest/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestCollectOverrides(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		source   map[string]string
		expected []domain.OverrideEntry
	}{
		{
			name:   "prefixed keys are stripped and unrelated keys excluded",
			prefix: "helm.set.",
			source: map[string]string{"helm.set.a": "1", "helm.set.b": "2", "x": "3"},
			expected: []domain.OverrideEntry{
				{Key: "a", Value: "1"},
				{Key: "b", Value: "2"},
			},
		},
		{
			name:   "nested override names are kept intact",
			prefix: "helm.set.",
			source: map[string]string{
				"helm.set.deploy.replicas":    "2",
				"helm.set.build.uri":          "https://github.com/example/app.git",
				"openshift.namespace":         "qe-tests",
				"helm.setting.not.a.override": "x",
			},
			expected: []domain.OverrideEntry{
				{Key: "build.uri", Value: "https://github.com/example/app.git"},
				{Key: "deploy.replicas", Value: "2"},
			},
		},
		{
			name:   "empty values are forwarded",
			prefix: "helm.set.",
			source: map[string]string{"helm.set.image.tag": ""},
			expected: []domain.OverrideEntry{
				{Key: "image.tag", Value: ""},
			},
		},
		{
			name:   "bare prefix is passed through with an empty key",
			prefix: "helm.set.",
			source: map[string]string{"helm.set.": "1"},
			expected: []domain.OverrideEntry{
				{Key: "", Value: "1"},
			},
		},
		{
			name:     "no matching keys",
			prefix:   "helm.set.",
			source:   map[string]string{"x": "3"},
			expected: nil,
		},
		{
			name:     "nil source",
			prefix:   "helm.set.",
			source:   nil,
			expected: nil,
		},
		{
			name:     "empty prefix collects nothing",
			prefix:   "",
			source:   map[string]string{"a": "1"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CollectOverrides(tt.prefix, tt.source))
		})
	}
}

func TestCollectOverrides_IsStableAcrossCalls(t *testing.T) {
	source := map[string]string{}
	for _, key := range []string{"z", "m", "a", "q", "c", "k"} {
		source["helm.set."+key] = key
	}

	first := CollectOverrides("helm.set.", source)
	for range 20 {
		assert.Equal(t, first, CollectOverrides("helm.set.", source))
	}
	assert.Equal(t, "a", first[0].Key)
	assert.Equal(t, "z", first[len(first)-1].Key)
}
