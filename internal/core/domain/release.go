package domain

import (
	"fmt"
	"slices"
)

// InstanceLabel is the label Helm charts put on every pod of a release.
const InstanceLabel = "app.kubernetes.io/instance"

// OverrideEntry is a single chart value override, passed to helm as --set key=value.
type OverrideEntry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

func (o OverrideEntry) String() string {
	return fmt.Sprintf("%s=%s", o.Key, o.Value)
}

// ReleaseConfig describes what to deploy. It is a value type: once built it
// is never mutated, enrichment produces a copy.
type ReleaseConfig struct {
	ChartReference string
	ReleaseName    string
	ValuesFilePath string
	Overrides      []OverrideEntry
	KubeconfigPath string
	Namespace      string
	Debug          bool
}

// WithOverrides returns a copy of the config with the given overrides appended
// after the existing ones.
func (r ReleaseConfig) WithOverrides(overrides []OverrideEntry) ReleaseConfig {
	enriched := r
	enriched.Overrides = append(slices.Clone(r.Overrides), overrides...)
	return enriched
}

// InstanceSelector returns the label selector matching the pods of the release.
func (r ReleaseConfig) InstanceSelector() string {
	return fmt.Sprintf("%s=%s", InstanceLabel, r.ReleaseName)
}

// ReadinessTarget is what the readiness waiter blocks on. It is derived from
// the cluster after install, never from the release config.
type ReadinessTarget struct {
	WorkloadName     string
	ExpectedReplicas int32
	LabelSelector    string
}
