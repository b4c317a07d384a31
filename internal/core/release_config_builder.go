package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"helmtest/internal/core/domain"
	"helmtest/internal/ports"

	"helm.sh/helm/v3/pkg/strvals"
	"k8s.io/apimachinery/pkg/util/validation"
)

// ReleaseConfigBuilder assembles a domain.ReleaseConfig from the directory the
// test artifacts were built into. Values files are looked up relative to the
// project root, two levels above the artifact directory.
type ReleaseConfigBuilder struct {
	fileSystem     ports.FileSystem
	artifactDir    string
	releaseName    string
	chart          string
	valuesFile     string
	kubeconfigPath string
	namespace      string
	debug          bool
	overrides      []domain.OverrideEntry
	layout         domain.OutputLayout
}

func NewReleaseConfigBuilder(fileSystem ports.FileSystem, artifactDir string, releaseName string) *ReleaseConfigBuilder {
	return &ReleaseConfigBuilder{
		fileSystem:  fileSystem,
		artifactDir: artifactDir,
		releaseName: releaseName,
		chart:       domain.DefaultChart,
		layout: domain.OutputLayout{
			Parent: domain.DefaultBuildDir,
			Leaf:   domain.DefaultArtifactDir,
		},
	}
}

// NewReleaseConfigBuilderFromSettings seeds a builder with the chart, cluster
// access and output layout from settings.
func NewReleaseConfigBuilderFromSettings(
	fileSystem ports.FileSystem,
	settings *domain.Settings,
	artifactDir string,
	releaseName string,
) *ReleaseConfigBuilder {
	builder := NewReleaseConfigBuilder(fileSystem, artifactDir, releaseName).
		Kubeconfig(settings.KubeconfigPath).
		Namespace(settings.Namespace).
		Debug(settings.Debug).
		OutputLayout(settings.OutputLayout.Parent, settings.OutputLayout.Leaf)
	if settings.Chart != "" {
		builder.Chart(settings.Chart)
	}
	return builder
}

func (b *ReleaseConfigBuilder) Chart(chartReference string) *ReleaseConfigBuilder {
	b.chart = chartReference
	return b
}

// ValuesFile sets the values file, relative to the project root.
func (b *ReleaseConfigBuilder) ValuesFile(relativePath string) *ReleaseConfigBuilder {
	b.valuesFile = relativePath
	return b
}

func (b *ReleaseConfigBuilder) Kubeconfig(path string) *ReleaseConfigBuilder {
	b.kubeconfigPath = path
	return b
}

func (b *ReleaseConfigBuilder) Namespace(namespace string) *ReleaseConfigBuilder {
	b.namespace = namespace
	return b
}

func (b *ReleaseConfigBuilder) Debug(debug bool) *ReleaseConfigBuilder {
	b.debug = debug
	return b
}

// AddOverride adds an explicit chart override. Explicit overrides are passed
// to helm before the collected ones.
func (b *ReleaseConfigBuilder) AddOverride(key, value string) *ReleaseConfigBuilder {
	b.overrides = append(b.overrides, domain.OverrideEntry{Key: key, Value: value})
	return b
}

func (b *ReleaseConfigBuilder) OutputLayout(parent, leaf string) *ReleaseConfigBuilder {
	b.layout = domain.OutputLayout{Parent: parent, Leaf: leaf}
	return b
}

// Build validates the collected input and returns the release config. It only
// inspects the local filesystem; failures are always ConfigurationErrors.
func (b *ReleaseConfigBuilder) Build() (domain.ReleaseConfig, error) {
	if b.valuesFile == "" {
		return domain.ReleaseConfig{}, domain.NewConfigurationError("no values file was set for release %s", b.releaseName)
	}
	if err := validateReleaseName(b.releaseName); err != nil {
		return domain.ReleaseConfig{}, err
	}
	if strings.TrimSpace(b.chart) == "" {
		return domain.ReleaseConfig{}, domain.NewConfigurationError("no chart reference was set for release %s", b.releaseName)
	}

	projectRoot, err := b.projectRoot()
	if err != nil {
		return domain.ReleaseConfig{}, err
	}

	valuesPath := b.valuesFile
	if !filepath.IsAbs(valuesPath) {
		valuesPath = filepath.Join(projectRoot, valuesPath)
	}
	exists, err := b.fileSystem.FileExists(valuesPath)
	if err != nil {
		return domain.ReleaseConfig{}, &domain.ConfigurationError{
			Reason: fmt.Sprintf("cannot check values file %s", valuesPath),
			Err:    err,
		}
	}
	if !exists {
		return domain.ReleaseConfig{}, domain.NewConfigurationError("values file %s does not exist", valuesPath)
	}

	for _, override := range b.overrides {
		if err := validateOverride(override); err != nil {
			return domain.ReleaseConfig{}, err
		}
	}

	return domain.ReleaseConfig{
		ChartReference: b.chart,
		ReleaseName:    b.releaseName,
		ValuesFilePath: valuesPath,
		Overrides:      append([]domain.OverrideEntry(nil), b.overrides...),
		KubeconfigPath: b.kubeconfigPath,
		Namespace:      b.namespace,
		Debug:          b.debug,
	}, nil
}

// projectRoot checks that the artifact directory ends in the expected
// <parent>/<leaf> layout and returns the directory above <parent>.
func (b *ReleaseConfigBuilder) projectRoot() (string, error) {
	if b.artifactDir == "" {
		return "", domain.NewConfigurationError("no artifact directory was set")
	}
	artifactDir, err := filepath.Abs(b.artifactDir)
	if err != nil {
		return "", &domain.ConfigurationError{Reason: "cannot resolve artifact directory", Err: err}
	}

	leaf := filepath.Base(artifactDir)
	parentDir := filepath.Dir(artifactDir)
	parent := filepath.Base(parentDir)
	if leaf != b.layout.Leaf || parent != b.layout.Parent {
		return "", domain.NewConfigurationError(
			"artifact directory %s does not end in %s",
			artifactDir,
			filepath.Join(b.layout.Parent, b.layout.Leaf),
		)
	}
	return filepath.Dir(parentDir), nil
}

func validateReleaseName(name string) error {
	if name == "" {
		return domain.NewConfigurationError("release name must not be empty")
	}
	if errs := validation.IsDNS1123Subdomain(name); len(errs) > 0 {
		return domain.NewConfigurationError("release name '%s' is invalid: %s", name, strings.Join(errs, "; "))
	}
	return nil
}

// validateOverride runs the override through the parser helm applies to --set,
// so an expression helm would reject fails before anything is installed.
func validateOverride(override domain.OverrideEntry) error {
	if override.Key == "" {
		return domain.NewConfigurationError("override with value '%s' has an empty key", override.Value)
	}
	if _, err := strvals.Parse(override.String()); err != nil {
		return &domain.ConfigurationError{
			Reason: fmt.Sprintf("override '%s' is not a valid --set expression", override.String()),
			Err:    err,
		}
	}
	return nil
}
