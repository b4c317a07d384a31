package cmd

import (
	"fmt"
	"strings"

	"helmtest/internal/core/domain"
	"helmtest/internal/core/handler"

	"github.com/spf13/cobra"
)

type releaseFlags struct {
	artifactDir string
	valuesFile  string
	releaseName string
	chart       string
	overrides   []string
	skipClean   bool
}

func (f *releaseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.artifactDir, "artifact-dir", "target/test-classes", "build output directory the values file is resolved from")
	cmd.Flags().StringVarP(&f.valuesFile, "values", "f", "", "values file relative to the project root")
	cmd.Flags().StringVarP(&f.releaseName, "release", "r", "", "release name")
	cmd.Flags().StringVar(&f.chart, "chart", "", "chart reference (default from settings)")
	cmd.Flags().StringArrayVar(&f.overrides, "set", nil, "chart override as key=value, may be repeated")
	cmd.Flags().BoolVar(&f.skipClean, "skip-clean", false, "do not clean the namespace before installing")
	_ = cmd.MarkFlagRequired("values")
	_ = cmd.MarkFlagRequired("release")
}

func (f *releaseFlags) request() (handler.ReleaseRequest, error) {
	overrides := make([]domain.OverrideEntry, 0, len(f.overrides))
	for _, override := range f.overrides {
		key, value, found := strings.Cut(override, "=")
		if !found {
			return handler.ReleaseRequest{}, fmt.Errorf("override '%s' must be key=value", override)
		}
		overrides = append(overrides, domain.OverrideEntry{Key: key, Value: value})
	}
	return handler.ReleaseRequest{
		ArtifactDir: f.artifactDir,
		ValuesFile:  f.valuesFile,
		ReleaseName: f.releaseName,
		Chart:       f.chart,
		Overrides:   overrides,
		SkipClean:   f.skipClean,
	}, nil
}
