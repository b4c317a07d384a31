package cmd

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"testing"

	"helmtest/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsSource_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("helm.set.image.tag", "from-env")
	t.Setenv("openshift.namespace", "env-ns")
	t.Setenv("HELMTEST_UNRELATED", "ignored")
	properties = []string{"helm.set.image.tag=from-flag", "helm.set.url=http://a=b"}
	configPath = "/ci/helmtest.yaml"
	t.Cleanup(func() {
		properties = nil
		configPath = ""
	})

	source, err := settingsSource()

	require.NoError(t, err)
	assert.Equal(t, "/ci/helmtest.yaml", source.ConfigPath)
	assert.Equal(t, "from-flag", source.Properties["helm.set.image.tag"])
	assert.Equal(t, "http://a=b", source.Properties["helm.set.url"])
	assert.Equal(t, "env-ns", source.Properties["openshift.namespace"])
	assert.NotContains(t, source.Properties, "HELMTEST_UNRELATED")
}

func TestSettingsSource_RejectsPropertyWithoutValue(t *testing.T) {
	properties = []string{"openshift.namespace"}
	t.Cleanup(func() { properties = nil })

	_, err := settingsSource()

	assert.ErrorContains(t, err, "must be key=value")
}

func TestReleaseFlags_Request(t *testing.T) {
	flags := releaseFlags{
		artifactDir: "target/test-classes",
		valuesFile:  "charts/helm.yaml",
		releaseName: "demo-release",
		overrides:   []string{"image.tag=1.2.3", "env=a=b"},
		skipClean:   true,
	}

	request, err := flags.request()

	require.NoError(t, err)
	assert.Equal(t, "demo-release", request.ReleaseName)
	assert.True(t, request.SkipClean)
	assert.Equal(t, []domain.OverrideEntry{
		{Key: "image.tag", Value: "1.2.3"},
		{Key: "env", Value: "a=b"},
	}, request.Overrides)

	flags.overrides = []string{"image.tag"}
	_, err = flags.request()
	assert.ErrorContains(t, err, "must be key=value")
}

func TestExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	commandErr := exec.Command("sh", "-c", "exit 7").Run()
	require.Error(t, commandErr)

	assert.Equal(t, 7, exitCode(fmt.Errorf("command 'sh' failed: %w", commandErr)))
	assert.Equal(t, 7, exitCode(errors.Join(fmt.Errorf("command 'sh' failed: %w", commandErr), errors.New("uninstall failed"))))
	assert.Equal(t, 1, exitCode(errors.New("no command to run against release demo-release")))
}
