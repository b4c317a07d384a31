package core

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"helmtest/internal/core/domain"
	"helmtest/internal/ports"
	"helmtest/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
)

const settingsYAML = `namespace: qe-tests
apiUrl: https://api.example.com:6443
chart: demo/app
deployTimeout: 5m
pollInterval: 500ms
skipCleanLabels:
  - app.kubernetes.io/instance=shared
properties:
  helm.set.image.tag: "1.0"
  helm.set.replicas: "1"
`

func TestFileSystemSettingsRepository_DefaultsWithoutFile(t *testing.T) {
	fs := testutil.NewTestFileSystem(t)
	repo := ProvideFileSystemSettingsRepository(fs, new(testutil.MockKeyring), SettingsSource{})

	settings, err := repo.LoadSettings()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChart, settings.Chart)
	assert.Equal(t, domain.DefaultDeployTimeout, settings.DeployTimeout)
	assert.Equal(t, domain.DefaultSkipCleanLabels, settings.SkipCleanLabels)
	assert.False(t, settings.SkipClean)
	assert.Empty(t, settings.Properties)
}

func TestFileSystemSettingsRepository_ReadsFileThenProperties(t *testing.T) {
	fs := testutil.NewTestFileSystem(t)
	require.NoError(t, fs.WriteFile(DefaultSettingsFile, []byte(settingsYAML), ports.ReadWrite))

	repo := ProvideFileSystemSettingsRepository(fs, new(testutil.MockKeyring), SettingsSource{
		Properties: map[string]string{
			"helm.set.replicas":             "2",
			"openshift.helm.deploy.timeout": "120000",
			"helmtest.clean":                "false",
			"helmtest.retry.pause":          "250",
			"helmtest.debug":                "true",
		},
	})

	settings, err := repo.LoadSettings()

	require.NoError(t, err)
	assert.Equal(t, "qe-tests", settings.Namespace)
	assert.Equal(t, "https://api.example.com:6443", settings.APIURL)
	assert.Equal(t, "demo/app", settings.Chart)
	assert.Equal(t, 2*time.Minute, settings.DeployTimeout)
	assert.Equal(t, 500*time.Millisecond, settings.PollInterval)
	assert.Equal(t, 250*time.Millisecond, settings.RetryPause)
	assert.True(t, settings.SkipClean)
	assert.True(t, settings.Debug)
	assert.Equal(t, []string{"app.kubernetes.io/instance=shared"}, settings.SkipCleanLabels)
	assert.Equal(t, "1.0", settings.Properties["helm.set.image.tag"])
	assert.Equal(t, "2", settings.Properties["helm.set.replicas"])
}

func TestFileSystemSettingsRepository_CachesSettings(t *testing.T) {
	fs := new(testutil.MockFileSystem)
	fs.On("FileExists", DefaultSettingsFile).Return(false, nil).Once()
	repo := ProvideFileSystemSettingsRepository(fs, new(testutil.MockKeyring), SettingsSource{})

	first, err := repo.LoadSettings()
	require.NoError(t, err)
	second, err := repo.LoadSettings()
	require.NoError(t, err)

	assert.Same(t, first, second)
	fs.AssertExpectations(t)
}

func TestFileSystemSettingsRepository_Errors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		source      SettingsSource
		errContains string
	}{
		{
			name:        "explicit file missing",
			source:      SettingsSource{ConfigPath: "/ci/helmtest.yaml"},
			errContains: "settings file /ci/helmtest.yaml does not exist",
		},
		{
			name:        "file is not yaml",
			file:        "namespace: [unterminated",
			errContains: "cannot parse settings file",
		},
		{
			name:        "deploy timeout is not a number",
			source:      SettingsSource{Properties: map[string]string{"openshift.helm.deploy.timeout": "10m"}},
			errContains: "openshift.helm.deploy.timeout must be a positive number of milliseconds",
		},
		{
			name:        "poll interval is garbage",
			source:      SettingsSource{Properties: map[string]string{"helmtest.poll.interval": "often"}},
			errContains: "helmtest.poll.interval must be a duration",
		},
		{
			name:        "clean is not a bool",
			source:      SettingsSource{Properties: map[string]string{"helmtest.clean": "sometimes"}},
			errContains: "helmtest.clean must be true or false",
		},
		{
			name:        "invalid namespace",
			source:      SettingsSource{Properties: map[string]string{"openshift.namespace": "QE_Tests"}},
			errContains: "namespace 'QE_Tests' is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewTestFileSystem(t)
			if tt.file != "" {
				require.NoError(t, fs.WriteFile(DefaultSettingsFile, []byte(tt.file), ports.ReadWrite))
			}
			repo := ProvideFileSystemSettingsRepository(fs, new(testutil.MockKeyring), tt.source)

			_, err := repo.LoadSettings()

			require.Error(t, err)
			assert.True(t, domain.IsConfigurationError(err))
			assert.ErrorContains(t, err, tt.errContains)
		})
	}
}

func TestFileSystemSettingsRepository_ResolveKubeconfigKeepsExplicitPath(t *testing.T) {
	fs := new(testutil.MockFileSystem)
	repo := ProvideFileSystemSettingsRepository(fs, new(testutil.MockKeyring), SettingsSource{})
	settings := domain.CreateDefaultSettings()
	settings.KubeconfigPath = "/home/ci/.kube/config"

	require.NoError(t, repo.ResolveKubeconfig(&settings))

	assert.Equal(t, "/home/ci/.kube/config", settings.KubeconfigPath)
	fs.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestFileSystemSettingsRepository_ResolveKubeconfigWritesTokenConfig(t *testing.T) {
	fs := testutil.NewTestFileSystem(t)
	repo := ProvideFileSystemSettingsRepository(fs, new(testutil.MockKeyring), SettingsSource{})
	settings := domain.CreateDefaultSettings()
	settings.Namespace = "qe-tests"
	settings.APIURL = "https://api.example.com:6443"
	settings.Token = "sha256~abc"
	settings.Insecure = true

	require.NoError(t, repo.ResolveKubeconfig(&settings))

	assert.Equal(t, filepath.Join(fs.BaseDir(), ".helmtest", "qe-tests", "kubeconfig"), settings.KubeconfigPath)
	data, err := fs.ReadFile(settings.KubeconfigPath)
	require.NoError(t, err)
	config, err := clientcmd.Load(data)
	require.NoError(t, err)

	kubeContext := config.Contexts[config.CurrentContext]
	require.NotNil(t, kubeContext)
	assert.Equal(t, "qe-tests", kubeContext.Namespace)
	assert.Equal(t, "https://api.example.com:6443", config.Clusters[kubeContext.Cluster].Server)
	assert.True(t, config.Clusters[kubeContext.Cluster].InsecureSkipTLSVerify)
	assert.Equal(t, "sha256~abc", config.AuthInfos[kubeContext.AuthInfo].Token)
}

func TestFileSystemSettingsRepository_ResolveKubeconfigFallsBackToKeyring(t *testing.T) {
	fs := testutil.NewTestFileSystem(t)
	keyring := new(testutil.MockKeyring)
	keyring.On("GetKey", "openshift.token/qe-tests").Return("sha256~stored", nil).Once()
	repo := ProvideFileSystemSettingsRepository(fs, keyring, SettingsSource{})
	settings := domain.CreateDefaultSettings()
	settings.Namespace = "qe-tests"
	settings.APIURL = "https://api.example.com:6443"

	require.NoError(t, repo.ResolveKubeconfig(&settings))

	data, err := fs.ReadFile(settings.KubeconfigPath)
	require.NoError(t, err)
	config, err := clientcmd.Load(data)
	require.NoError(t, err)
	assert.Equal(t, "sha256~stored", config.AuthInfos[config.Contexts[config.CurrentContext].AuthInfo].Token)
	keyring.AssertExpectations(t)
}

func TestFileSystemSettingsRepository_ResolveKubeconfigMissingValues(t *testing.T) {
	tests := []struct {
		name        string
		namespace   string
		apiURL      string
		errContains string
	}{
		{"no namespace", "", "https://api.example.com:6443", "No value was set for openshift.namespace"},
		{"no api url", "qe-tests", "", "No value was set for openshift.api.url"},
		{"no token anywhere", "qe-tests", "https://api.example.com:6443", "No value was set for openshift.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyring := new(testutil.MockKeyring)
			keyring.On("GetKey", mock.Anything).Return("", errors.New("secret not found in keyring")).Maybe()
			repo := ProvideFileSystemSettingsRepository(testutil.NewTestFileSystem(t), keyring, SettingsSource{})
			settings := domain.CreateDefaultSettings()
			settings.Namespace = tt.namespace
			settings.APIURL = tt.apiURL

			err := repo.ResolveKubeconfig(&settings)

			require.Error(t, err)
			assert.True(t, domain.IsConfigurationError(err))
			assert.ErrorContains(t, err, tt.errContains)
			assert.Empty(t, settings.KubeconfigPath)
		})
	}
}

func TestProvideSettings_ResolvesKubeconfig(t *testing.T) {
	fs := testutil.NewTestFileSystem(t)
	repo := ProvideFileSystemSettingsRepository(fs, new(testutil.MockKeyring), SettingsSource{
		Properties: map[string]string{
			"openshift.namespace": "qe-tests",
			"openshift.api.url":   "https://api.example.com:6443",
			"openshift.token":     "sha256~abc",
		},
	})

	settings, err := ProvideSettings(repo)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fs.BaseDir(), ".helmtest", "qe-tests", "kubeconfig"), settings.KubeconfigPath)
}

func TestFileSystemSettingsRepository_SaveToken(t *testing.T) {
	keyring := new(testutil.MockKeyring)
	keyring.On("SetKey", "openshift.token/qe-tests", "sha256~abc").Return(nil).Once()
	repo := ProvideFileSystemSettingsRepository(new(testutil.MockFileSystem), keyring, SettingsSource{})

	require.NoError(t, repo.SaveToken("qe-tests", " sha256~abc\n"))
	keyring.AssertExpectations(t)

	assert.True(t, domain.IsConfigurationError(repo.SaveToken("", "x")))
	assert.True(t, domain.IsConfigurationError(repo.SaveToken("qe-tests", "  ")))
}

func TestFileSystemSettingsRepository_DeleteToken(t *testing.T) {
	keyring := new(testutil.MockKeyring)
	keyring.On("DeleteKey", "openshift.token/qe-tests").Return(nil).Once()
	keyring.On("DeleteKey", "openshift.token/locked").Return(errors.New("keyring is locked")).Once()
	repo := ProvideFileSystemSettingsRepository(new(testutil.MockFileSystem), keyring, SettingsSource{})

	require.NoError(t, repo.DeleteToken("qe-tests"))
	assert.ErrorContains(t, repo.DeleteToken("locked"), "failed to remove token for namespace locked")
	assert.True(t, domain.IsConfigurationError(repo.DeleteToken("")))
	keyring.AssertExpectations(t)
}
