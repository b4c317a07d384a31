package handler

import (
	"testing"
	"time"

	"helmtest/internal/core"
	"helmtest/internal/core/domain"
	"helmtest/internal/ports"
	"helmtest/internal/testutil"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testArtifactDir = "/work/app/target/test-classes"
	testRelease     = "demo-release"
	testSelector    = "app.kubernetes.io/instance=demo-release"
)

type handlerFixture struct {
	fileSystem *testutil.TestFileSystem
	helm       *testutil.MockHelmClient
	cluster    *testutil.MockContainerOrchestrator
	settings   *domain.Settings
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	fileSystem := testutil.NewTestFileSystem(t)
	require.NoError(t, fileSystem.WriteFile("/work/app/charts/helm.yaml", []byte("replicas: 1\n"), ports.ReadWrite))

	settings := domain.CreateDefaultSettings()
	settings.Namespace = "qe-tests"
	settings.KubeconfigPath = "/home/ci/.kube/config"
	settings.DeployTimeout = time.Second
	settings.PollInterval = time.Millisecond
	settings.RetryPause = 0
	settings.SkipClean = true

	cluster := new(testutil.MockContainerOrchestrator)
	cluster.On("Namespace").Return("qe-tests").Maybe()

	return &handlerFixture{
		fileSystem: fileSystem,
		helm:       new(testutil.MockHelmClient),
		cluster:    cluster,
		settings:   &settings,
	}
}

func (f *handlerFixture) deps() core.ProvisioningDeps {
	return core.ProvisioningDeps{
		Helm:     f.helm,
		Cluster:  f.cluster,
		Waiter:   core.ProvidePodReadinessWaiter(f.cluster, f.settings),
		Settings: f.settings,
	}
}

// expectHealthyRelease sets up a release with one replica that is ready on
// the first poll and exposed on demo.apps.example.com.
func (f *handlerFixture) expectHealthyRelease() {
	f.helm.On("Install", mock.Anything, mock.AnythingOfType("domain.ReleaseConfig")).Return(nil).Once()
	f.cluster.On("DesiredReplicas", mock.Anything, testRelease).Return(int32(1), nil).Once()
	f.cluster.On("CountReadyPods", mock.Anything, testSelector).Return(1, nil)
	f.cluster.On("RouteHost", mock.Anything, testRelease).Return("demo.apps.example.com", nil)
}

func releaseRequest() ReleaseRequest {
	return ReleaseRequest{
		ArtifactDir: testArtifactDir,
		ValuesFile:  "charts/helm.yaml",
		ReleaseName: testRelease,
	}
}
