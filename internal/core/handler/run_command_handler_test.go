package handler

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"helmtest/internal/core/domain"
	"helmtest/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRunCommandHandler_HandleRunsCommandAndTearsDown(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectHealthyRelease()
	f.helm.On("Uninstall", mock.Anything, mock.Anything).Return(nil).Once()
	commandRunner := new(testutil.MockCommandRunner)
	commandRunner.On(
		"RunInteractive",
		mock.Anything,
		[]string{"HELMTEST_RELEASE=demo-release", "HELMTEST_ENDPOINT=https://demo.apps.example.com"},
		"go",
		[]string{"test", "./..."},
	).Return(nil).Once()
	sut := ProvideRunCommandHandler(f.fileSystem, commandRunner, f.deps())

	err := sut.Handle(context.Background(), releaseRequest(), []string{"go", "test", "./..."})

	require.NoError(t, err)
	commandRunner.AssertExpectations(t)
	f.helm.AssertExpectations(t)
}

func TestRunCommandHandler_HandleTearsDownWhenCommandFails(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectHealthyRelease()
	f.helm.On("Uninstall", mock.Anything, mock.Anything).Return(nil).Once()
	commandErr := errors.New("exit status 2")
	commandRunner := new(testutil.MockCommandRunner)
	commandRunner.On("RunInteractive", mock.Anything, mock.Anything, "make", []string{"it"}).Return(commandErr).Once()
	sut := ProvideRunCommandHandler(f.fileSystem, commandRunner, f.deps())

	err := sut.Handle(context.Background(), releaseRequest(), []string{"make", "it"})

	assert.ErrorIs(t, err, commandErr)
	assert.ErrorContains(t, err, "command 'make' failed")
	f.helm.AssertNumberOfCalls(t, "Uninstall", 1)
}

func TestRunCommandHandler_HandleReportsCommandAndTeardownFailures(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectHealthyRelease()
	uninstallErr := errors.New("cluster unreachable")
	f.helm.On("Uninstall", mock.Anything, mock.Anything).Return(uninstallErr).Once()
	commandErr := errors.New("exit status 1")
	commandRunner := new(testutil.MockCommandRunner)
	commandRunner.On("RunInteractive", mock.Anything, mock.Anything, "make", []string{}).Return(commandErr).Once()
	sut := ProvideRunCommandHandler(f.fileSystem, commandRunner, f.deps())

	err := sut.Handle(context.Background(), releaseRequest(), []string{"make"})

	assert.ErrorIs(t, err, commandErr)
	assert.ErrorIs(t, err, uninstallErr)
}

func TestRunCommandHandler_HandleOmitsEndpointWithoutRoute(t *testing.T) {
	f := newHandlerFixture(t)
	f.helm.On("Install", mock.Anything, mock.Anything).Return(nil).Once()
	f.helm.On("Uninstall", mock.Anything, mock.Anything).Return(nil).Once()
	f.cluster.On("DesiredReplicas", mock.Anything, testRelease).Return(int32(1), nil).Once()
	f.cluster.On("CountReadyPods", mock.Anything, testSelector).Return(1, nil)
	f.cluster.On("RouteHost", mock.Anything, testRelease).Return("", errors.New("no route or ingress")).Once()
	commandRunner := new(testutil.MockCommandRunner)
	commandRunner.On("RunInteractive", mock.Anything, []string{"HELMTEST_RELEASE=demo-release"}, "true", []string{}).Return(nil).Once()
	sut := ProvideRunCommandHandler(f.fileSystem, commandRunner, f.deps())

	require.NoError(t, sut.Handle(context.Background(), releaseRequest(), []string{"true"}))
	commandRunner.AssertExpectations(t)
}

func TestRunCommandHandler_HandleDoesNotRunCommandWhenProvisioningFails(t *testing.T) {
	f := newHandlerFixture(t)
	f.helm.On("Install", mock.Anything, mock.Anything).Return(nil).Once()
	f.helm.On("Uninstall", mock.Anything, mock.Anything).Return(nil).Once()
	f.cluster.On("DesiredReplicas", mock.Anything, testRelease).Return(int32(0), nil).Once()
	commandRunner := new(testutil.MockCommandRunner)
	sut := ProvideRunCommandHandler(f.fileSystem, commandRunner, f.deps())

	err := sut.Handle(context.Background(), releaseRequest(), []string{"go", "test"})

	assert.True(t, domain.IsInvalidTarget(err))
	commandRunner.AssertNotCalled(t, "RunInteractive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.helm.AssertNumberOfCalls(t, "Uninstall", 1)
}

func TestRunCommandHandler_HandleRequiresCommand(t *testing.T) {
	f := newHandlerFixture(t)
	sut := ProvideRunCommandHandler(f.fileSystem, new(testutil.MockCommandRunner), f.deps())

	err := sut.Handle(context.Background(), releaseRequest(), nil)

	assert.ErrorContains(t, err, "no command to run")
	f.helm.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
}

func TestRunCommandHandler_HandleKeepsCommandExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	f := newHandlerFixture(t)
	f.expectHealthyRelease()
	f.helm.On("Uninstall", mock.Anything, mock.Anything).Return(errors.New("cluster unreachable")).Once()
	commandErr := exec.Command("sh", "-c", "exit 4").Run()
	commandRunner := new(testutil.MockCommandRunner)
	commandRunner.On("RunInteractive", mock.Anything, mock.Anything, "make", []string{"e2e"}).Return(commandErr).Once()
	sut := ProvideRunCommandHandler(f.fileSystem, commandRunner, f.deps())

	err := sut.Handle(context.Background(), releaseRequest(), []string{"make", "e2e"})

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 4, exitErr.ExitCode())
}
