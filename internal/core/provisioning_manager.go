package core

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"helmtest/internal/core/domain"
	"helmtest/internal/ports"

	"github.com/chainguard-dev/clog"
)

// ProvisioningDeps are the collaborators a ProvisioningManager drives.
type ProvisioningDeps struct {
	Helm     ports.HelmClient
	Cluster  ports.ContainerOrchestrator
	Waiter   ReadinessWaiter
	Settings *domain.Settings
}

type provisioningOptions struct {
	clean         bool
	deployTimeout time.Duration
	retryPause    time.Duration
	properties    map[string]string
}

// ProvisioningOption tunes a single provisioning run on top of the settings.
type ProvisioningOption func(*provisioningOptions)

// WithSkipClean disables the namespace reset that runs before install.
func WithSkipClean() ProvisioningOption {
	return func(o *provisioningOptions) {
		o.clean = false
	}
}

func WithDeployTimeout(timeout time.Duration) ProvisioningOption {
	return func(o *provisioningOptions) {
		o.deployTimeout = timeout
	}
}

func WithRetryPause(pause time.Duration) ProvisioningOption {
	return func(o *provisioningOptions) {
		o.retryPause = pause
	}
}

// WithProperties replaces the property map overrides are collected from.
func WithProperties(properties map[string]string) ProvisioningOption {
	return func(o *provisioningOptions) {
		o.properties = properties
	}
}

// ProvisioningManager owns the lifecycle of one release: install, wait for
// readiness with a single retry, and teardown. It is driven by one caller;
// the mutex only keeps a racing Close from uninstalling twice.
//
// Concurrent managers using the same release name are not safe: install runs
// with --replace, so one manager can replace the release of another.
type ProvisioningManager struct {
	mu          sync.Mutex
	helm        ports.HelmClient
	cluster     ports.ContainerOrchestrator
	waiter      ReadinessWaiter
	settings    *domain.Settings
	options     provisioningOptions
	config      domain.ReleaseConfig
	state       domain.ProvisioningState
	history     []domain.ProvisioningState
	provisioned bool
	teardown    *TeardownStack
}

// BuildAndInitialise creates a manager for config and provisions the release.
// On failure everything that was installed has already been removed and the
// error is returned; the manager is only returned when it is Ready.
func BuildAndInitialise(
	ctx context.Context,
	config domain.ReleaseConfig,
	deps ProvisioningDeps,
	opts ...ProvisioningOption,
) (*ProvisioningManager, error) {
	manager, err := NewProvisioningManager(config, deps, opts...)
	if err != nil {
		return nil, err
	}
	if err := manager.Initialise(ctx); err != nil {
		return nil, err
	}
	return manager, nil
}

// NewProvisioningManager validates the input and enriches config with the
// overrides collected from the properties. It makes no cluster calls.
func NewProvisioningManager(
	config domain.ReleaseConfig,
	deps ProvisioningDeps,
	opts ...ProvisioningOption,
) (*ProvisioningManager, error) {
	if deps.Helm == nil || deps.Cluster == nil || deps.Waiter == nil || deps.Settings == nil {
		return nil, domain.NewConfigurationError("provisioning needs a helm client, a cluster, a readiness waiter and settings")
	}
	settings := deps.Settings

	options := provisioningOptions{
		clean:         !settings.SkipClean,
		deployTimeout: settings.DeployTimeout,
		retryPause:    settings.RetryPause,
		properties:    settings.Properties,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.deployTimeout <= 0 {
		return nil, domain.NewConfigurationError("deploy timeout must be positive, got %s", options.deployTimeout)
	}
	if options.retryPause < 0 {
		return nil, domain.NewConfigurationError("retry pause must not be negative, got %s", options.retryPause)
	}

	if err := validateReleaseName(config.ReleaseName); err != nil {
		return nil, err
	}
	if config.ChartReference == "" {
		return nil, domain.NewConfigurationError("no chart reference was set for release %s", config.ReleaseName)
	}
	if config.ValuesFilePath == "" {
		return nil, domain.NewConfigurationError("no values file was set for release %s", config.ReleaseName)
	}

	collected := CollectOverrides(settings.OverridePrefix, options.properties)
	for _, override := range collected {
		if err := validateOverride(override); err != nil {
			return nil, err
		}
	}
	config = config.WithOverrides(collected)
	if config.KubeconfigPath == "" {
		config.KubeconfigPath = settings.KubeconfigPath
	}
	if config.Namespace == "" {
		config.Namespace = settings.Namespace
	}
	if !config.Debug {
		config.Debug = settings.Debug
	}

	return &ProvisioningManager{
		helm:     deps.Helm,
		cluster:  deps.Cluster,
		waiter:   deps.Waiter,
		settings: settings,
		options:  options,
		config:   config,
		state:    domain.Idle,
		history:  []domain.ProvisioningState{domain.Idle},
		teardown: NewTeardownStack(),
	}, nil
}

// Initialise installs the release and waits until its pods are ready. Any
// failure runs cleanup before the original error is returned.
func (m *ProvisioningManager) Initialise(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.Idle {
		return fmt.Errorf("release %s cannot be initialised in state %s", m.config.ReleaseName, m.state)
	}

	log := clog.FromContext(ctx).With("release", m.config.ReleaseName)
	ctx = clog.WithLogger(ctx, log)

	if m.options.clean {
		log.Info("cleaning namespace before install", "keep", m.settings.SkipCleanLabels)
		if err := m.cluster.CleanNamespace(ctx, m.settings.SkipCleanLabels); err != nil {
			return m.fail(ctx, fmt.Errorf("failed to clean namespace before installing %s: %w", m.config.ReleaseName, err))
		}
	}

	m.transition(ctx, domain.Installing)
	m.provisioned = true
	release := m.config
	if err := m.teardown.Add(func(ctx context.Context) error {
		return m.helm.Uninstall(ctx, release)
	}); err != nil {
		return m.fail(ctx, err)
	}
	if err := m.helm.Install(ctx, m.config); err != nil {
		return m.fail(ctx, err)
	}

	m.transition(ctx, domain.WaitingReady)
	target, err := m.readinessTarget(ctx)
	if err != nil {
		return m.fail(ctx, err)
	}

	if err := m.waitReady(ctx, target); err != nil {
		return m.fail(ctx, err)
	}

	m.transition(ctx, domain.Ready)
	return nil
}

// readinessTarget reads the replica count of the deployed workload. It is
// read after install because the chart decides it.
func (m *ProvisioningManager) readinessTarget(ctx context.Context) (domain.ReadinessTarget, error) {
	name := m.config.ReleaseName
	replicas, err := m.cluster.DesiredReplicas(ctx, name)
	if err != nil {
		return domain.ReadinessTarget{}, &domain.InvalidTargetError{Workload: name, Err: err}
	}
	if replicas < 1 {
		return domain.ReadinessTarget{}, &domain.InvalidTargetError{Workload: name, Replicas: replicas}
	}
	return domain.ReadinessTarget{
		WorkloadName:     name,
		ExpectedReplicas: replicas,
		LabelSelector:    m.config.InstanceSelector(),
	}, nil
}

// waitReady retries exactly once on timeout, since pods often flap right
// after install. Each attempt gets a fresh deadline.
func (m *ProvisioningManager) waitReady(ctx context.Context, target domain.ReadinessTarget) error {
	err := m.waiter.WaitReady(ctx, target, m.options.deployTimeout)
	if err == nil || !domain.IsTimeout(err) {
		return err
	}

	clog.FromContext(ctx).Warn("workload not ready, retrying once",
		"error", err,
		"pause", m.options.retryPause,
	)
	timer := time.NewTimer(m.options.retryPause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting to retry readiness of %s: %w", target.WorkloadName, ctx.Err())
	case <-timer.C:
	}

	return m.waiter.WaitReady(ctx, target, m.options.deployTimeout)
}

// fail moves to Failed, runs cleanup and returns cause. Cleanup errors are
// logged and never replace cause.
func (m *ProvisioningManager) fail(ctx context.Context, cause error) error {
	log := clog.FromContext(ctx)
	m.transition(ctx, domain.Failed)
	log.Error("provisioning failed", "error", cause, "provisioned", m.provisioned)

	if err := m.runTeardown(ctx); err != nil {
		log.Error("cleanup after failed provisioning failed", "error", err)
	}
	m.transition(ctx, domain.TornDown)
	return cause
}

// runTeardown detaches from the caller's cancellation so an aborted test still
// uninstalls what it installed.
func (m *ProvisioningManager) runTeardown(ctx context.Context) error {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.options.deployTimeout)
	defer cancel()
	return m.teardown.Teardown(cleanupCtx)
}

func (m *ProvisioningManager) transition(ctx context.Context, next domain.ProvisioningState) {
	clog.FromContext(ctx).Debug("provisioning state changed", "from", m.state, "to", next)
	m.state = next
	m.history = append(m.history, next)
}

// Close uninstalls the release. Only the first call does anything; after a
// failed Initialise cleanup has already run and Close is a no-op.
func (m *ProvisioningManager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.teardown.Done() {
		return nil
	}

	log := clog.FromContext(ctx).With("release", m.config.ReleaseName)
	ctx = clog.WithLogger(ctx, log)
	log.Info("tearing down release", "state", m.state)

	err := m.runTeardown(ctx)
	m.transition(ctx, domain.TornDown)
	if err != nil {
		return fmt.Errorf("failed to tear down release %s: %w", m.config.ReleaseName, err)
	}
	return nil
}

// RoutableEndpoint returns the https URL of the route exposing the release.
func (m *ProvisioningManager) RoutableEndpoint(ctx context.Context) (*url.URL, error) {
	m.mu.Lock()
	state := m.state
	m.mu.Unlock()

	if state != domain.Ready {
		return nil, fmt.Errorf("release %s has no endpoint in state %s", m.config.ReleaseName, state)
	}
	host, err := m.cluster.RouteHost(ctx, m.config.ReleaseName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve endpoint of release %s: %w", m.config.ReleaseName, err)
	}
	return &url.URL{Scheme: "https", Host: host}, nil
}

func (m *ProvisioningManager) State() domain.ProvisioningState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// History returns every state the manager has been in, oldest first.
func (m *ProvisioningManager) History() []domain.ProvisioningState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ProvisioningState(nil), m.history...)
}

// Provisioned reports whether install was ever attempted.
func (m *ProvisioningManager) Provisioned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.provisioned
}

func (m *ProvisioningManager) ReleaseName() string {
	return m.config.ReleaseName
}

// Config returns the release config including the collected overrides.
func (m *ProvisioningManager) Config() domain.ReleaseConfig {
	return m.config.WithOverrides(nil)
}
