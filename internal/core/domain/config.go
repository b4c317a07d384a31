package domain

import (
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/validation"
)

// Property names understood by the settings repository. The openshift.* names
// are kept so existing CI jobs passing -D flags keep working.
const (
	PropertyNamespace     = "openshift.namespace"
	PropertyAPIURL        = "openshift.api.url"
	PropertyToken         = "openshift.token"
	PropertyDeployTimeout = "openshift.helm.deploy.timeout"
	PropertyKubeconfig    = "helmtest.kubeconfig"
	PropertyChart         = "helmtest.chart"
	PropertyClean         = "helmtest.clean"
	PropertyPollInterval  = "helmtest.poll.interval"
	PropertyRetryPause    = "helmtest.retry.pause"
	PropertyDebug         = "helmtest.debug"
	PropertyInsecure      = "helmtest.insecure"
)

const (
	DefaultOverridePrefix = "helm.set."
	DefaultChart          = "wildfly/wildfly"
	DefaultHelmBinary     = "helm"
	DefaultDeployTimeout  = 600000 * time.Millisecond
	DefaultPollInterval   = 2 * time.Second
	DefaultRetryPause     = time.Second
	DefaultBuildDir       = "target"
	DefaultArtifactDir    = "test-classes"
)

// DefaultSkipCleanLabels protects shared operator workloads that live in the
// test namespace on managed clusters.
var DefaultSkipCleanLabels = []string{
	"toolchain.dev.openshift.com/provider=codeready-toolchain",
	InstanceLabel + "=modelmesh-controller",
}

// OutputLayout names the two trailing directories of the build output the
// release config builder expects to be pointed at.
type OutputLayout struct {
	Parent string `yaml:"parent"`
	Leaf   string `yaml:"leaf"`
}

// Settings holds everything the provisioning flow reads from its environment.
// It is passed explicitly; nothing reads process-wide state after loading.
type Settings struct {
	Namespace       string            `yaml:"namespace"`
	APIURL          string            `yaml:"apiUrl"`
	Token           string            `yaml:"-"`
	KubeconfigPath  string            `yaml:"kubeconfig"`
	Chart           string            `yaml:"chart"`
	HelmBinary      string            `yaml:"helmBinary"`
	DeployTimeout   time.Duration     `yaml:"deployTimeout"`
	PollInterval    time.Duration     `yaml:"pollInterval"`
	RetryPause      time.Duration     `yaml:"retryPause"`
	SkipClean       bool              `yaml:"skipClean"`
	SkipCleanLabels []string          `yaml:"skipCleanLabels"`
	OverridePrefix  string            `yaml:"overridePrefix"`
	OutputLayout    OutputLayout      `yaml:"outputLayout"`
	Debug           bool              `yaml:"debug"`
	Insecure        bool              `yaml:"insecureSkipTlsVerify"`
	Properties      map[string]string `yaml:"properties,omitempty"`
}

func CreateDefaultSettings() Settings {
	return Settings{
		Chart:           DefaultChart,
		HelmBinary:      DefaultHelmBinary,
		DeployTimeout:   DefaultDeployTimeout,
		PollInterval:    DefaultPollInterval,
		RetryPause:      DefaultRetryPause,
		SkipCleanLabels: append([]string(nil), DefaultSkipCleanLabels...),
		OverridePrefix:  DefaultOverridePrefix,
		OutputLayout: OutputLayout{
			Parent: DefaultBuildDir,
			Leaf:   DefaultArtifactDir,
		},
		Properties: map[string]string{},
	}
}

func (s *Settings) Validate() error {
	if s.Namespace != "" {
		if errs := validation.IsDNS1123Label(s.Namespace); len(errs) > 0 {
			return NewConfigurationError("namespace '%s' is invalid: %s", s.Namespace, strings.Join(errs, "; "))
		}
	}
	if s.HelmBinary == "" {
		return NewConfigurationError("helm binary must not be empty")
	}
	if s.DeployTimeout <= 0 {
		return NewConfigurationError("deploy timeout must be positive, got %s", s.DeployTimeout)
	}
	if s.PollInterval <= 0 {
		return NewConfigurationError("poll interval must be positive, got %s", s.PollInterval)
	}
	if s.RetryPause < 0 {
		return NewConfigurationError("retry pause must not be negative, got %s", s.RetryPause)
	}
	if s.OverridePrefix == "" {
		return NewConfigurationError("override prefix must not be empty")
	}
	if s.OutputLayout.Parent == "" || s.OutputLayout.Leaf == "" {
		return NewConfigurationError("output layout needs both a parent and a leaf directory")
	}
	return ValidateSkipCleanLabels(s.SkipCleanLabels)
}

// ValidateSkipCleanLabels checks that every label is a key=value pair usable
// in a label selector.
func ValidateSkipCleanLabels(labels []string) error {
	for i, label := range labels {
		key, value, found := strings.Cut(label, "=")
		if !found || key == "" {
			return NewConfigurationError("skip clean label at index %d must be key=value, got '%s'", i, label)
		}
		if errs := validation.IsQualifiedName(key); len(errs) > 0 {
			return NewConfigurationError("skip clean label key '%s' is invalid: %s", key, strings.Join(errs, "; "))
		}
		if errs := validation.IsValidLabelValue(value); len(errs) > 0 {
			return NewConfigurationError("skip clean label value '%s' is invalid: %s", value, strings.Join(errs, "; "))
		}
	}
	return nil
}

// KubeconfigRequired reports whether a kubeconfig has to be materialised from
// the API URL and token.
func (s *Settings) KubeconfigRequired() bool {
	return s.KubeconfigPath == ""
}

func (s *Settings) String() string {
	return fmt.Sprintf(
		"namespace=%s api=%s kubeconfig=%s chart=%s timeout=%s",
		s.Namespace,
		s.APIURL,
		s.KubeconfigPath,
		s.Chart,
		s.DeployTimeout,
	)
}
