package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"helmtest/internal/core/domain"
	"helmtest/internal/ports"

	"gopkg.in/yaml.v3"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// DefaultSettingsFile is read from the working directory when no settings
// file is given explicitly.
const DefaultSettingsFile = ".helmtest.yaml"

const kubeconfigContextName = "helmtest"

// SettingsSource is where settings come from: an optional YAML file and a
// property map layered on top of it.
type SettingsSource struct {
	ConfigPath string
	Properties map[string]string
}

type SettingsRepository interface {
	// LoadSettings reads and validates the settings. It does not touch the cluster.
	LoadSettings() (*domain.Settings, error)
	// ResolveKubeconfig makes sure settings.KubeconfigPath points at a usable
	// kubeconfig, writing one from the API URL and token if needed.
	ResolveKubeconfig(settings *domain.Settings) error
	// SaveToken stores the cluster token for a namespace in the keyring.
	SaveToken(namespace string, token string) error
	// DeleteToken forgets the stored token for a namespace.
	DeleteToken(namespace string) error
}

var _ SettingsRepository = (*FileSystemSettingsRepository)(nil)

type FileSystemSettingsRepository struct {
	fileSystem ports.FileSystem
	keyring    ports.Keyring
	source     SettingsSource
	settings   *domain.Settings
}

func ProvideFileSystemSettingsRepository(
	fileSystem ports.FileSystem,
	keyring ports.Keyring,
	source SettingsSource,
) *FileSystemSettingsRepository {
	return &FileSystemSettingsRepository{
		fileSystem: fileSystem,
		keyring:    keyring,
		source:     source,
	}
}

// ProvideSettings loads the settings and resolves the kubeconfig, which is
// what every command talking to the cluster needs.
func ProvideSettings(repository SettingsRepository) (*domain.Settings, error) {
	settings, err := repository.LoadSettings()
	if err != nil {
		return nil, err
	}
	if err := repository.ResolveKubeconfig(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// TokenKeyName is the keyring entry holding the token for a namespace.
func TokenKeyName(namespace string) string {
	return domain.PropertyToken + "/" + namespace
}

func (r *FileSystemSettingsRepository) LoadSettings() (*domain.Settings, error) {
	if r.settings != nil {
		return r.settings, nil
	}

	settings := domain.CreateDefaultSettings()

	configPath := r.source.ConfigPath
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultSettingsFile
	}
	exists, err := r.fileSystem.FileExists(configPath)
	if err != nil {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("cannot check settings file %s", configPath), Err: err}
	}
	switch {
	case exists:
		data, err := r.fileSystem.ReadFile(configPath)
		if err != nil {
			return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("cannot read settings file %s", configPath), Err: err}
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("cannot parse settings file %s", configPath), Err: err}
		}
	case explicit:
		return nil, domain.NewConfigurationError("settings file %s does not exist", configPath)
	}

	properties := make(map[string]string, len(settings.Properties)+len(r.source.Properties))
	for key, value := range settings.Properties {
		properties[key] = value
	}
	for key, value := range r.source.Properties {
		properties[key] = value
	}
	if err := applyProperties(&settings, properties); err != nil {
		return nil, err
	}
	settings.Properties = properties

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	r.settings = &settings
	return r.settings, nil
}

func applyProperties(settings *domain.Settings, properties map[string]string) error {
	stringTargets := map[string]*string{
		domain.PropertyNamespace:  &settings.Namespace,
		domain.PropertyAPIURL:     &settings.APIURL,
		domain.PropertyToken:      &settings.Token,
		domain.PropertyKubeconfig: &settings.KubeconfigPath,
		domain.PropertyChart:      &settings.Chart,
	}
	for key, target := range stringTargets {
		if value, ok := properties[key]; ok {
			*target = strings.TrimSpace(value)
		}
	}

	if value, ok := properties[domain.PropertyDeployTimeout]; ok {
		millis, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || millis <= 0 {
			return domain.NewConfigurationError("%s must be a positive number of milliseconds, got '%s'", domain.PropertyDeployTimeout, value)
		}
		settings.DeployTimeout = time.Duration(millis) * time.Millisecond
	}

	durationTargets := map[string]*time.Duration{
		domain.PropertyPollInterval: &settings.PollInterval,
		domain.PropertyRetryPause:   &settings.RetryPause,
	}
	for key, target := range durationTargets {
		if value, ok := properties[key]; ok {
			duration, err := parseDurationProperty(value)
			if err != nil {
				return domain.NewConfigurationError("%s must be a duration such as 2s or a number of milliseconds, got '%s'", key, value)
			}
			*target = duration
		}
	}

	if value, ok := properties[domain.PropertyClean]; ok {
		clean, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return domain.NewConfigurationError("%s must be true or false, got '%s'", domain.PropertyClean, value)
		}
		settings.SkipClean = !clean
	}

	boolTargets := map[string]*bool{
		domain.PropertyDebug:    &settings.Debug,
		domain.PropertyInsecure: &settings.Insecure,
	}
	for key, target := range boolTargets {
		if value, ok := properties[key]; ok {
			parsed, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return domain.NewConfigurationError("%s must be true or false, got '%s'", key, value)
			}
			*target = parsed
		}
	}
	return nil
}

func parseDurationProperty(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if millis, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(millis) * time.Millisecond, nil
	}
	return time.ParseDuration(value)
}

func (r *FileSystemSettingsRepository) ResolveKubeconfig(settings *domain.Settings) error {
	if !settings.KubeconfigRequired() {
		return nil
	}

	if settings.Namespace == "" {
		return noValueError(domain.PropertyNamespace)
	}
	if settings.APIURL == "" {
		return noValueError(domain.PropertyAPIURL)
	}
	token := settings.Token
	if token == "" {
		stored, err := r.keyring.GetKey(TokenKeyName(settings.Namespace))
		if err != nil || stored == "" {
			return &domain.ConfigurationError{
				Reason: fmt.Sprintf("No value was set for %s", domain.PropertyToken),
				Err:    keyringMiss(err),
			}
		}
		token = stored
	}

	config := clientcmdapi.NewConfig()
	config.Clusters[kubeconfigContextName] = &clientcmdapi.Cluster{
		Server:                settings.APIURL,
		InsecureSkipTLSVerify: settings.Insecure,
	}
	config.AuthInfos[kubeconfigContextName] = &clientcmdapi.AuthInfo{Token: token}
	config.Contexts[kubeconfigContextName] = &clientcmdapi.Context{
		Cluster:   kubeconfigContextName,
		AuthInfo:  kubeconfigContextName,
		Namespace: settings.Namespace,
	}
	config.CurrentContext = kubeconfigContextName

	data, err := clientcmd.Write(*config)
	if err != nil {
		return fmt.Errorf("failed to serialise kubeconfig: %w", err)
	}

	home, err := r.fileSystem.HomeDir()
	if err != nil {
		return err
	}
	path := filepath.Join(home, ".helmtest", settings.Namespace, "kubeconfig")
	if err := r.fileSystem.WriteFile(path, data, ports.ReadWrite); err != nil {
		return fmt.Errorf("failed to write kubeconfig %s: %w", path, err)
	}

	settings.KubeconfigPath = path
	return nil
}

func (r *FileSystemSettingsRepository) SaveToken(namespace string, token string) error {
	if namespace == "" {
		return noValueError(domain.PropertyNamespace)
	}
	if strings.TrimSpace(token) == "" {
		return domain.NewConfigurationError("token must not be empty")
	}
	if err := r.keyring.SetKey(TokenKeyName(namespace), strings.TrimSpace(token)); err != nil {
		return fmt.Errorf("failed to store token for namespace %s: %w", namespace, err)
	}
	return nil
}

func (r *FileSystemSettingsRepository) DeleteToken(namespace string) error {
	if namespace == "" {
		return noValueError(domain.PropertyNamespace)
	}
	if err := r.keyring.DeleteKey(TokenKeyName(namespace)); err != nil {
		return fmt.Errorf("failed to remove token for namespace %s: %w", namespace, err)
	}
	return nil
}

func noValueError(property string) *domain.ConfigurationError {
	return domain.NewConfigurationError("No value was set for %s", property)
}

func keyringMiss(err error) error {
	if err == nil {
		return errors.New("keyring entry is empty")
	}
	return err
}
