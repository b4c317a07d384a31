package handler

import (
	"fmt"
	"strings"

	"helmtest/internal/cli/output"
	"helmtest/internal/core"
	"helmtest/internal/core/domain"
	"helmtest/internal/ports"
)

type SettingsCommandHandler struct {
	settingsRepository core.SettingsRepository
	keyring            ports.Keyring
}

func ProvideSettingsCommandHandler(
	settingsRepository core.SettingsRepository,
	keyring ports.Keyring,
) SettingsCommandHandler {
	return SettingsCommandHandler{
		settingsRepository: settingsRepository,
		keyring:            keyring,
	}
}

// Handle prints the effective settings after the file and properties are
// merged. The token is never shown.
func (h *SettingsCommandHandler) Handle() error {
	settings, err := h.settingsRepository.LoadSettings()
	if err != nil {
		return err
	}

	output.PrintField("namespace", valueOrUnset(settings.Namespace))
	output.PrintField("api url", valueOrUnset(settings.APIURL))
	output.PrintField("token", h.describeToken(settings))
	output.PrintField("kubeconfig", valueOrUnset(settings.KubeconfigPath))
	output.PrintField("chart", settings.Chart)
	output.PrintField("helm", settings.HelmBinary)
	output.PrintField("deploy timeout", settings.DeployTimeout)
	output.PrintField("poll interval", settings.PollInterval)
	output.PrintField("retry pause", settings.RetryPause)
	output.PrintField("clean", !settings.SkipClean)
	output.PrintField("keep labels", strings.Join(settings.SkipCleanLabels, ", "))
	output.PrintField("output layout", settings.OutputLayout.Parent+"/"+settings.OutputLayout.Leaf)

	overrides := core.CollectOverrides(settings.OverridePrefix, settings.Properties)
	if len(overrides) == 0 {
		return nil
	}
	output.PrintField("overrides", len(overrides))
	for _, override := range overrides {
		output.PrintSecondary(override.String())
	}
	return nil
}

func valueOrUnset(value string) string {
	if value == "" {
		return "(unset)"
	}
	return value
}

func (h *SettingsCommandHandler) describeToken(settings *domain.Settings) string {
	if settings.Token != "" {
		return strings.Repeat("*", min(len(settings.Token), 8))
	}
	if settings.Namespace == "" {
		return "(unset)"
	}
	stored, err := h.keyring.HasKey(core.TokenKeyName(settings.Namespace))
	switch {
	case err != nil:
		return fmt.Sprintf("(keyring unavailable: %v)", err)
	case stored:
		return "(stored in keyring)"
	default:
		return "(unset)"
	}
}
