package handler

import (
	"fmt"

	"helmtest/internal/cli/output"
	"helmtest/internal/core"
	"helmtest/internal/core/domain"
	"helmtest/internal/ports"
)

type TokenCommandHandler struct {
	settingsRepository core.SettingsRepository
	terminalInput      ports.TerminalInput
}

func ProvideTokenCommandHandler(
	settingsRepository core.SettingsRepository,
	terminalInput ports.TerminalInput,
) TokenCommandHandler {
	return TokenCommandHandler{
		settingsRepository: settingsRepository,
		terminalInput:      terminalInput,
	}
}

// HandleSet prompts for the cluster token and stores it in the keyring for
// namespace, or for the configured namespace when namespace is empty.
func (h *TokenCommandHandler) HandleSet(namespace string) error {
	namespace, err := h.namespace(namespace)
	if err != nil {
		return err
	}

	if !h.terminalInput.IsTerminal() {
		return fmt.Errorf("cannot read token: no terminal available")
	}
	token, err := h.terminalInput.ReadPassword(fmt.Sprintf("Enter token for namespace %s: ", output.Bold(namespace)))
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	if err := h.settingsRepository.SaveToken(namespace, token); err != nil {
		return err
	}
	output.PrintSuccess(fmt.Sprintf("Token for namespace '%s' saved", namespace))
	return nil
}

// HandleClear removes the stored token so the next run has to be given one.
func (h *TokenCommandHandler) HandleClear(namespace string) error {
	namespace, err := h.namespace(namespace)
	if err != nil {
		return err
	}
	if err := h.settingsRepository.DeleteToken(namespace); err != nil {
		return err
	}
	output.PrintSuccess(fmt.Sprintf("Token for namespace '%s' removed", namespace))
	return nil
}

func (h *TokenCommandHandler) namespace(namespace string) (string, error) {
	if namespace == "" {
		settings, err := h.settingsRepository.LoadSettings()
		if err != nil {
			return "", err
		}
		namespace = settings.Namespace
	}
	if namespace == "" {
		return "", domain.NewConfigurationError("No value was set for %s", domain.PropertyNamespace)
	}
	return namespace, nil
}
