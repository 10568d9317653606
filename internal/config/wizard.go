package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to linerelay! Let's configure the relay.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Completion provider.
	providerPrompt := promptui.Select{
		Label: "Select completion provider",
		Items: []string{"openai", "anthropic", "compatible"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Base URL, only for OpenAI-compatible endpoints.
	if cfg.Provider == ProviderCompatible {
		baseURLPrompt := promptui.Prompt{
			Label:    "Base URL of the OpenAI-compatible API",
			Default:  "http://localhost:11434/v1",
			Validate: notBlank,
		}
		cfg.BaseURL, err = baseURLPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("base url: %w", err)
		}
	}

	// 3. Model.
	modelPrompt := promptui.Prompt{
		Label:    "Model",
		Default:  DefaultModelFor(cfg.Provider),
		Validate: notBlank,
	}
	cfg.Model, err = modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:    "Port to listen on",
		Default:  strconv.Itoa(DefaultPort),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, envVar := range []string{"LINE_CHANNEL_ACCESS_TOKEN", "LINE_CHANNEL_SECRET", APIKeyEnvVar(cfg.Provider)} {
		if os.Getenv(envVar) == "" {
			fmt.Printf("Note: set %s in your environment before running linerelay serve.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
