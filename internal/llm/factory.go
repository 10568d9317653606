package llm

import "fmt"

// NewProvider creates a completion provider for the given provider type.
// Supported provider types: "openai", "anthropic", "compatible".
func NewProvider(providerType, apiKey, model, baseURL string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key for provider %q is empty", providerType)
	}

	switch providerType {
	case "openai":
		return NewOpenAIProvider(apiKey, model, baseURL), nil

	case "anthropic":
		return NewAnthropicProvider(apiKey, model, baseURL), nil

	case "compatible":
		if baseURL == "" {
			return nil, fmt.Errorf("compatible provider requires a base URL")
		}
		return NewCompatibleProvider(apiKey, model, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
