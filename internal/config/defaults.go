package config

const (
	// DefaultPort matches the port the service has always listened on.
	DefaultPort = 5001

	DefaultModel = "gpt-4-turbo"

	DefaultUnavailableMessage = "現在サービスに接続できません。しばらくしてから再度お試しください。"
	DefaultErrorMessage       = "エラーが発生しました。"

	DefaultLineAPIEndpoint = "https://api.line.me"
)

// defaultModels is the model suggested for each provider when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:     DefaultModel,
	ProviderAnthropic:  "claude-sonnet-4-5-20250929",
	ProviderCompatible: "llama3",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:                  DefaultPort,
		Provider:              ProviderOpenAI,
		Model:                 DefaultModel,
		RequestTimeoutSeconds: 60,
		ReplyTimeoutSeconds:   10,
		MaxBodyBytes:          1 << 20,
		UnavailableMessage:    DefaultUnavailableMessage,
		ErrorMessage:          DefaultErrorMessage,
		LineAPIEndpoint:       DefaultLineAPIEndpoint,
		LogLevel:              "info",
		LogFormat:             LogFormatText,
	}
}

// DefaultModelFor returns the suggested model for a provider, falling back
// to the OpenAI default.
func DefaultModelFor(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return DefaultModel
}
