package config

// ProviderType identifies a completion service backend.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderCompatible ProviderType = "compatible" // any OpenAI-compatible endpoint
)

// LogFormat selects the log output encoding.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config is the top-level linerelay configuration, corresponding to .linerelay.yml.
// Secrets are not part of it; see Secrets.
type Config struct {
	Port                  int          `yaml:"port" koanf:"port"`
	Provider              ProviderType `yaml:"provider" koanf:"provider"`
	Model                 string       `yaml:"model" koanf:"model"`
	BaseURL               string       `yaml:"base_url" koanf:"base_url"`
	MaxTokens             int          `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature           float64      `yaml:"temperature" koanf:"temperature"`
	RequestTimeoutSeconds int          `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	ReplyTimeoutSeconds   int          `yaml:"reply_timeout_seconds" koanf:"reply_timeout_seconds"`
	MaxBodyBytes          int64        `yaml:"max_body_bytes" koanf:"max_body_bytes"`
	UnavailableMessage    string       `yaml:"unavailable_message" koanf:"unavailable_message"`
	ErrorMessage          string       `yaml:"error_message" koanf:"error_message"`
	LineAPIEndpoint       string       `yaml:"line_api_endpoint" koanf:"line_api_endpoint"`
	AllowedOrigins        []string     `yaml:"allowed_origins" koanf:"allowed_origins"`
	LogLevel              string       `yaml:"log_level" koanf:"log_level"`
	LogFormat             LogFormat    `yaml:"log_format" koanf:"log_format"`
}
