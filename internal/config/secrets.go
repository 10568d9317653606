package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Secrets holds the credentials the relay needs at startup. They are read
// from the environment only and never written to the config file.
type Secrets struct {
	ChannelAccessToken string `env:"LINE_CHANNEL_ACCESS_TOKEN,required,notEmpty"`
	ChannelSecret      string `env:"LINE_CHANNEL_SECRET,required,notEmpty"`

	// CompletionAPIKey comes from the variable named by APIKeyEnvVar.
	CompletionAPIKey string `env:"-"`
}

// LoadSecrets reads the LINE credentials and the completion service key for
// provider. It fails if any of them is absent or empty.
func LoadSecrets(provider ProviderType) (*Secrets, error) {
	var problems []string

	var s Secrets
	if err := env.Parse(&s); err != nil {
		problems = append(problems, err.Error())
	}

	// notEmpty lets whitespace through.
	for _, v := range []struct {
		name  string
		value *string
	}{
		{"LINE_CHANNEL_ACCESS_TOKEN", &s.ChannelAccessToken},
		{"LINE_CHANNEL_SECRET", &s.ChannelSecret},
	} {
		raw := *v.value
		*v.value = strings.TrimSpace(raw)
		if raw != "" && *v.value == "" {
			problems = append(problems, fmt.Sprintf("required environment variable %q is blank", v.name))
		}
	}

	keyVar := APIKeyEnvVar(provider)
	if keyVar == "" {
		problems = append(problems, fmt.Sprintf("no API key variable known for provider %q", provider))
	} else {
		s.CompletionAPIKey = strings.TrimSpace(os.Getenv(keyVar))
		if s.CompletionAPIKey == "" {
			problems = append(problems, fmt.Sprintf("required environment variable %q is not set", keyVar))
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("missing secrets: %s", strings.Join(problems, "; "))
	}
	return &s, nil
}
