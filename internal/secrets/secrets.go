// Package secrets stores provider API keys in the OS credential store
// (macOS Keychain, Windows Credential Manager, Secret Service on Linux)
// with an environment-variable fallback for headless machines and CI.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// service is the credential-store namespace for all shellsage keys.
const service = "shellsage"

// envVars maps a provider name to the conventional environment variable
// consulted when the credential store has no entry.
var envVars = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// GetAPIKey returns the stored API key for a provider. The credential store
// wins; if it has no entry (or is unavailable, as on stripped-down Linux
// without a Secret Service daemon) the provider's environment variable is
// consulted. Returns "" when no key is found anywhere.
func GetAPIKey(provider string) string {
	key, err := keyring.Get(service, provider)
	if err == nil && key != "" {
		return key
	}
	if env, ok := envVars[provider]; ok {
		return strings.TrimSpace(os.Getenv(env))
	}
	return ""
}

// SetAPIKey writes the key to the credential store under the provider name.
func SetAPIKey(provider, key string) error {
	if err := keyring.Set(service, provider, key); err != nil {
		return fmt.Errorf("store %s key: %w", provider, err)
	}
	return nil
}

// DeleteAPIKey removes the stored key. Missing entries are not an error.
func DeleteAPIKey(provider string) error {
	err := keyring.Delete(service, provider)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s key: %w", provider, err)
	}
	return nil
}

// ValidKeyFormat reports whether key looks like a plausible API key for the
// provider. This catches paste accidents (truncation, surrounding quotes,
// whitespace) before a key is stored, not whether the key is live.
func ValidKeyFormat(provider, key string) bool {
	if key == "" || key != strings.TrimSpace(key) {
		return false
	}
	switch provider {
	case "openai":
		return strings.HasPrefix(key, "sk-") && len(key) >= 43
	case "anthropic":
		return strings.HasPrefix(key, "sk-ant-") && len(key) >= 20
	}
	// Unknown providers get no format opinion.
	return true
}

// EnvVar returns the environment variable name consulted for a provider,
// or "" when the provider has none.
func EnvVar(provider string) string {
	return envVars[provider]
}
