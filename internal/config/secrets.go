package config

import "strings"

const (
	secretService = "careernav"
	tokenAccount  = "api_token"
)

// SecretStore abstracts the platform secret store for testing.
type SecretStore interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

// platformSecrets uses the Keychain on macOS and a 0600 JSON file elsewhere.
type platformSecrets struct{}

func (platformSecrets) Get(service, account string) (string, error) {
	out, err := secretGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (platformSecrets) Set(service, account, value string) error {
	return secretSet(service, account, value)
}

func (platformSecrets) Delete(service, account string) error {
	return secretDelete(service, account)
}

// GetAPIToken returns the stored API token, or "" when none is stored.
func GetAPIToken() string {
	tok, err := platformSecrets{}.Get(secretService, tokenAccount)
	if err != nil {
		return ""
	}
	return tok
}

// SetAPIToken stores the API token in the platform secret store.
func SetAPIToken(token string) error {
	return platformSecrets{}.Set(secretService, tokenAccount, token)
}

// ClearAPIToken removes the stored API token.
func ClearAPIToken() error {
	return platformSecrets{}.Delete(secretService, tokenAccount)
}
