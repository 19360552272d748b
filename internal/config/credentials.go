package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenEnvVars is the environment variable fallback chain, highest priority
// first. DEEPSEEK_API_TOKEN is the documented default; the rest are common
// alternatives people already have set.
var TokenEnvVars = []string{
	"DEEPSEEK_API_TOKEN",
	"DEEPSEEK_TOKEN",
	"DEEPSEEK_API_KEY",
	"OPENAI_API_KEY",
}

// ErrMissingCredential is returned when no token can be resolved from any source.
var ErrMissingCredential = errors.New(
	"no API token provided. Set DEEPSEEK_API_TOKEN or use --token")

// Credential is a resolved API token together with where it came from.
// Source is "--token", an environment variable name, or "credentials.json".
type Credential struct {
	Token  string
	Source string
}

// FromFallbackEnv reports whether the token came from one of the alternative
// environment variables rather than the flag or the default variable.
func (c Credential) FromFallbackEnv() bool {
	for _, name := range TokenEnvVars[1:] {
		if c.Source == name {
			return true
		}
	}
	return false
}

// Masked returns the token with the middle elided for diagnostics.
// The full token never appears in output.
func (c Credential) Masked() string {
	if len(c.Token) <= 12 {
		return "****"
	}
	return c.Token[:8] + "..." + c.Token[len(c.Token)-4:]
}

// ResolveToken picks the first non-empty token from: the explicit argument,
// the environment variable chain, then the credentials file.
func ResolveToken(explicit string) (Credential, error) {
	return resolveToken(explicit, CredentialsPath())
}

func resolveToken(explicit, credentialsPath string) (Credential, error) {
	if explicit != "" {
		return Credential{Token: explicit, Source: "--token"}, nil
	}

	for _, name := range TokenEnvVars {
		if v := os.Getenv(name); v != "" {
			return Credential{Token: v, Source: name}, nil
		}
	}

	creds, err := LoadCredentialsFrom(credentialsPath)
	if err == nil && creds.Token != "" {
		return Credential{Token: creds.Token, Source: "credentials.json"}, nil
	}

	return Credential{}, ErrMissingCredential
}

type Credentials struct {
	Token string `json:"token"`
}

// credMu guards read-modify-write cycles on the credentials file.
var credMu sync.Mutex

func CredentialsPath() string {
	return filepath.Join(ConfigDir(), "credentials.json")
}

func LoadCredentials() (Credentials, error) {
	return LoadCredentialsFrom(CredentialsPath())
}

func LoadCredentialsFrom(path string) (Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, fmt.Errorf("reading credentials: %w", err)
	}

	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials %s: %w", path, err)
	}

	return creds, nil
}

func SaveCredential(token string) error {
	return SaveCredentialTo(CredentialsPath(), token)
}

func SaveCredentialTo(path, token string) error {
	credMu.Lock()
	defer credMu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}

	data, err := json.MarshalIndent(Credentials{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}
