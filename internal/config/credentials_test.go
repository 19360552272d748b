package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func clearTokenEnv(t *testing.T) {
	t.Helper()
	for _, name := range TokenEnvVars {
		t.Setenv(name, "")
	}
}

func TestResolveToken_ExplicitWins(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("DEEPSEEK_API_TOKEN", "env-token")

	cred, err := resolveToken("flag-token", filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("resolveToken() error: %v", err)
	}
	if cred.Token != "flag-token" {
		t.Errorf("token = %q, want flag-token", cred.Token)
	}
	if cred.Source != "--token" {
		t.Errorf("source = %q, want --token", cred.Source)
	}
}

func TestResolveToken_DefaultEnvVar(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("DEEPSEEK_API_TOKEN", "env-token")

	cred, err := resolveToken("", filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("resolveToken() error: %v", err)
	}
	if cred.Token != "env-token" {
		t.Errorf("token = %q, want env-token", cred.Token)
	}
	if cred.FromFallbackEnv() {
		t.Error("default env var should not count as fallback")
	}
}

func TestResolveToken_LowestPriorityFallback(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("OPENAI_API_KEY", "openai-token")

	cred, err := resolveToken("", filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("resolveToken() error: %v", err)
	}
	if cred.Token != "openai-token" {
		t.Errorf("token = %q, want openai-token", cred.Token)
	}
	if cred.Source != "OPENAI_API_KEY" {
		t.Errorf("source = %q, want OPENAI_API_KEY", cred.Source)
	}
	if !cred.FromFallbackEnv() {
		t.Error("OPENAI_API_KEY should count as fallback")
	}
}

func TestResolveToken_PriorityOrder(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("DEEPSEEK_TOKEN", "second")
	t.Setenv("DEEPSEEK_API_KEY", "third")

	cred, err := resolveToken("", filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("resolveToken() error: %v", err)
	}
	if cred.Token != "second" {
		t.Errorf("token = %q, want the higher-priority DEEPSEEK_TOKEN value", cred.Token)
	}
}

func TestResolveToken_CredentialsFile(t *testing.T) {
	clearTokenEnv(t)

	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := SaveCredentialTo(path, "file-token"); err != nil {
		t.Fatalf("SaveCredentialTo() error: %v", err)
	}

	cred, err := resolveToken("", path)
	if err != nil {
		t.Fatalf("resolveToken() error: %v", err)
	}
	if cred.Token != "file-token" {
		t.Errorf("token = %q, want file-token", cred.Token)
	}
	if cred.Source != "credentials.json" {
		t.Errorf("source = %q, want credentials.json", cred.Source)
	}
}

func TestResolveToken_Missing(t *testing.T) {
	clearTokenEnv(t)

	_, err := resolveToken("", filepath.Join(t.TempDir(), "credentials.json"))
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("error = %v, want ErrMissingCredential", err)
	}
}

func TestCredentialMasked(t *testing.T) {
	cred := Credential{Token: "sk-abcdef1234567890wxyz"}
	masked := cred.Masked()

	if masked != "sk-abcde...wxyz" {
		t.Errorf("Masked() = %q", masked)
	}

	short := Credential{Token: "sk-short"}
	if short.Masked() != "****" {
		t.Errorf("short Masked() = %q, want ****", short.Masked())
	}
}

func TestLoadCredentialsFrom_MissingFile(t *testing.T) {
	creds, err := LoadCredentialsFrom(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Token != "" {
		t.Errorf("token = %q, want empty", creds.Token)
	}
}
