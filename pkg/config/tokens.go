package config

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// TokenGitHub is the token name used for the GitHub integration.
const TokenGitHub = "github"

// TokenConfig stores API tokens for external services. On disk it is
// sealed with secretbox under a key kept in ~/.aigenio/.key.
type TokenConfig struct {
	Tokens map[string]string `json:"tokens,omitempty"` // service -> token
}

type sealedTokens struct {
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

func GetTokensPath() string {
	return configPath(LocalSecureFile)
}

func getKeyPath() string {
	return configPath(LocalKeyFile)
}

// loadKey reads the store key, creating it on first use.
func loadKey() (*[keySize]byte, error) {
	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}

	var key [keySize]byte
	data, err := os.ReadFile(getKeyPath())
	switch {
	case err == nil:
		if len(data) != keySize {
			return nil, fmt.Errorf("key file %s is corrupt", getKeyPath())
		}
		copy(key[:], data)
		return &key, nil
	case errors.Is(err, os.ErrNotExist):
		if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
		if err := os.WriteFile(getKeyPath(), key[:], PermSecretFile); err != nil {
			return nil, fmt.Errorf("failed to write key file: %w", err)
		}
		return &key, nil
	default:
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
}

func LoadTokens() (*TokenConfig, error) {
	var sealed sealedTokens
	found, err := readJSON(GetTokensPath(), &sealed)
	if err != nil {
		return nil, err
	}
	if !found {
		return &TokenConfig{Tokens: make(map[string]string)}, nil
	}

	key, err := loadKey()
	if err != nil {
		return nil, err
	}
	if len(sealed.Nonce) != nonceSize {
		return nil, fmt.Errorf("tokens file is corrupt")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed.Nonce)
	plain, ok := secretbox.Open(nil, sealed.Data, &nonce, key)
	if !ok {
		return nil, fmt.Errorf("failed to decrypt tokens file: key mismatch")
	}

	var tokens TokenConfig
	if err := json.Unmarshal(plain, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse tokens file: %w", err)
	}
	if tokens.Tokens == nil {
		tokens.Tokens = make(map[string]string)
	}
	return &tokens, nil
}

func (t *TokenConfig) SaveTokens() error {
	key, err := loadKey()
	if err != nil {
		return err
	}

	plain, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := sealedTokens{
		Nonce: nonce[:],
		Data:  secretbox.Seal(nil, plain, &nonce, key),
	}
	return writeJSON(GetTokensPath(), sealed, PermSecretFile)
}

// SetToken stores a token after stripping quotes and brackets that tend to
// come along when pasting.
func (t *TokenConfig) SetToken(service, token string) {
	if t.Tokens == nil {
		t.Tokens = make(map[string]string)
	}

	for {
		oldToken := token

		token = strings.TrimSpace(token)

		token = strings.TrimPrefix(token, "[")
		token = strings.TrimSuffix(token, "]")

		token = strings.TrimSpace(token)

		token = strings.Trim(token, "\"'")

		if token == oldToken {
			break
		}
	}

	t.Tokens[service] = token
}

// GetToken retrieves a token for a specific service
func (t *TokenConfig) GetToken(service string) string {
	if t.Tokens == nil {
		return ""
	}
	return t.Tokens[service]
}

// HasToken checks if a token exists for the given service
func (t *TokenConfig) HasToken(service string) bool {
	return t.GetToken(service) != ""
}

// DeleteToken removes a token. It reports whether one was present.
func (t *TokenConfig) DeleteToken(service string) bool {
	if !t.HasToken(service) {
		return false
	}
	delete(t.Tokens, service)
	return true
}

// GetGitHubToken returns the stored GitHub token, preferring GITHUB_TOKEN
// from the environment.
func (t *TokenConfig) GetGitHubToken() string {
	if env := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); env != "" {
		return env
	}
	return t.GetToken(TokenGitHub)
}

// MaskToken shows only the last four characters of a token.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
