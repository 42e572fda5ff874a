package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service name for OS credential store
	credentialService = "dssrules"
	// Key for the Personal Access Token used with private rule remotes
	tokenKey = "github_pat"
)

// ErrNoToken is returned by GetToken when nothing is stored.
var ErrNoToken = errors.New("no access token stored - run 'dssrules token set' to configure one")

// CredentialManager handles secure storage and retrieval of authentication credentials
type CredentialManager struct {
	service string
}

// NewCredentialManager creates a new credential manager instance
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{
		service: credentialService,
	}
}

// StoreToken validates a GitHub Personal Access Token and stores it in the
// OS credential store, replacing any previous token.
func (cm *CredentialManager) StoreToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := validateTokenFormat(token); err != nil {
		return fmt.Errorf("invalid token format: %w", err)
	}

	if err := keyring.Set(cm.service, tokenKey, token); err != nil {
		return fmt.Errorf("failed to store token in credential store: %w", err)
	}

	return nil
}

// GetToken retrieves the stored token. It returns ErrNoToken when none is
// stored.
func (cm *CredentialManager) GetToken() (string, error) {
	token, err := keyring.Get(cm.service, tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to retrieve token from credential store: %w", err)
	}

	if strings.TrimSpace(token) == "" {
		return "", ErrNoToken
	}

	return token, nil
}

// DeleteToken removes the stored token. Deleting a missing token is not an
// error.
func (cm *CredentialManager) DeleteToken() error {
	err := keyring.Delete(cm.service, tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from credential store: %w", err)
	}
	return nil
}

// HasToken checks if a token is stored without returning it.
func (cm *CredentialManager) HasToken() bool {
	_, err := cm.GetToken()
	return err == nil
}

// validateTokenFormat validates that the token matches GitHub PAT format expectations.
// GitHub Personal Access Tokens have specific prefixes depending on their type:
//   - Classic PATs: ghp_*
//   - Fine-grained PATs: github_pat_*
//   - OAuth tokens: gho_*
//   - User-to-server tokens: ghu_*
//   - Server-to-server tokens: ghs_*
func validateTokenFormat(token string) error {
	token = strings.TrimSpace(token)

	if len(token) < 20 {
		return fmt.Errorf("token too short (minimum 20 characters)")
	}

	validPrefixes := []string{"ghp_", "github_pat_", "gho_", "ghu_", "ghs_"}
	for _, prefix := range validPrefixes {
		if strings.HasPrefix(token, prefix) {
			return nil
		}
	}

	return fmt.Errorf("token does not match expected GitHub PAT format (should start with ghp_ or github_pat_)")
}
