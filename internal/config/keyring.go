package config

import (
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "ddbstats"

	// KeyringTokenItem is the key for the GitHub token
	KeyringTokenItem = "github-token"
)

// KeyringManager handles secure token storage in the OS keychain.
type KeyringManager struct {
	logger *slog.Logger
}

// NewKeyringManager creates a new keyring manager.
func NewKeyringManager() *KeyringManager {
	return &KeyringManager{
		logger: slog.Default().With("component", "keyring"),
	}
}

// SetToken stores the GitHub token securely in the OS keychain.
// - macOS: Keychain Access.app → "ddbstats" → "github-token"
// - Windows: Credential Manager → "ddbstats"
// - Linux: Secret Service (requires libsecret)
func (km *KeyringManager) SetToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := keyring.Set(KeyringService, KeyringTokenItem, token); err != nil {
		km.logger.Error("failed to save token to keychain", "error", err)
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}

	km.logger.Info("github token saved to keychain", "service", KeyringService)
	return nil
}

// GetToken retrieves the GitHub token from the OS keychain.
func (km *KeyringManager) GetToken() (string, error) {
	token, err := keyring.Get(KeyringService, KeyringTokenItem)
	if err == keyring.ErrNotFound {
		// Not an error - just not set yet
		return "", nil
	}
	if err != nil {
		km.logger.Error("failed to get token from keychain", "error", err)
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}

	return token, nil
}

// DeleteToken removes the GitHub token from the OS keychain.
func (km *KeyringManager) DeleteToken() error {
	err := keyring.Delete(KeyringService, KeyringTokenItem)
	if err == keyring.ErrNotFound {
		// Already deleted, not an error
		return nil
	}
	if err != nil {
		km.logger.Error("failed to delete token from keychain", "error", err)
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}

	km.logger.Info("github token deleted from keychain")
	return nil
}

// IsAvailable checks if the OS keychain is available. Returns false on
// headless systems (CI) without a secret service.
func (km *KeyringManager) IsAvailable() bool {
	_, err := keyring.Get(KeyringService, "test-availability")
	if err == keyring.ErrNotFound {
		return true
	}
	return err == nil
}

// MaskToken masks a token for display, showing only the edges.
func MaskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) < 12 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", token[:7], token[len(token)-4:])
}
