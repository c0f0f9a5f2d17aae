package config

import (
	"testing"
)

func TestKeyringManager_SetAndGetToken(t *testing.T) {
	km := NewKeyringManager()

	// Skip on CI machines without a keychain.
	if !km.IsAvailable() {
		t.Skip("Keychain not available, skipping test")
	}

	defer km.DeleteToken()

	testToken := "ghp_test123456789"

	if err := km.SetToken(testToken); err != nil {
		t.Fatalf("Failed to save token: %v", err)
	}

	got, err := km.GetToken()
	if err != nil {
		t.Fatalf("Failed to get token: %v", err)
	}
	if got != testToken {
		t.Errorf("Expected token %s, got %s", testToken, got)
	}
}

func TestKeyringManager_DeleteToken(t *testing.T) {
	km := NewKeyringManager()

	if !km.IsAvailable() {
		t.Skip("Keychain not available, skipping test")
	}

	if err := km.SetToken("ghp_delete_me"); err != nil {
		t.Fatalf("Failed to save token: %v", err)
	}
	if err := km.DeleteToken(); err != nil {
		t.Fatalf("Failed to delete token: %v", err)
	}

	got, err := km.GetToken()
	if err != nil {
		t.Fatalf("Get after delete failed: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty token after delete, got %s", got)
	}
}

func TestKeyringManager_SetEmptyToken(t *testing.T) {
	km := NewKeyringManager()
	if err := km.SetToken(""); err == nil {
		t.Error("Expected error for empty token")
	}
}
