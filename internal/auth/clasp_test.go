package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func writeClaspRC(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".clasprc.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadClaspCredential_LegacyFormat(t *testing.T) {
	idToken := makeIDToken(t, jwt.MapClaims{"email": "user@example.com"})
	expiry := time.Now().Add(30 * time.Minute).UnixMilli()
	path := writeClaspRC(t, fmt.Sprintf(`{
		"token": {
			"access_token": "clasp-access-token",
			"refresh_token": "clasp-refresh-token",
			"token_type": "Bearer",
			"id_token": %q,
			"expiry_date": %d
		},
		"oauth2ClientSettings": {
			"clientId": "clasp-client-id",
			"clientSecret": "clasp-client-secret"
		}
	}`, idToken, expiry))

	cred, err := LoadClaspCredential(path)
	if err != nil {
		t.Fatalf("LoadClaspCredential() error = %v", err)
	}

	if cred.AccessToken != "clasp-access-token" {
		t.Errorf("AccessToken = %s, want clasp-access-token", cred.AccessToken)
	}
	if cred.RefreshToken != "clasp-refresh-token" {
		t.Errorf("RefreshToken = %s, want clasp-refresh-token", cred.RefreshToken)
	}
	if cred.ClientID != "clasp-client-id" {
		t.Errorf("ClientID = %s, want clasp-client-id", cred.ClientID)
	}
	if cred.Identity != "user@example.com" {
		t.Errorf("Identity = %s, want user@example.com", cred.Identity)
	}
	if cred.Strategy != StrategyClasp {
		t.Errorf("Strategy = %s, want %s", cred.Strategy, StrategyClasp)
	}
	if got, want := cred.Expiry.UnixMilli(), expiry; got != want {
		t.Errorf("Expiry = %d ms, want %d ms", got, want)
	}
}

func TestLoadClaspCredential_TokensFormat(t *testing.T) {
	idToken := makeIDToken(t, jwt.MapClaims{"email": "user@example.com"})
	path := writeClaspRC(t, fmt.Sprintf(`{
		"tokens": {
			"default": {
				"client_id": "clasp-client-id",
				"client_secret": "clasp-client-secret",
				"access_token": "clasp-access-token",
				"refresh_token": "clasp-refresh-token",
				"id_token": %q,
				"expiry_date": %d
			}
		}
	}`, idToken, time.Now().Add(time.Hour).UnixMilli()))

	cred, err := LoadClaspCredential(path)
	if err != nil {
		t.Fatalf("LoadClaspCredential() error = %v", err)
	}
	if cred.AccessToken != "clasp-access-token" {
		t.Errorf("AccessToken = %s, want clasp-access-token", cred.AccessToken)
	}
	if cred.ClientID != "clasp-client-id" {
		t.Errorf("ClientID = %s, want clasp-client-id", cred.ClientID)
	}
	if cred.Identity != "user@example.com" {
		t.Errorf("Identity = %s, want user@example.com", cred.Identity)
	}
}

func TestLoadClaspCredential_NoIDTokenFallsBackToDefault(t *testing.T) {
	path := writeClaspRC(t, `{
		"token": {
			"access_token": "clasp-access-token",
			"refresh_token": "clasp-refresh-token",
			"expiry_date": 0
		}
	}`)

	cred, err := LoadClaspCredential(path)
	if err != nil {
		t.Fatalf("LoadClaspCredential() error = %v", err)
	}
	if cred.Identity != DefaultIdentity {
		t.Errorf("Identity = %s, want %s", cred.Identity, DefaultIdentity)
	}
}

func TestLoadClaspCredential_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".clasprc.json")

	_, err := LoadClaspCredential(path)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadClaspCredential() error = %v, want ErrNotFound", err)
	}
}

func TestLoadClaspCredential_Corrupt(t *testing.T) {
	path := writeClaspRC(t, `{not json`)

	_, err := LoadClaspCredential(path)
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("LoadClaspCredential() error = %v, want *StorageError", err)
	}
}

func TestLoadClaspCredential_EmptyObject(t *testing.T) {
	path := writeClaspRC(t, `{}`)

	_, err := LoadClaspCredential(path)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadClaspCredential() error = %v, want ErrNotFound", err)
	}
}

func TestLoadClaspCredential_NeverWritesBack(t *testing.T) {
	path := writeClaspRC(t, `{
		"token": {
			"access_token": "clasp-access-token",
			"refresh_token": "clasp-refresh-token",
			"expiry_date": 0
		}
	}`)

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if _, err := LoadClaspCredential(path); err != nil {
		t.Fatalf("LoadClaspCredential() error = %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(before) != string(after) {
		t.Error("the clasp session file was modified; it must be read-only")
	}
}

func TestHasClaspSession(t *testing.T) {
	missing := filepath.Join(t.TempDir(), ".clasprc.json")
	if HasClaspSession(missing) {
		t.Error("HasClaspSession() = true for a missing file")
	}

	path := writeClaspRC(t, `{
		"token": {"access_token": "a", "refresh_token": "r", "expiry_date": 0}
	}`)
	if !HasClaspSession(path) {
		t.Error("HasClaspSession() = false for a valid session file")
	}
}

func TestClaspStrategy_NoBrowserHandshake(t *testing.T) {
	strategy := NewClaspStrategy()

	if url := strategy.AuthCodeURL(&PendingFlow{State: "s"}); url != "" {
		t.Errorf("AuthCodeURL() = %s, want empty", url)
	}

	_, err := strategy.Exchange(context.Background(), &PendingFlow{State: "s"}, "code")
	var exchangeErr *ExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("Exchange() error = %v, want *ExchangeError", err)
	}
}
