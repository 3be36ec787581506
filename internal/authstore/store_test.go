package authstore

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoad_EmptyStore(t *testing.T) {
	store := openTestStore(t)

	tok, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tok != nil {
		t.Errorf("empty store should load nil, got %+v", tok)
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	store := openTestStore(t)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	saved := &oauth2.Token{
		TokenType:    "Bearer",
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" || loaded.TokenType != "Bearer" {
		t.Errorf("loaded token = %+v", loaded)
	}
	if !loaded.Expiry.Equal(expiry) {
		t.Errorf("expiry = %v, want %v", loaded.Expiry, expiry)
	}
}

func TestSave_OverwritesPrevious(t *testing.T) {
	store := openTestStore(t)

	first := &oauth2.Token{TokenType: "Bearer", AccessToken: "old", RefreshToken: "old", Expiry: time.Now()}
	second := &oauth2.Token{TokenType: "Bearer", AccessToken: "new", RefreshToken: "new", Expiry: time.Now().Add(time.Hour)}

	if err := store.Save(first); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.AccessToken != "new" {
		t.Errorf("loaded.AccessToken = %q, want new", loaded.AccessToken)
	}
}
