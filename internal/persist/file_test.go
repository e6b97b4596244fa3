package persist

import (
	"context"
	"errors"
	"testing"

	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/types"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return fs
}

func TestFileStoreSaveLoad(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	if _, err := fs.Load(ctx, "alice"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for fresh account, got %v", err)
	}

	blob := []byte(`{"day":3,"tier":"middle"}`)
	if err := fs.Save(ctx, "alice", blob); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := fs.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != string(blob) {
		t.Errorf("Expected blob %s, got %s", blob, got)
	}
}

func TestFileStoreRegisterAndLogin(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	if err := fs.Register(ctx, "bob", "secret", types.TierHigh); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := fs.Register(ctx, "bob", "other", types.TierHigh); err == nil {
		t.Error("Expected error registering an existing account")
	}

	creds, err := fs.Login(ctx, "bob", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if creds.Tier != types.TierHigh {
		t.Errorf("Expected tier high, got %s", creds.Tier)
	}
	if creds.Blob != nil {
		t.Error("Expected no blob before first save")
	}

	if _, err := fs.Login(ctx, "bob", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for wrong password, got %v", err)
	}
	if _, err := fs.Login(ctx, "nobody", "secret"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for unknown account, got %v", err)
	}
}

func TestFileStoreLoginReturnsSavedBlob(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	if err := fs.Register(ctx, "carol", "pw", types.TierElementary); err != nil {
		t.Fatal(err)
	}
	blob := []byte(`{"day":7}`)
	if err := fs.Save(ctx, "carol", blob); err != nil {
		t.Fatal(err)
	}

	creds, err := fs.Login(ctx, "carol", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if string(creds.Blob) != string(blob) {
		t.Errorf("Expected saved blob back from login, got %s", creds.Blob)
	}
}

func TestFileStoreSavePreservesCredentials(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	if err := fs.Register(ctx, "dave", "pw", types.TierMiddle); err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(ctx, "dave", []byte(`{"day":2}`)); err != nil {
		t.Fatal(err)
	}

	creds, err := fs.Login(ctx, "dave", "pw")
	if err != nil {
		t.Fatalf("Expected password to survive save, login failed: %v", err)
	}
	if creds.Tier != types.TierMiddle {
		t.Errorf("Expected tier middle after save, got %s", creds.Tier)
	}
}

func TestFileStoreFlattensPathCharacters(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	if err := fs.Save(ctx, "../evil", []byte(`{}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := fs.Load(ctx, "../evil"); err != nil {
		t.Errorf("Expected sanitized account name to round-trip, got %v", err)
	}
}

func TestTierFromLevel(t *testing.T) {
	if got := tierFromLevel("high"); got != types.TierHigh {
		t.Errorf("Expected high, got %s", got)
	}
	if got := tierFromLevel("unknown"); got != types.TierElementary {
		t.Errorf("Expected elementary fallback, got %s", got)
	}
}
