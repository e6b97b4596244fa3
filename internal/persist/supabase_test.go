package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/types"
)

func newSupabaseTest(t *testing.T, handler http.HandlerFunc) *SupabaseStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("SUPABASE_URL", srv.URL)
	t.Setenv("SUPABASE_KEY", "test-key")

	s, err := NewSupabaseStore("users")
	if err != nil {
		t.Fatalf("NewSupabaseStore failed: %v", err)
	}
	return s
}

func TestSupabaseRegisterInsertsRow(t *testing.T) {
	var gotMethod, gotPath, gotPrefer, gotKey string
	var gotRow userRow
	s := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotPrefer = r.Header.Get("Prefer")
		gotKey = r.Header.Get("apikey")
		if err := json.NewDecoder(r.Body).Decode(&gotRow); err != nil {
			t.Errorf("Expected a JSON row body, got %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	if err := s.Register(context.Background(), "alice", "secret", types.TierMiddle); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/rest/v1/users" {
		t.Errorf("Unexpected request %s %s", gotMethod, gotPath)
	}
	if gotPrefer != "return=minimal" || gotKey != "test-key" {
		t.Errorf("Unexpected headers Prefer=%q apikey=%q", gotPrefer, gotKey)
	}
	if gotRow.Account != "alice" || gotRow.Pw != "secret" || gotRow.Level != "middle" {
		t.Errorf("Unexpected row %+v", gotRow)
	}
	if string(gotRow.Data) != "null" {
		t.Errorf("Expected a null data column at signup, got %s", gotRow.Data)
	}
}

func TestSupabaseRegisterDuplicateAccount(t *testing.T) {
	s := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"23505"}`, http.StatusConflict)
	})

	if err := s.Register(context.Background(), "alice", "secret", types.TierHigh); err == nil {
		t.Error("Expected error for duplicate account")
	}
}

func TestSupabaseLoadReturnsBlob(t *testing.T) {
	s := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("account") != "eq.alice" {
			http.Error(w, "bad filter", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `[{"data":{"day":3,"tier":"middle"}}]`)
	})

	blob, err := s.Load(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !strings.Contains(string(blob), `"day":3`) {
		t.Errorf("Expected the data column back, got %s", blob)
	}
}

func TestSupabaseLoadMissingRow(t *testing.T) {
	s := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	if _, err := s.Load(context.Background(), "ghost"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing row, got %v", err)
	}
}

func TestSupabaseLoginChecksPassword(t *testing.T) {
	s := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"account":"alice","pw":"right","level":"high","data":null}]`)
	})

	if _, err := s.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for wrong password, got %v", err)
	}

	creds, err := s.Login(context.Background(), "alice", "right")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if creds.Tier != types.TierHigh {
		t.Errorf("Expected tier high, got %s", creds.Tier)
	}
	if creds.Blob != nil {
		t.Errorf("Expected no blob for a null data column, got %s", creds.Blob)
	}
}

func TestSupabaseSavePatchesData(t *testing.T) {
	var gotMethod string
	var gotBody map[string]json.RawMessage
	s := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Expected a JSON body, got %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := s.Save(context.Background(), "alice", []byte(`{"day":5}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("Expected PATCH, got %s", gotMethod)
	}
	if string(gotBody["data"]) != `{"day":5}` {
		t.Errorf("Expected the blob in the data column, got %s", gotBody["data"])
	}
}
