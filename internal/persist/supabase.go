// Package persist stores per-account session blobs. Two backends exist:
// a Supabase REST table and a plain directory of JSON files.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"llm-market-sim/internal/api"
	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/types"
)

// ErrBadCredentials is returned by Login when the account exists but the
// password does not match, or when the account is unknown. The two cases
// are deliberately indistinguishable.
var ErrBadCredentials = errors.New("invalid account or password")

// userRow mirrors one row of the users table.
type userRow struct {
	Account string          `json:"account"`
	Pw      string          `json:"pw"`
	Level   string          `json:"level"`
	Data    json.RawMessage `json:"data"`
}

// SupabaseStore persists session blobs in a Supabase table through its
// PostgREST interface. One row per account; the blob lives in the data
// jsonb column.
type SupabaseStore struct {
	client *api.Client
	table  string
	apiKey string
}

// NewSupabaseStore builds a store from SUPABASE_URL and SUPABASE_KEY.
func NewSupabaseStore(table string) (*SupabaseStore, error) {
	baseURL := os.Getenv("SUPABASE_URL")
	apiKey := os.Getenv("SUPABASE_KEY")
	if baseURL == "" || apiKey == "" {
		return nil, errors.New("SUPABASE_URL or SUPABASE_KEY missing")
	}
	client := api.NewClient(
		api.WithBaseURL(baseURL+"/rest/v1"),
		api.WithTimeout(15*time.Second),
		api.WithLogging(true),
	)
	return &SupabaseStore{client: client, table: table, apiKey: apiKey}, nil
}

var _ interfaces.AccountStore = (*SupabaseStore)(nil)
var _ interfaces.Authenticator = (*SupabaseStore)(nil)

func (s *SupabaseStore) rowURL(account, columns string) string {
	return fmt.Sprintf("/%s?account=eq.%s&select=%s",
		s.table, url.QueryEscape(account), columns)
}

// Load returns the saved session blob for the account.
func (s *SupabaseStore) Load(ctx context.Context, account string) ([]byte, error) {
	resp, err := s.client.GET(ctx, s.rowURL(account, "data"), api.SupabaseHeaders(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("supabase load: %w", err)
	}

	var rows []userRow
	if err := resp.ParseJSON(&rows); err != nil {
		return nil, fmt.Errorf("supabase load: %w", err)
	}
	if len(rows) == 0 || len(rows[0].Data) == 0 || string(rows[0].Data) == "null" {
		return nil, interfaces.ErrNotFound
	}
	return rows[0].Data, nil
}

// Save overwrites the data column for the account's row. The row itself is
// created at signup, so a missing row is an error rather than an upsert.
func (s *SupabaseStore) Save(ctx context.Context, account string, blob []byte) error {
	body := map[string]json.RawMessage{"data": json.RawMessage(blob)}
	req := api.NewRequest("PATCH", s.rowURL(account, "account")).
		WithContext(ctx).
		WithBody(body)
	for k, v := range api.SupabaseHeaders(s.apiKey) {
		req.WithHeader(k, v)
	}
	req.WithHeader("Prefer", "return=minimal")

	if _, err := s.client.DoWithRetry(req, nil); err != nil {
		return fmt.Errorf("supabase save: %w", err)
	}
	logger.Debug(ctx, "Session blob saved", "account", account, "bytes", len(blob))
	return nil
}

// Register inserts a fresh account row with no saved session yet. A
// duplicate account comes back as a conflict error from PostgREST.
func (s *SupabaseStore) Register(ctx context.Context, account, password string, tier types.Tier) error {
	row := userRow{
		Account: account,
		Pw:      password,
		Level:   string(tier),
		Data:    json.RawMessage("null"),
	}
	headers := api.SupabaseHeaders(s.apiKey)
	headers["Prefer"] = "return=minimal"

	if _, err := s.client.POST(ctx, "/"+s.table, row, headers); err != nil {
		return fmt.Errorf("supabase register: %w", err)
	}
	logger.Debug(ctx, "Account registered", "account", account, "tier", string(tier))
	return nil
}

// Login checks the password against the stored one and returns the
// account's tier plus any saved blob.
func (s *SupabaseStore) Login(ctx context.Context, account, password string) (interfaces.Credentials, error) {
	resp, err := s.client.GET(ctx, s.rowURL(account, "account,pw,level,data"), api.SupabaseHeaders(s.apiKey))
	if err != nil {
		return interfaces.Credentials{}, fmt.Errorf("supabase login: %w", err)
	}

	var rows []userRow
	if err := resp.ParseJSON(&rows); err != nil {
		return interfaces.Credentials{}, fmt.Errorf("supabase login: %w", err)
	}
	if len(rows) == 0 || rows[0].Pw != password {
		return interfaces.Credentials{}, ErrBadCredentials
	}

	creds := interfaces.Credentials{
		Account: rows[0].Account,
		Tier:    tierFromLevel(rows[0].Level),
	}
	if len(rows[0].Data) > 0 && string(rows[0].Data) != "null" {
		creds.Blob = rows[0].Data
	}
	return creds, nil
}

// tierFromLevel maps the stored level column onto a tier, defaulting to
// elementary for unknown values.
func tierFromLevel(level string) types.Tier {
	t := types.Tier(level)
	if t.Valid() {
		return t
	}
	return types.TierElementary
}
