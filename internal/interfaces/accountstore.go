package interfaces

import (
	"context"
	"errors"

	"llm-market-sim/internal/types"
)

// ErrNotFound is returned by Load when no blob exists for the account.
var ErrNotFound = errors.New("account data not found")

// AccountStore persists one opaque session blob per account. Saves are
// fire-and-forget from the session's point of view: a failed save is
// reported but never rolls back in-memory state.
type AccountStore interface {
	// Load returns the stored blob for the account, or ErrNotFound.
	Load(ctx context.Context, account string) ([]byte, error)
	// Save stores the blob for the account, overwriting any previous one.
	Save(ctx context.Context, account string, blob []byte) error
}

// Credentials is the result of a successful login check.
type Credentials struct {
	Account string
	Tier    types.Tier
	Blob    []byte // nil when the account has no saved game yet
}

// Authenticator checks an account/password pair against the user table.
type Authenticator interface {
	Login(ctx context.Context, account, password string) (Credentials, error)
}
