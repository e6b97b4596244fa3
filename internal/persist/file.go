package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/types"
)

// fileDoc is the on-disk document for one account. It carries the same
// fields as a users-table row so the two backends stay interchangeable.
type fileDoc struct {
	Account string          `json:"account"`
	Pw      string          `json:"pw"`
	Level   string          `json:"level"`
	Data    json.RawMessage `json:"data"`
}

// FileStore keeps one JSON document per account under a directory. It is
// the default backend for local runs where no Supabase project exists.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("persistence dir not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create persistence dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

var _ interfaces.AccountStore = (*FileStore)(nil)
var _ interfaces.Authenticator = (*FileStore)(nil)

func (s *FileStore) path(account string) string {
	// Account names come from user input; keep the filename flat.
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '_'
		}
		return r
	}, account)
	return filepath.Join(s.dir, safe+".json")
}

func (s *FileStore) read(account string) (*fileDoc, error) {
	raw, err := os.ReadFile(s.path(account))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, err
	}
	var doc fileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("corrupt account file for %q: %w", account, err)
	}
	return &doc, nil
}

func (s *FileStore) write(doc *fileDoc) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(doc.Account), raw, 0o644)
}

// Load returns the saved session blob for the account.
func (s *FileStore) Load(ctx context.Context, account string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(account)
	if err != nil {
		return nil, err
	}
	if len(doc.Data) == 0 || string(doc.Data) == "null" {
		return nil, interfaces.ErrNotFound
	}
	return doc.Data, nil
}

// Save stores the blob, creating the account document if needed.
func (s *FileStore) Save(ctx context.Context, account string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(account)
	if errors.Is(err, interfaces.ErrNotFound) {
		doc = &fileDoc{Account: account}
	} else if err != nil {
		return err
	}
	doc.Data = json.RawMessage(blob)
	return s.write(doc)
}

// Register creates an account with a password and tier. It exists so local
// runs can provision users without a Supabase project.
func (s *FileStore) Register(ctx context.Context, account, password string, tier types.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.read(account); err == nil {
		return fmt.Errorf("account %q already exists", account)
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return err
	}
	return s.write(&fileDoc{Account: account, Pw: password, Level: string(tier)})
}

// Login checks the password and returns the account's tier and saved blob.
func (s *FileStore) Login(ctx context.Context, account, password string) (interfaces.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(account)
	if errors.Is(err, interfaces.ErrNotFound) {
		return interfaces.Credentials{}, ErrBadCredentials
	}
	if err != nil {
		return interfaces.Credentials{}, err
	}
	if doc.Pw != password {
		return interfaces.Credentials{}, ErrBadCredentials
	}

	creds := interfaces.Credentials{
		Account: account,
		Tier:    tierFromLevel(doc.Level),
	}
	if len(doc.Data) > 0 && string(doc.Data) != "null" {
		creds.Blob = doc.Data
	}
	return creds, nil
}
