package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/teemow/workspacemcp/internal/logging"
)

// Store is the durable, per-identity persistence for credentials. A stored
// credential is always overwritten as a whole (last-writer-wins, no merge).
type Store interface {
	// Get returns the credential stored for the identity, or an error
	// wrapping ErrNotFound.
	Get(identity string) (*Credential, error)

	// Save overwrites any prior credential for the identity.
	Save(identity string, cred *Credential) error

	// Delete removes the credential for the identity. Returns an error
	// wrapping ErrNotFound when nothing was stored.
	Delete(identity string) error

	// List returns the identities with a stored credential, sorted.
	List() ([]string, error)
}

// FileStore persists one JSON credential record per identity under a
// directory scoped to the executing user. Token material is a secret: the
// directory is created 0700 and every record is written 0600.
//
// A single mutex serializes all reads and writes. Expected load is
// single-digit concurrent tool calls, so per-identity locking buys nothing.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStore creates a file-backed credential store rooted at dir.
// An empty dir selects DefaultCredentialsDir.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if dir == "" {
		dir = DefaultCredentialsDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, logger: logger}
}

// DefaultCredentialsDir returns the per-user directory credential records
// live in.
func DefaultCredentialsDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "workspacemcp", "credentials")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Last resort; a relative dir still keeps records out of /tmp.
		return filepath.Join(".workspacemcp", "credentials")
	}
	return filepath.Join(home, ".config", "workspacemcp", "credentials")
}

// Get implements Store.
func (s *FileStore) Get(identity string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(identity)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no credential stored for %s: %w", identity, ErrNotFound)
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		// A corrupt record is a storage failure, not a missing credential:
		// silently re-authorizing would hide the corruption.
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	return &cred, nil
}

// Save implements Store. The record is written to a temporary file first and
// renamed into place so a crash can never leave a partially-written
// credential behind.
func (s *FileStore) Save(identity string, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return &StorageError{Op: "write", Path: s.dir, Err: err}
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path(identity), Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, ".credential-*")
	if err != nil {
		return &StorageError{Op: "write", Path: s.dir, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: tmpName, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "write", Path: tmpName, Err: err}
	}

	path := s.path(identity)
	if err := os.Rename(tmpName, path); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}

	s.logger.Debug("Saved credential",
		logging.UserHash(identity),
		slog.String("strategy", string(cred.Strategy)),
		slog.Time("expiry", cred.Expiry))
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(identity)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no credential stored for %s: %w", identity, ErrNotFound)
		}
		return &StorageError{Op: "delete", Path: path, Err: err}
	}

	s.logger.Info("Deleted credential", logging.UserHash(identity))
	return nil
}

// List implements Store. Corrupt records are skipped rather than failing the
// whole listing.
func (s *FileStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Path: s.dir, Err: err}
	}

	var identities []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		var cred Credential
		if err := json.Unmarshal(data, &cred); err != nil {
			continue
		}
		identity := cred.Identity
		if identity == "" {
			identity = strings.TrimSuffix(name, ".json")
		}
		identities = append(identities, identity)
	}
	sort.Strings(identities)
	return identities, nil
}

func (s *FileStore) path(identity string) string {
	return filepath.Join(s.dir, sanitizeIdentity(identity)+".json")
}

// sanitizeIdentity maps an identity to a safe file name. Emails only need
// their separators neutralized; anything outside a conservative character
// set becomes an underscore.
func sanitizeIdentity(identity string) string {
	if identity == "" {
		return DefaultIdentity
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '@' || r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, identity)
}
