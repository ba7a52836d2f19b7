// Package credentials persists the API session token between CLI runs.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	filePerm      = 0o600
	dirPerm       = 0o700
	lockAttempts  = 5
	lockBaseDelay = 20 * time.Millisecond
)

var (
	// ErrNotLoggedIn is returned when no token is stored.
	ErrNotLoggedIn = errors.New("not logged in")
	errLocked      = errors.New("credentials file is locked by another process")
)

// Credentials is the on-disk session.
type Credentials struct {
	Token    string    `yaml:"token"              json:"-"`
	Username string    `yaml:"username,omitempty" json:"username,omitempty"`
	SavedAt  time.Time `yaml:"saved_at"           json:"saved_at"`
}

// Store reads and writes credentials on an afero filesystem. Writes on the
// OS filesystem are guarded by a lock file so concurrent CLI runs do not
// interleave.
type Store struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path is the credentials file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored credentials or ErrNotLoggedIn.
func (s *Store) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Token returns the stored token, or "" when logged out.
func (s *Store) Token() string {
	creds, err := s.Load()
	if err != nil {
		return ""
	}
	return creds.Token
}

// Save replaces the stored credentials.
func (s *Store) Save(ctx context.Context, creds Credentials) error {
	if creds.Token == "" {
		return errors.New("refusing to store an empty token")
	}
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return s.withLock(ctx, func() error {
		if err := s.fs.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
			return fmt.Errorf("failed to create credentials directory: %w", err)
		}
		tmp := s.path + ".tmp"
		if err := afero.WriteFile(s.fs, tmp, data, filePerm); err != nil {
			return fmt.Errorf("failed to write credentials: %w", err)
		}
		if err := s.fs.Rename(tmp, s.path); err != nil {
			return fmt.Errorf("failed to replace credentials: %w", err)
		}
		return nil
	})
}

// Clear removes the stored credentials. Clearing an empty store succeeds.
func (s *Store) Clear(ctx context.Context) error {
	return s.withLock(ctx, func() error {
		if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove credentials: %w", err)
		}
		return nil
	})
}

func (s *Store) read() (*Credentials, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials %s: %w", s.path, err)
	}
	if creds.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return &creds, nil
}

func (s *Store) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fs.(*afero.OsFs); !ok {
		return fn()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	lock := flock.New(s.path + ".lock")
	backoff := retry.WithMaxRetries(lockAttempts, retry.NewExponential(lockBaseDelay))
	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		locked, err := lock.TryLock()
		if err != nil {
			return err
		}
		if !locked {
			return retry.RetryableError(errLocked)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}
