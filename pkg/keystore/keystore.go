package keystore

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/mudler/xlog"
)

// MinSecretLength guards against empty or placeholder values: a credential is
// usable only when its secret is strictly longer than this.
const MinSecretLength = 8

// Store holds named secrets in an env-format file. Reads always hit the file
// so that credentials written by one handler are visible to the next call
// without a restart; process environment acts as a fallback for keys not in
// the file. All access is serialized through a single lock so concurrent
// writers cannot lose updates.
type Store struct {
	path string
	mu   sync.RWMutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// All returns the current key/value pairs from the file. A missing or
// unreadable file degrades to an empty map.
func (s *Store) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked()
}

func (s *Store) readLocked() map[string]string {
	env, err := godotenv.Read(s.path)
	if err != nil {
		return map[string]string{}
	}
	return env
}

// Get returns the secret for name, falling back to the process environment
// when the file does not define it.
func (s *Store) Get(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.readLocked()[name]; ok && v != "" {
		return v
	}
	return os.Getenv(name)
}

// Usable reports whether the credential named name holds a real secret.
func (s *Store) Usable(name string) bool {
	return len(s.Get(name)) > MinSecretLength
}

// Set merges updates into the file and mirrors them into the process
// environment so in-flight readers that fall back to os.Getenv observe the
// change too.
func (s *Store) Set(updates map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := s.readLocked()
	for k, v := range updates {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		env[k] = strings.TrimSpace(v)
	}

	if err := godotenv.Write(env, s.path); err != nil {
		return err
	}
	for k, v := range env {
		if err := os.Setenv(k, v); err != nil {
			xlog.Warn("Failed to sync credential to process env", "key", k, "error", err)
		}
	}
	return nil
}

// Mask hides all but the last four characters of a secret for display.
func Mask(secret string) string {
	r := []rune(secret)
	if len(r) <= 4 {
		return secret
	}
	return strings.Repeat("•", len(r)-4) + string(r[len(r)-4:])
}
