package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/mudler/xlog"
)

// rule binds one extraction pattern to the fact key it fills. Rules run in
// order; a later match overwrites an earlier value for the same key.
type rule struct {
	re  *regexp.Regexp
	key string
}

var rules = []rule{
	{regexp.MustCompile(`(?i)my name is ([A-Z][a-zA-Z\s]+)`), "name"},
	{regexp.MustCompile(`(?i)i(?:'m| am) (?:a |an )?([a-z][\w\s]{2,30})`), "role"},
	{regexp.MustCompile(`(?i)i (?:work|am based) (?:at|in|for) ([\w\s]+)`), "workplace"},
	{regexp.MustCompile(`(?i)i (?:live|am) in ([\w\s,]+)`), "location"},
	{regexp.MustCompile(`(?i)my (?:email|gmail) is ([\w.@]+)`), "email"},
	{regexp.MustCompile(`(?i)call me ([A-Z][a-z]+)`), "name"},
}

// Store keeps simple personal facts (key → value) extracted from user text
// and persists them as a single JSON document.
type Store struct {
	path  string
	mu    sync.Mutex
	facts map[string]string
}

// New loads the fact store at path; a missing or corrupt file degrades to an
// empty store.
func New(path string) *Store {
	s := &Store{path: path, facts: map[string]string{}}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &s.facts); err != nil {
			xlog.Warn("Memory store unreadable, starting fresh", "path", path, "error", err)
			s.facts = map[string]string{}
		}
	}
	return s
}

// Extract runs the pattern rules over text and records every captured fact.
// The store is persisted only when at least one rule matched.
func (s *Store) Extract(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(text); len(m) > 1 && m[1] != "" {
			s.facts[r.key] = strings.TrimSpace(m[1])
			changed = true
		}
	}
	if changed {
		if err := s.save(); err != nil {
			xlog.Error("Failed to persist memory", "error", err)
		}
	}
}

// All returns a copy of the current facts.
func (s *Store) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.facts))
	for k, v := range s.facts {
		out[k] = v
	}
	return out
}

// Delete removes one fact. An unknown key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.facts, key)
	if err := s.save(); err != nil {
		xlog.Error("Failed to persist memory", "error", err)
	}
}

// Clear removes all facts.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = map[string]string{}
	if err := s.save(); err != nil {
		xlog.Error("Failed to persist memory", "error", err)
	}
}

// ContextBlock renders the facts as a prompt fragment, or "" when nothing is
// known. Keys are sorted so the prompt is stable between calls.
func (s *Store) ContextBlock() string {
	facts := s.All()
	if len(facts) == 0 {
		return ""
	}

	keys := make([]string, 0, len(facts))
	for k := range facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("\n\nWhat I know about you:\n")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- %s: %s", k, facts[k])
	}
	return sb.String()
}

func (s *Store) save() error {
	data, err := json.Marshal(s.facts)
	if err != nil {
		return err
	}
	os.MkdirAll(filepath.Dir(s.path), 0755)
	return os.WriteFile(s.path, data, 0644)
}
