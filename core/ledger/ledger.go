package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cperez90008/kiwiai/core/providers"
	"github.com/cperez90008/kiwiai/core/types"
	"github.com/mudler/xlog"
)

const (
	// maxEntries caps the persisted history; once exceeded only the most
	// recent retainEntries survive.
	maxEntries    = 2000
	retainEntries = 1000
)

// Entry is one recorded provider call.
type Entry struct {
	Timestamp int64   `json:"ts"`
	Model     string  `json:"model"`
	Tier      string  `json:"tier"`
	Cost      float64 `json:"cost"`
	Tokens    int     `json:"tokens"`
}

// Document is the persisted ledger shape: running totals plus a bounded,
// time-ascending entry history.
type Document struct {
	Total   float64 `json:"total"`
	Session float64 `json:"session"`
	Entries []Entry `json:"entries"`
}

// Ledger converts token usage into monetary cost and persists the running
// record. Every write goes straight to disk; reads always see completed
// writes. A single lock serializes access.
type Ledger struct {
	path string
	mu   sync.Mutex
	doc  Document
}

// New loads the ledger at path. A missing or corrupt file degrades to a zero
// document; the session total always starts at zero.
func New(path string) *Ledger {
	l := &Ledger{path: path}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &l.doc); err != nil {
			xlog.Warn("Cost ledger unreadable, starting fresh", "path", path, "error", err)
			l.doc = Document{}
		}
	}
	l.doc.Session = 0
	if l.doc.Entries == nil {
		l.doc.Entries = []Entry{}
	}
	return l
}

// Record prices one call against the provider's rate, appends an entry and
// bumps both totals. Returns the cost of the call.
func (l *Ledger) Record(desc providers.Descriptor, usage types.Usage) float64 {
	cost := float64(usage.Total()) / 1_000_000 * desc.CostPer1M

	l.mu.Lock()
	defer l.mu.Unlock()

	l.doc.Total += cost
	l.doc.Session += cost
	l.doc.Entries = append(l.doc.Entries, Entry{
		Timestamp: time.Now().UnixMilli(),
		Model:     desc.Name,
		Tier:      string(desc.Tier),
		Cost:      cost,
		Tokens:    usage.Total(),
	})
	if len(l.doc.Entries) > maxEntries {
		l.doc.Entries = append([]Entry{}, l.doc.Entries[len(l.doc.Entries)-retainEntries:]...)
	}

	if err := l.save(); err != nil {
		xlog.Error("Failed to persist cost ledger", "error", err)
	}
	return cost
}

// Snapshot returns a copy of the current document.
func (l *Ledger) Snapshot() Document {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.doc
	out.Entries = make([]Entry, len(l.doc.Entries))
	copy(out.Entries, l.doc.Entries)
	return out
}

// Total returns the lifetime spend.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Total
}

func (l *Ledger) save() error {
	data, err := json.Marshal(l.doc)
	if err != nil {
		return err
	}
	os.MkdirAll(filepath.Dir(l.path), 0755)
	return os.WriteFile(l.path, data, 0644)
}
