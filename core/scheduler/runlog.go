package scheduler

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded task execution.
type Run struct {
	ID     string    `json:"id"`
	RunAt  time.Time `json:"ts"`
	Task   string    `json:"task"`
	Model  string    `json:"model"`
	Result string    `json:"result,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// NewRun stamps a run record for the named task.
func NewRun(taskName string) *Run {
	return &Run{
		ID:    uuid.New().String(),
		RunAt: time.Now(),
		Task:  taskName,
	}
}

// RunLog is the durable execution history: one JSON record appended per line.
type RunLog struct {
	path string
	mu   sync.Mutex
}

func NewRunLog(path string) *RunLog {
	return &RunLog{path: path}
}

// Append writes one run record to the end of the log.
func (l *RunLog) Append(run *Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	os.MkdirAll(filepath.Dir(l.path), 0755)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(data, '\n'))
	return err
}

// Tail returns up to n of the most recent runs, newest first. Corrupt lines
// are skipped; a missing file yields an empty slice.
func (l *RunLog) Tail(n int) []*Run {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return []*Run{}
	}
	defer f.Close()

	runs := []*Run{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var run Run
		if err := json.Unmarshal(line, &run); err != nil {
			continue
		}
		runs = append(runs, &run)
	}

	if len(runs) > n {
		runs = runs[len(runs)-n:]
	}
	// newest first
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs
}
