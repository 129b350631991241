package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cperez90008/kiwiai/core/types"
	"github.com/cperez90008/kiwiai/pkg/xstrings"
	"github.com/mudler/xlog"
)

// resultLimit caps how much of a task result goes into the notification.
const resultLimit = 3000

// TaskExecutor runs a task prompt through the chat pipeline.
type TaskExecutor interface {
	Execute(ctx context.Context, prompt string) (*types.ChatResponse, error)
}

// Notifier delivers task outcomes to the external channel. Implementations
// must tolerate being unconfigured.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Scheduler evaluates every active task's trigger once per tick and executes
// the due ones through the executor. A failing task is logged and notified
// but never deactivated; the tick loop always continues.
type Scheduler struct {
	store    TaskStore
	runs     *RunLog
	executor TaskExecutor
	notifier Notifier
	tick     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	lastFired map[int64]time.Time
}

func New(store TaskStore, runs *RunLog, executor TaskExecutor, notifier Notifier, tick time.Duration) *Scheduler {
	return &Scheduler{
		store:     store,
		runs:      runs,
		executor:  executor,
		notifier:  notifier,
		tick:      tick,
		lastFired: make(map[int64]time.Time),
	}
}

// Start begins the tick loop.
func (s *Scheduler) Start() {
	if s.ctx != nil {
		xlog.Warn("Scheduler already started")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.ctx = ctx
	s.cancel = cancel
	s.wg.Add(1)
	go s.run()
	xlog.Info("Task scheduler started", "tick", s.tick)
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.cancel = nil
	s.ctx = nil
	xlog.Info("Task scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(s.ctx, now)
		}
	}
}

// Tick evaluates all tasks against now and executes the due ones. Exposed so
// tests can drive the scheduler without waiting on the wall clock.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	tasks, err := s.store.GetAll()
	if err != nil {
		xlog.Error("Failed to read tasks", "error", err)
		return
	}

	for _, task := range tasks {
		if !task.Active || !Due(task.When, now) {
			continue
		}
		if !s.markFired(task.ID, now) {
			// already fired this minute; tick jitter must not double-run
			continue
		}
		s.execute(ctx, task)
	}
}

// markFired records the firing watermark for the current minute. Returns
// false when the task already fired in this minute.
func (s *Scheduler) markFired(id int64, now time.Time) bool {
	minute := now.Truncate(time.Minute)

	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.lastFired[id]; ok && last.Equal(minute) {
		return false
	}
	s.lastFired[id] = minute
	return true
}

// execute runs one task and always notifies, success or failure. Errors stop
// here: they never propagate into the tick loop and never touch the task's
// Active flag.
func (s *Scheduler) execute(ctx context.Context, task *Task) {
	xlog.Info("Running scheduled task", "task", task.Name, "when", task.When)

	run := NewRun(task.Name)
	resp, err := s.executor.Execute(ctx, task.Prompt)
	if err != nil {
		run.Error = err.Error()
		xlog.Error("Scheduled task failed", "task", task.Name, "error", err)
	} else {
		run.Model = resp.Model
		run.Result = resp.Response
	}

	if logErr := s.runs.Append(run); logErr != nil {
		xlog.Error("Failed to log task run", "task", task.Name, "error", logErr)
	}

	if err != nil {
		s.notifier.Notify(ctx, fmt.Sprintf("⚠️ Scheduled task failed: *%s*\nError: %s", task.Name, err.Error()))
		return
	}
	s.notifier.Notify(ctx, fmt.Sprintf("✅ *%s*\n\n%s", task.Name, xstrings.Truncate(resp.Response, resultLimit)))
	xlog.Info("Scheduled task done", "task", task.Name, "model", resp.Model)
}
