package scheduler_test

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/cperez90008/kiwiai/core/scheduler"
	"github.com/cperez90008/kiwiai/core/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeExecutor records executed prompts and can be told to fail.
type fakeExecutor struct {
	executed []string
	err      error
}

func (f *fakeExecutor) Execute(ctx context.Context, prompt string) (*types.ChatResponse, error) {
	f.executed = append(f.executed, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &types.ChatResponse{Response: "done: " + prompt, Model: "Test Model"}, nil
}

// fakeNotifier collects everything sent to the channel.
type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Notify(ctx context.Context, text string) {
	f.sent = append(f.sent, text)
}

var _ = Describe("Scheduler", func() {
	var (
		store    *scheduler.JSONStore
		runs     *scheduler.RunLog
		executor *fakeExecutor
		notifier *fakeNotifier
		sched    *scheduler.Scheduler
	)

	eightAM := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC) // a Monday

	BeforeEach(func() {
		dir := GinkgoT().TempDir()
		store = scheduler.NewJSONStore(filepath.Join(dir, "tasks.json"))
		runs = scheduler.NewRunLog(filepath.Join(dir, "scheduled.log"))
		executor = &fakeExecutor{}
		notifier = &fakeNotifier{}
		sched = scheduler.New(store, runs, executor, notifier, time.Minute)
	})

	create := func(name, when string) *scheduler.Task {
		task := &scheduler.Task{Name: name, When: when, Prompt: "do " + name}
		ExpectWithOffset(1, store.Create(task)).To(Succeed())
		return task
	}

	It("should execute a due task and notify success", func() {
		create("briefing", "every day at 8:00")
		sched.Tick(context.Background(), eightAM)

		Expect(executor.executed).To(Equal([]string{"do briefing"}))
		Expect(notifier.sent).To(HaveLen(1))
		Expect(notifier.sent[0]).To(ContainSubstring("✅"))
		Expect(notifier.sent[0]).To(ContainSubstring("briefing"))
	})

	It("should not execute tasks that are not due", func() {
		create("briefing", "every day at 8:00")
		sched.Tick(context.Background(), eightAM.Add(time.Minute))

		Expect(executor.executed).To(BeEmpty())
		Expect(notifier.sent).To(BeEmpty())
	})

	It("should skip toggled-off tasks without deleting them", func() {
		task := create("briefing", "every day at 8:00")
		_, err := store.Toggle(task.ID)
		Expect(err).NotTo(HaveOccurred())

		sched.Tick(context.Background(), eightAM)
		Expect(executor.executed).To(BeEmpty())

		tasks, _ := store.GetAll()
		Expect(tasks).To(HaveLen(1))
	})

	It("should append a run record with the provider used", func() {
		create("briefing", "every day at 8:00")
		sched.Tick(context.Background(), eightAM)

		tail := runs.Tail(10)
		Expect(tail).To(HaveLen(1))
		Expect(tail[0].Task).To(Equal("briefing"))
		Expect(tail[0].Model).To(Equal("Test Model"))
		Expect(tail[0].Result).To(ContainSubstring("do briefing"))
	})

	It("should fire at most once per minute despite extra ticks", func() {
		create("briefing", "every day at 8:00")
		sched.Tick(context.Background(), eightAM)
		sched.Tick(context.Background(), eightAM.Add(10*time.Second))
		sched.Tick(context.Background(), eightAM.Add(30*time.Second))

		Expect(executor.executed).To(HaveLen(1))
	})

	It("should fire again at the next scheduled instant", func() {
		create("pulse", "every minute")
		sched.Tick(context.Background(), eightAM)
		sched.Tick(context.Background(), eightAM.Add(time.Minute))

		Expect(executor.executed).To(HaveLen(2))
	})

	Context("when execution fails", func() {
		BeforeEach(func() {
			executor.err = errors.New("provider exploded")
		})

		It("should notify the failure and keep the task active", func() {
			task := create("briefing", "every day at 8:00")
			sched.Tick(context.Background(), eightAM)

			Expect(notifier.sent).To(HaveLen(1))
			Expect(notifier.sent[0]).To(ContainSubstring("⚠️"))
			Expect(notifier.sent[0]).To(ContainSubstring("provider exploded"))

			fromStore, err := store.Get(task.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fromStore.Active).To(BeTrue())
		})

		It("should record the error in the run log", func() {
			create("briefing", "every day at 8:00")
			sched.Tick(context.Background(), eightAM)

			tail := runs.Tail(10)
			Expect(tail).To(HaveLen(1))
			Expect(tail[0].Error).To(ContainSubstring("provider exploded"))
		})

		It("should keep executing the remaining due tasks", func() {
			create("one", "every minute")
			create("two", "every minute")
			sched.Tick(context.Background(), eightAM)

			Expect(executor.executed).To(HaveLen(2))
			Expect(notifier.sent).To(HaveLen(2))
		})
	})

	It("should start and stop the tick loop cleanly", func() {
		sched.Start()
		sched.Stop()
		// double stop is a no-op
		sched.Stop()
	})
})
