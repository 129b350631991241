package scheduler_test

import (
	"os"
	"path/filepath"

	"github.com/cperez90008/kiwiai/core/scheduler"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JSONStore", func() {
	var (
		path  string
		store *scheduler.JSONStore
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "tasks.json")
		store = scheduler.NewJSONStore(path)
	})

	It("should assign unique monotonic IDs", func() {
		a := &scheduler.Task{Name: "a", When: "every morning", Prompt: "p"}
		b := &scheduler.Task{Name: "b", When: "every evening", Prompt: "p"}
		Expect(store.Create(a)).To(Succeed())
		Expect(store.Create(b)).To(Succeed())
		Expect(a.ID).NotTo(BeZero())
		Expect(b.ID).To(BeNumerically(">", a.ID))
	})

	It("should create tasks active with a creation timestamp", func() {
		task := &scheduler.Task{Name: "a", When: "every morning", Prompt: "p"}
		Expect(store.Create(task)).To(Succeed())
		Expect(task.Active).To(BeTrue())
		Expect(task.CreatedAt).NotTo(BeZero())
	})

	It("should persist across reloads and keep IDs monotonic", func() {
		a := &scheduler.Task{Name: "a", When: "every morning", Prompt: "p"}
		Expect(store.Create(a)).To(Succeed())

		reloaded := scheduler.NewJSONStore(path)
		tasks, err := reloaded.GetAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(tasks).To(HaveLen(1))

		b := &scheduler.Task{Name: "b", When: "every evening", Prompt: "p"}
		Expect(reloaded.Create(b)).To(Succeed())
		Expect(b.ID).To(BeNumerically(">", a.ID))
	})

	It("should toggle the active flag without losing the record", func() {
		task := &scheduler.Task{Name: "a", When: "every morning", Prompt: "p"}
		Expect(store.Create(task)).To(Succeed())

		toggled, err := store.Toggle(task.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(toggled.Active).To(BeFalse())

		toggled, err = store.Toggle(task.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(toggled.Active).To(BeTrue())

		tasks, _ := store.GetAll()
		Expect(tasks).To(HaveLen(1))
	})

	It("should delete a task", func() {
		task := &scheduler.Task{Name: "a", When: "every morning", Prompt: "p"}
		Expect(store.Create(task)).To(Succeed())
		Expect(store.Delete(task.ID)).To(Succeed())

		tasks, _ := store.GetAll()
		Expect(tasks).To(BeEmpty())
		_, err := store.Get(task.ID)
		Expect(err).To(HaveOccurred())
	})

	It("should error on unknown IDs", func() {
		_, err := store.Toggle(42)
		Expect(err).To(HaveOccurred())
		Expect(store.Delete(42)).NotTo(Succeed())
	})

	It("should start fresh from a corrupt file", func() {
		Expect(os.WriteFile(path, []byte("{{{"), 0644)).To(Succeed())
		fresh := scheduler.NewJSONStore(path)
		tasks, err := fresh.GetAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(tasks).To(BeEmpty())
	})

	It("should hand out copies so callers cannot bypass the store", func() {
		task := &scheduler.Task{Name: "a", When: "every morning", Prompt: "p"}
		Expect(store.Create(task)).To(Succeed())

		tasks, _ := store.GetAll()
		tasks[0].Active = false

		fromStore, _ := store.Get(task.ID)
		Expect(fromStore.Active).To(BeTrue())
	})
})

var _ = Describe("RunLog", func() {
	var (
		path string
		log  *scheduler.RunLog
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "scheduled.log")
		log = scheduler.NewRunLog(path)
	})

	It("should return an empty tail for a missing file", func() {
		Expect(log.Tail(50)).To(BeEmpty())
	})

	It("should return the most recent runs newest first", func() {
		for _, name := range []string{"first", "second", "third"} {
			run := scheduler.NewRun(name)
			run.Result = "ok"
			Expect(log.Append(run)).To(Succeed())
		}

		tail := log.Tail(2)
		Expect(tail).To(HaveLen(2))
		Expect(tail[0].Task).To(Equal("third"))
		Expect(tail[1].Task).To(Equal("second"))
	})

	It("should skip corrupt lines", func() {
		Expect(log.Append(scheduler.NewRun("good"))).To(Succeed())
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
		Expect(err).NotTo(HaveOccurred())
		f.WriteString("not json\n")
		f.Close()
		Expect(log.Append(scheduler.NewRun("also good"))).To(Succeed())

		tail := log.Tail(50)
		Expect(tail).To(HaveLen(2))
		Expect(tail[0].Task).To(Equal("also good"))
	})
})
