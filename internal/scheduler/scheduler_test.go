package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	id string

	mu    sync.Mutex
	tasks []Task
	seen  chan struct{}
}

func newRecordingHandler(id string) *recordingHandler {
	return &recordingHandler{id: id, seen: make(chan struct{}, 64)}
}

func (h *recordingHandler) HandlerID() string { return h.id }

func (h *recordingHandler) ProcessTask(ctx context.Context, task Task) error {
	h.mu.Lock()
	h.tasks = append(h.tasks, task)
	h.mu.Unlock()
	h.seen <- struct{}{}
	return nil
}

func (h *recordingHandler) wait(t *testing.T, n int) []Task {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-h.seen:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for task %d of %d", i+1, n)
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Task(nil), h.tasks...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerUserInteractiveRunsFirst(t *testing.T) {
	s := New(testLogger())
	handler := newRecordingHandler("filter")
	s.RegisterHandler(handler)

	// Queue before starting the worker so ordering is decided purely by
	// the queue, not by submission timing.
	s.AddTask(Task{ID: s.NextTaskID(), HandlerID: "filter", QoS: Background})
	s.AddTask(Task{ID: s.NextTaskID(), HandlerID: "filter", QoS: Background})
	s.AddTask(Task{ID: s.NextTaskID(), HandlerID: "filter", QoS: UserInteractive})

	s.Start(context.Background())
	defer s.Stop()

	tasks := handler.wait(t, 3)
	require.Equal(t, UserInteractive, tasks[0].QoS)
	require.Equal(t, Background, tasks[1].QoS)
	require.Equal(t, Background, tasks[2].QoS)
}

func TestSchedulerFIFOWithinClass(t *testing.T) {
	s := New(testLogger())
	handler := newRecordingHandler("group")
	s.RegisterHandler(handler)

	var ids []uint64
	for i := 0; i < 5; i++ {
		id := s.NextTaskID()
		ids = append(ids, id)
		s.AddTask(Task{ID: id, HandlerID: "group", QoS: Background})
	}

	s.Start(context.Background())
	defer s.Stop()

	tasks := handler.wait(t, 5)
	for i, task := range tasks {
		require.Equal(t, ids[i], task.ID)
	}
}

func TestSchedulerDropsTasksForUnregisteredHandler(t *testing.T) {
	s := New(testLogger())
	gone := newRecordingHandler("gone")
	alive := newRecordingHandler("alive")
	s.RegisterHandler(gone)
	s.RegisterHandler(alive)
	s.UnregisterHandler("gone")

	s.AddTask(Task{ID: s.NextTaskID(), HandlerID: "gone", QoS: UserInteractive})
	s.AddTask(Task{ID: s.NextTaskID(), HandlerID: "alive", QoS: Background})

	s.Start(context.Background())
	defer s.Stop()

	// The sentinel task is queued behind the dropped one, so once it has
	// run the dropped task is already decided.
	alive.wait(t, 1)
	require.Empty(t, gone.wait(t, 0))
}

func TestSchedulerStopDiscardsQueuedTasks(t *testing.T) {
	s := New(testLogger())
	handler := newRecordingHandler("filter")
	s.RegisterHandler(handler)
	s.Start(context.Background())
	s.Stop()

	s.AddTask(Task{ID: s.NextTaskID(), HandlerID: "filter", QoS: UserInteractive})
	require.Empty(t, handler.wait(t, 0))
}
