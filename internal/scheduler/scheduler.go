// Package scheduler runs controller recompute work on a single background
// worker. Tasks carry a quality-of-service class; user-interactive work always
// runs before background batches, and tasks of the same class run in
// submission order.
package scheduler

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
)

// QoS classifies how urgently a task should run.
type QoS int

const (
	// Background is bulk work such as a full-table recompute.
	Background QoS = iota
	// UserInteractive is work triggered by a user edit; it jumps ahead of
	// any queued background work.
	UserInteractive
)

func (q QoS) String() string {
	switch q {
	case UserInteractive:
		return "user-interactive"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

// Task is one unit of deferred work, dispatched to the handler registered
// under HandlerID.
type Task struct {
	ID        uint64
	HandlerID string
	QoS       QoS
	Payload   any
}

// Handler processes tasks submitted on behalf of one controller.
type Handler interface {
	HandlerID() string
	ProcessTask(ctx context.Context, task Task) error
}

type queuedTask struct {
	task Task
	seq  uint64
}

// taskHeap orders by QoS class first, then submission order within a class.
type taskHeap []queuedTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].task.QoS != h[j].task.QoS {
		return h[i].task.QoS > h[j].task.QoS
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(queuedTask)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Scheduler owns the task queue and the worker goroutine draining it.
type Scheduler struct {
	logger *slog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	queue    taskHeap
	handlers map[string]Handler
	nextID   uint64
	nextSeq  uint64
	stopped  bool

	done chan struct{}
}

// New creates a stopped scheduler; call Start to begin draining tasks.
func New(logger *slog.Logger) *Scheduler {
	s := &Scheduler{
		logger:   logger,
		handlers: make(map[string]Handler),
		done:     make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// RegisterHandler makes a handler's tasks runnable. Registering the same id
// again replaces the previous handler.
func (s *Scheduler) RegisterHandler(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[h.HandlerID()] = h
}

// UnregisterHandler drops a handler. Its queued tasks are discarded when they
// reach the front of the queue.
func (s *Scheduler) UnregisterHandler(handlerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, handlerID)
}

// NextTaskID reserves an id for a task about to be submitted.
func (s *Scheduler) NextTaskID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

// AddTask queues a task. Safe to call from any goroutine, including from
// inside a running task.
func (s *Scheduler) AddTask(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.nextSeq++
	heap.Push(&s.queue, queuedTask{task: task, seq: s.nextSeq})
	s.cond.Signal()
}

// Start launches the worker goroutine. The worker exits when ctx is cancelled
// or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	go s.run(ctx)
}

// Stop wakes the worker and lets it exit after the task in flight, if any.
// Queued tasks are dropped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.cond.Broadcast()
	s.mu.Unlock()
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.stopped {
			s.cond.Wait()
		}
		if s.stopped {
			s.mu.Unlock()
			return
		}
		item := heap.Pop(&s.queue).(queuedTask)
		handler, ok := s.handlers[item.task.HandlerID]
		s.mu.Unlock()

		if !ok {
			// The controller went away; its work is moot.
			continue
		}
		if err := handler.ProcessTask(ctx, item.task); err != nil {
			s.logger.Error("task failed",
				"handler_id", item.task.HandlerID,
				"task_id", item.task.ID,
				"qos", item.task.QoS.String(),
				"error", err)
		}
	}
}
