package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSchedulerStopped = errors.New("reply scheduler stopped")

// ReplyTask is a deferred assistant reply. It has no cancellation: once
// scheduled it always runs at DueAt (or as soon after as possible).
type ReplyTask struct {
	SessionID uuid.UUID
	UserText  string
	DueAt     time.Time
	Run       func(ctx context.Context, task ReplyTask)
}

// Scheduler keeps one FIFO of reply tasks per session, drained by a single
// goroutine that waits for the head task's DueAt before running it. Tasks
// of one session therefore complete in the order they were scheduled;
// different sessions do not wait on each other.
type Scheduler struct {
	mu      sync.Mutex
	stopped bool
	queues  map[uuid.UUID][]ReplyTask
	wg      sync.WaitGroup
	pending atomic.Int64
	logger  *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		queues: make(map[uuid.UUID][]ReplyTask),
		logger: logger,
	}
}

func (s *Scheduler) Schedule(task ReplyTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrSchedulerStopped
	}

	q, draining := s.queues[task.SessionID]
	s.queues[task.SessionID] = append(q, task)
	s.pending.Add(1)

	if !draining {
		s.wg.Add(1)
		go s.drain(task.SessionID)
	}
	return nil
}

// drain runs the session's queue until it is empty. The queue entry stays
// in the map while a task runs so concurrent Schedule calls append to it
// instead of starting a second drainer.
func (s *Scheduler) drain(sessionID uuid.UUID) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		q := s.queues[sessionID]
		if len(q) == 0 {
			delete(s.queues, sessionID)
			s.mu.Unlock()
			return
		}
		task := q[0]
		q[0] = ReplyTask{}
		s.queues[sessionID] = q[1:]
		s.mu.Unlock()

		if wait := time.Until(task.DueAt); wait > 0 {
			timer := time.NewTimer(wait)
			<-timer.C
		}

		task.Run(context.Background(), task)
		s.pending.Add(-1)
		s.logger.Debug("reply task done", zap.String("session_id", sessionID.String()))
	}
}

// Pending returns the number of scheduled tasks that have not finished.
func (s *Scheduler) Pending() int {
	return int(s.pending.Load())
}

// Stop refuses new tasks and blocks until every scheduled task has run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.logger.Info("waiting for pending replies", zap.Int("pending", s.Pending()))
	s.wg.Wait()
}
