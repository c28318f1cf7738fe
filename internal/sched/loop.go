// Package sched implements the cooperative task queue that spreads DOM
// construction across scheduling turns.
//
// A Loop is single threaded: tasks are queued with a delay relative to the
// loop's virtual clock and run one per turn, each to completion. Tasks with
// the same due time run in the order they were scheduled.
package sched

import (
	"container/heap"
	"context"
	"time"

	"github.com/go-logr/logr"
)

// Task is a unit of deferred work.
type Task func()

// Scheduler accepts deferred work.
type Scheduler interface {
	Schedule(delay time.Duration, task Task)
}

type entry struct {
	due  time.Duration
	seq  uint64
	task Task
}

type queue []entry

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)   { *q = append(*q, x.(entry)) }
func (q *queue) Pop() any {
	old := *q
	e := old[len(old)-1]
	old[len(old)-1] = entry{}
	*q = old[:len(old)-1]
	return e
}

// Loop is a task queue with a virtual clock and a driver that consumes it.
type Loop struct {
	now   time.Duration
	seq   uint64
	q     queue
	turns int
	pace  bool
	sleep func(context.Context, time.Duration) error
	log   logr.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithPacing makes Drain wait on the wall clock for the gap between
// successive due times instead of jumping the virtual clock.
func WithPacing(enabled bool) Option {
	return func(l *Loop) { l.pace = enabled }
}

// WithLogger sets the logger used for turn tracing.
func WithLogger(lgr logr.Logger) Option {
	return func(l *Loop) { l.log = lgr }
}

// withSleep replaces the pacing sleep, for tests.
func withSleep(fn func(context.Context, time.Duration) error) Option {
	return func(l *Loop) { l.sleep = fn }
}

// New returns an empty Loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		sleep: sleepContext,
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Schedule queues task to run delay after the current virtual time.
// Negative delays are treated as zero.
func (l *Loop) Schedule(delay time.Duration, task Task) {
	if task == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	l.seq++
	heap.Push(&l.q, entry{due: l.now + delay, seq: l.seq, task: task})
}

// Now returns the virtual time of the last turn.
func (l *Loop) Now() time.Duration { return l.now }

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int { return len(l.q) }

// Turns returns the number of turns run so far.
func (l *Loop) Turns() int { return l.turns }

// Next returns how far after the current virtual time the next task is due.
func (l *Loop) Next() (time.Duration, bool) {
	if len(l.q) == 0 {
		return 0, false
	}
	return l.q[0].due - l.now, true
}

// Turn runs the earliest queued task, advancing the virtual clock to its
// due time. It reports false when the queue is empty.
func (l *Loop) Turn() bool {
	if len(l.q) == 0 {
		return false
	}
	e := heap.Pop(&l.q).(entry)
	if e.due > l.now {
		l.now = e.due
	}
	l.turns++
	l.log.V(2).Info("scheduler turn", "turn", l.turns, "at", l.now, "pending", len(l.q))
	e.task()
	return true
}

// Drain runs turns until the queue is empty or ctx is done, and returns the
// number of turns it ran.
func (l *Loop) Drain(ctx context.Context) (int, error) {
	ran := 0
	for {
		if err := ctx.Err(); err != nil {
			return ran, err
		}
		wait, ok := l.Next()
		if !ok {
			return ran, nil
		}
		if l.pace && wait > 0 {
			if err := l.sleep(ctx, wait); err != nil {
				return ran, err
			}
		}
		l.Turn()
		ran++
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
