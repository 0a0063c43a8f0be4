// Package worker runs a long scan or copy on its own goroutine. The job owns whatever it
// builds until it finishes; the result is handed over exactly once.
package worker

import (
	"log/slog"
	"time"

	"github.com/hayeah/collect/fstree"
	"github.com/hayeah/collect/internal/progress"
)

// Job is a unit of work reporting visited paths through onVisit.
type Job[T any] func(onVisit fstree.VisitFunc) (T, error)

// Result is what a finished job hands over.
type Result[T any] struct {
	Value   T
	Err     error
	Visited int
	Elapsed time.Duration
}

// Task is a running job.
type Task[T any] struct {
	name     string
	progress chan progress.Event
	done     chan Result[T]
}

// Start runs job on a new goroutine. Progress is throttled to one event per interval;
// events the consumer is not ready for are dropped rather than blocking the job.
func Start[T any](name string, interval time.Duration, logger *slog.Logger, job Job[T]) *Task[T] {
	t := &Task[T]{
		name:     name,
		progress: make(chan progress.Event, 1),
		done:     make(chan Result[T], 1),
	}

	go func() {
		started := time.Now()
		logger.Debug("job started", "job", name)

		th := progress.NewThrottle(interval, func(ev progress.Event) {
			select {
			case t.progress <- ev:
			default:
			}
		})
		value, err := job(th.Visit)

		res := Result[T]{
			Value:   value,
			Err:     err,
			Visited: th.Count(),
			Elapsed: time.Since(started),
		}
		logger.Debug("job finished", "job", name, "visited", res.Visited, "elapsed", res.Elapsed, "err", err)

		close(t.progress)
		t.done <- res
	}()

	return t
}

// Name identifies the task in logs and screens.
func (t *Task[T]) Name() string {
	return t.name
}

// Progress yields throttled progress events. It is closed before the result is sent.
func (t *Task[T]) Progress() <-chan progress.Event {
	return t.progress
}

// Done yields the single result.
func (t *Task[T]) Done() <-chan Result[T] {
	return t.done
}

// Wait blocks until the job finishes, passing progress events to onProgress if non-nil.
func (t *Task[T]) Wait(onProgress func(progress.Event)) Result[T] {
	for ev := range t.progress {
		if onProgress != nil {
			onProgress(ev)
		}
	}
	return <-t.done
}
