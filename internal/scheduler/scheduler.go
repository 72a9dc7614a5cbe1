/*
Package scheduler runs an administrative job on a cron schedule.

It drives the optional scheduled index rebuild: the index is never
invalidated implicitly, but a long-running server may opt in to rebuilding
it periodically so new usage rows become visible to retrieval.
*/
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorhill/cronexpr"
)

// Job is the work run on each tick.
type Job func(ctx context.Context) error

// Scheduler fires Job at the times described by a cron expression.
type Scheduler struct {
	spec string
	expr *cronexpr.Expression
	job  Job
	now  func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New parses spec and returns a scheduler for job. An empty spec returns a
// nil scheduler, which is valid and never fires.
func New(spec string, job Job) (*Scheduler, error) {
	if spec == "" {
		return nil, nil
	}
	expr, err := cronexpr.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{
		spec: spec,
		expr: expr,
		job:  job,
		now:  time.Now,
		stop: make(chan struct{}),
	}, nil
}

// Next returns the first fire time after t, or the zero time if none.
func (s *Scheduler) Next(t time.Time) time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.expr.Next(t)
}

// Start runs the schedule in the background until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			now := s.now()
			next := s.expr.Next(now)
			if next.IsZero() {
				log.Printf("Warning: schedule %q has no future runs", s.spec)
				return
			}

			timer := time.NewTimer(next.Sub(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-s.stop:
				timer.Stop()
				return
			case <-timer.C:
			}

			s.run(ctx)
		}
	}()
}

func (s *Scheduler) run(ctx context.Context) {
	start := s.now()
	if err := s.job(ctx); err != nil {
		log.Printf("Warning: scheduled job failed: %v", err)
		return
	}
	log.Printf("Scheduled job finished in %v", s.now().Sub(start).Round(time.Millisecond))
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
}
