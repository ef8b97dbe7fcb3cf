// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package jobsched provides a small scheduler for named periodic jobs.
// Each job runs on its own goroutine and its callback is invoked
// synchronously from that goroutine, so an invocation can never overlap the
// previous invocation of the same job.  Distinct jobs run independently and
// may interleave.
package jobsched

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// job describes a single registered periodic job.
type job struct {
	name     string
	interval time.Duration
	fn       func()
}

// Scheduler runs named jobs at fixed intervals.  It must be started with
// Start for registered jobs to fire and stopped with Stop to release the
// job goroutines.
type Scheduler struct {
	// The following variables must only be used atomically.
	started  int32
	shutdown int32

	wg   sync.WaitGroup
	quit chan struct{}

	mtx  sync.Mutex
	jobs map[string]*job
}

// New returns a new scheduler with no registered jobs.
func New() *Scheduler {
	return &Scheduler{
		quit: make(chan struct{}),
		jobs: make(map[string]*job),
	}
}

// Register schedules fn to run every interval under the given name.  Names
// must be unique.  Jobs registered after Start begin ticking immediately.
func (s *Scheduler) Register(name string, fn func(), interval time.Duration) error {
	if fn == nil {
		return fmt.Errorf("job %s has no callback", name)
	}
	if interval <= 0 {
		return fmt.Errorf("job %s has non-positive interval %v", name, interval)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s is already registered", name)
	}

	j := &job{name: name, interval: interval, fn: fn}
	s.jobs[name] = j

	if atomic.LoadInt32(&s.started) != 0 && atomic.LoadInt32(&s.shutdown) == 0 {
		s.wg.Add(1)
		go s.jobHandler(j)
	}

	log.Debugf("Registered job %s with interval %v", name, interval)
	return nil
}

// Start launches a goroutine per registered job.  Calling Start on an
// already started scheduler is a no-op.
func (s *Scheduler) Start() {
	// Already started?
	if atomic.AddInt32(&s.started, 1) != 1 {
		return
	}

	log.Trace("Starting job scheduler")

	s.mtx.Lock()
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.jobHandler(j)
	}
	s.mtx.Unlock()
}

// Stop signals all job goroutines to exit and blocks until they have done
// so.  A job mid-invocation finishes its current run first.
func (s *Scheduler) Stop() {
	if atomic.AddInt32(&s.shutdown, 1) != 1 {
		log.Warn("Job scheduler is already in the process of shutting down")
		return
	}

	log.Trace("Job scheduler shutting down")
	close(s.quit)
	s.wg.Wait()
}

// jobHandler ticks a single job until the scheduler shuts down.  The job
// callback runs synchronously here, which is what guarantees a job never
// re-enters while its previous invocation is still outstanding.
func (s *Scheduler) jobHandler(j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.fn()

		case <-s.quit:
			log.Tracef("Job handler for %s done", j.name)
			return
		}
	}
}
