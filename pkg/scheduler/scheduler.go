// Package scheduler drives the pipeline: the multi-source collection pass, the analysis pass,
// the report pass, and periodic execution of them.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/dropscope/pkg/domain"
)

// Runner executes one run of the given mode
type Runner interface {
	Run(ctx context.Context, mode Mode) (*domain.RunStats, error)
}

// Scheduler repeats runs of one mode with a fixed interval
type Scheduler struct {
	runner   Runner
	mode     Mode
	interval time.Duration
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	runs     int
	mu       sync.Mutex
}

// NewScheduler makes a periodic scheduler, interval defaults to one hour
func NewScheduler(runner Runner, mode Mode, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{runner: runner, mode: mode, interval: interval}
}

// Start runs immediately and then on every tick until Stop or ctx cancellation
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.worker(ctx)

	lgr.Printf("[INFO] scheduler started, mode %s, interval %v", s.mode, s.interval)
}

// Stop cancels the current run and waits for the worker to exit
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// Runs returns the number of completed runs
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// run immediately on start
	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if _, err := s.runner.Run(ctx, s.mode); err != nil {
		if ctx.Err() != nil {
			return
		}
		lgr.Printf("[WARN] scheduled %s run failed: %v", s.mode, err)
	}
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
}
