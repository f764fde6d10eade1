// Package supervisor implements the Worker Supervisor (C13): starts
// every enabled worker against one shared cancellation context and
// stops them all on shutdown within a bounded grace period, per §4.11
// and §5. Grounded on the teacher's MetricsScheduler
// (libs/go/services/metrics_scheduler.go) Start/Stop/stopCh/wg/stopOnce
// shape, generalized here from two fixed schedules owned by one struct
// to an arbitrary list of independently registered workers.
package supervisor

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/logger"
)

// shutdownGrace bounds how long Shutdown waits for the workers' Stop
// calls before moving on.
var shutdownGrace = 10 * time.Second

// Worker is anything the supervisor can start and stop. C10's
// cron.Scheduler has this method set already; C6's processor.Loop and
// C7's replay.Worker are adapted through NewSimpleWorker.
type Worker interface {
	Start() error
	Stop()
}

// simpleWorker adapts a Worker whose Start never fails (processor.Loop
// and replay.Worker both return nothing from Start).
type simpleWorker struct {
	start func()
	stop  func()
}

func (w simpleWorker) Start() error { w.start(); return nil }
func (w simpleWorker) Stop()        { w.stop() }

// NewSimpleWorker adapts a start/stop pair with no error return into a Worker.
func NewSimpleWorker(start, stop func()) Worker {
	return simpleWorker{start: start, stop: stop}
}

type registration struct {
	name    string
	worker  Worker
	enabled bool
}

// Supervisor owns the registered worker set and the process's
// cancellation lifecycle.
type Supervisor struct {
	mu       sync.Mutex
	workers  []registration
	stopOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc
}

// New derives the shared cancellation context from SIGINT/SIGTERM, per
// §5's "one shared context.Context from signal.NotifyContext".
func New() *Supervisor {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return &Supervisor{ctx: ctx, cancel: cancel}
}

// Context is the shared cancellation context workers may observe.
func (s *Supervisor) Context() context.Context { return s.ctx }

// Register adds a worker under name, started only if enabled.
func (s *Supervisor) Register(name string, worker Worker, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = append(s.workers, registration{name: name, worker: worker, enabled: enabled})
}

// Start starts every registered, enabled worker.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.workers {
		if !r.enabled {
			logger.Info("worker disabled, not starting", zap.String("worker", r.name))
			continue
		}
		if err := r.worker.Start(); err != nil {
			return err
		}
		logger.Info("worker started", zap.String("worker", r.name))
	}
	return nil
}

// Wait blocks until the shared context is canceled (a shutdown signal
// arrived), then stops every enabled worker within the grace period.
func (s *Supervisor) Wait() {
	<-s.ctx.Done()
	s.Shutdown()
}

// Shutdown cancels the shared context and stops every enabled worker
// concurrently, forcing the process onward after shutdownGrace even if
// a worker's Stop hasn't returned.
func (s *Supervisor) Shutdown() {
	s.stopOnce.Do(func() {
		s.cancel()
		logger.Info("shutdown signal received, stopping workers", zap.Duration("grace", shutdownGrace))

		s.mu.Lock()
		workers := make([]registration, len(s.workers))
		copy(workers, s.workers)
		s.mu.Unlock()

		done := make(chan struct{})
		go func() {
			var wg sync.WaitGroup
			for _, r := range workers {
				if !r.enabled {
					continue
				}
				wg.Add(1)
				go func(r registration) {
					defer wg.Done()
					r.worker.Stop()
					logger.Info("worker stopped", zap.String("worker", r.name))
				}(r)
			}
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			logger.Info("all workers stopped cleanly")
		case <-time.After(shutdownGrace):
			logger.Warn("shutdown grace period exceeded, forcing exit")
		}
	})
}
