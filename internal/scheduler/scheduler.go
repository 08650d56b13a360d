// Package scheduler serializes outbound lookup work behind a FIFO
// queue, a concurrency cap, and two stacked rate limits: a minimum
// spacing between request starts and a trailing-window cap. Both
// limits must hold simultaneously before a job may start.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults keep the daemon under a 10 req/s upstream limit with margin:
// 110ms spacing alone allows ~9/s, and the trailing-window cap refuses
// a 10th start in any 1s window regardless of spacing drift.
const (
	DefaultMaxConcurrent = 5
	DefaultMinSpacing    = 110 * time.Millisecond
	DefaultWindowCap     = 9
	DefaultWindow        = time.Second
)

// ErrClosed is returned by Run when the scheduler shut down before the
// job could execute.
var ErrClosed = errors.New("scheduler is closed")

// Config bounds the scheduler's outbound behavior.
type Config struct {
	MaxConcurrent int           // simultaneous in-flight jobs
	MinSpacing    time.Duration // minimum gap between job starts
	WindowCap     int           // max starts per trailing window
	Window        time.Duration // trailing window duration
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.MinSpacing <= 0 {
		c.MinSpacing = DefaultMinSpacing
	}
	if c.WindowCap <= 0 {
		c.WindowCap = DefaultWindowCap
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	return c
}

type job struct {
	ctx  context.Context
	fn   func(context.Context)
	ran  bool
	done chan struct{}
}

// Scheduler drains queued jobs strictly FIFO. Completion order is not
// guaranteed once MaxConcurrent > 1; only start order is.
type Scheduler struct {
	cfg     Config
	limiter *rate.Limiter
	logger  *slog.Logger

	closeCtx context.Context
	cancel   context.CancelFunc

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*job
	active int
	closed bool

	// Start timestamps inside the trailing window. Owned by the
	// dispatcher goroutine exclusively.
	starts []time.Time
}

// New creates a scheduler and starts its dispatcher.
func New(cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Every(cfg.MinSpacing), 1),
		logger:   logger,
		closeCtx: ctx,
		cancel:   cancel,
	}
	s.cond = sync.NewCond(&s.mu)

	go s.dispatch()
	return s
}

// Run enqueues fn and blocks until it has executed. The job runs to
// completion once dequeued; the only in-flight cancellation is
// whatever fn itself observes on ctx. Returns ErrClosed if the
// scheduler shut down before the job's turn arrived.
func (s *Scheduler) Run(ctx context.Context, fn func(context.Context)) error {
	j := &job{ctx: ctx, fn: fn, done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.queue = append(s.queue, j)
	s.mu.Unlock()
	s.cond.Signal()

	<-j.done
	if !j.ran {
		return ErrClosed
	}
	return nil
}

// Close stops the dispatcher. Queued jobs that never ran have their
// waiters released with ErrClosed; jobs already started finish
// normally.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.cond.Broadcast()
}

func (s *Scheduler) dispatch() {
	for {
		s.mu.Lock()
		for !s.closed && (len(s.queue) == 0 || s.active >= s.cfg.MaxConcurrent) {
			s.cond.Wait()
		}
		if s.closed {
			pending := s.queue
			s.queue = nil
			s.mu.Unlock()
			for _, j := range pending {
				close(j.done)
			}
			return
		}

		j := s.queue[0]
		s.queue = s.queue[1:]
		s.active++
		s.mu.Unlock()

		// Block here, not in the worker, so starts stay strictly FIFO
		// relative to enqueue order.
		s.waitTurn()

		go s.execute(j)
	}
}

func (s *Scheduler) execute(j *job) {
	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
		s.cond.Signal()
	}()

	j.ran = true
	j.fn(j.ctx)
	close(j.done)
}

// waitTurn blocks until both rate constraints allow another start,
// then records the start in the trailing window.
func (s *Scheduler) waitTurn() {
	if err := s.limiter.Wait(s.closeCtx); err != nil {
		// Shutting down; let the job run, its own ctx governs it.
		return
	}

	for {
		now := time.Now()
		cutoff := now.Add(-s.cfg.Window)

		kept := 0
		for kept < len(s.starts) && !s.starts[kept].After(cutoff) {
			kept++
		}
		s.starts = s.starts[kept:]

		if len(s.starts) < s.cfg.WindowCap {
			break
		}

		wait := s.starts[0].Add(s.cfg.Window).Sub(now)
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-s.closeCtx.Done():
			timer.Stop()
			return
		}
	}

	s.starts = append(s.starts, time.Now())
}
