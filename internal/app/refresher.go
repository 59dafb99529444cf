package app

import (
	"context"
	"sync"
	"time"

	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/hiding"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/strategy"
)

// refreshResult carries candidates computed for one document generation.
type refreshResult struct {
	generation uint64
	candidates []hiding.NewHiding
	firstError int
	err        error
}

// StrategyFactory builds a fresh strategy for one background run. Strategies
// hold parsers that must not be shared between goroutines.
type StrategyFactory func() (strategy.Strategy, error)

// HidingRefresher recomputes hiding candidates in the background once edits
// have settled and hands the result to deliver.
type HidingRefresher struct {
	delay   time.Duration
	deliver func(refreshResult)

	mu          sync.Mutex // Protects everything below
	factory     StrategyFactory
	timer       *time.Timer
	cancelFunc  context.CancelFunc // Cancels the running task
	isRunning   bool
	pendingText string
	pendingGen  uint64
	hasPending  bool
}

// NewHidingRefresher creates a refresher. deliver is called from a
// background goroutine.
func NewHidingRefresher(delay time.Duration, deliver func(refreshResult)) *HidingRefresher {
	return &HidingRefresher{delay: delay, deliver: deliver}
}

// SetStrategy selects what to recompute. A nil factory stops refreshing and
// drops pending work.
func (r *HidingRefresher) SetStrategy(factory StrategyFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factory = factory
	if factory == nil {
		r.hasPending = false
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
	}
}

// AccumulateEdit records the document text after an edit and restarts the
// debounce timer. Only the latest text is ever processed.
func (r *HidingRefresher) AccumulateEdit(text string, generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factory == nil {
		return
	}

	r.pendingText, r.pendingGen, r.hasPending = text, generation, true
	logger.DebugTagf("refresh", "Accumulated document generation %d", generation)

	if r.timer != nil {
		r.timer.Reset(r.delay)
		return
	}
	r.timer = time.AfterFunc(r.delay, r.run)
}

// run starts a background task for the pending text.
func (r *HidingRefresher) run() {
	r.mu.Lock()
	r.timer = nil

	if r.isRunning {
		// The running task re-arms the timer when it finishes.
		logger.DebugTagf("refresh", "Refresh deferred, another task is running.")
		r.mu.Unlock()
		return
	}
	if !r.hasPending || r.factory == nil {
		r.mu.Unlock()
		return
	}

	text, generation, factory := r.pendingText, r.pendingGen, r.factory
	r.hasPending = false
	r.isRunning = true
	ctx, cancel := context.WithCancel(context.Background())
	r.cancelFunc = cancel
	r.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			r.mu.Lock()
			r.isRunning = false
			r.cancelFunc = nil
			if r.hasPending && r.timer == nil && r.factory != nil {
				r.timer = time.AfterFunc(r.delay, r.run)
			}
			r.mu.Unlock()
		}()

		result := refreshResult{generation: generation, firstError: -1}
		s, err := factory()
		if err != nil {
			result.err = err
			r.deliver(result)
			return
		}
		start := time.Now()
		result.candidates, result.firstError, result.err = s.Candidates(ctx, buffer.New(text))
		if ctx.Err() != nil {
			logger.DebugTagf("refresh", "Refresh of generation %d cancelled.", generation)
			return
		}
		logger.DebugTagf("refresh", "Generation %d: %d candidates in %v", generation, len(result.candidates), time.Since(start))
		r.deliver(result)
	}()
}

// Shutdown cancels any pending or running task.
func (r *HidingRefresher) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factory = nil
	r.hasPending = false
	if r.cancelFunc != nil {
		r.cancelFunc()
		r.cancelFunc = nil
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
