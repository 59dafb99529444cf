package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/hiding"
	"github.com/bethropolis/veil/internal/strategy"
)

// lengthStrategy hides the whole text and counts its runs.
type lengthStrategy struct {
	runs *atomic.Int32
}

func (s lengthStrategy) Name() string { return "length" }

func (s lengthStrategy) Candidates(_ context.Context, doc *buffer.Document) ([]hiding.NewHiding, int, error) {
	s.runs.Add(1)
	h, err := hiding.NewHidingRange(0, doc.Len(), false)
	return []hiding.NewHiding{h}, -1, err
}

func TestRefresherDebouncesEdits(t *testing.T) {
	results := make(chan refreshResult, 4)
	r := NewHidingRefresher(30*time.Millisecond, func(res refreshResult) { results <- res })
	defer r.Shutdown()

	var runs atomic.Int32
	r.SetStrategy(func() (strategy.Strategy, error) { return lengthStrategy{&runs}, nil })

	r.AccumulateEdit("a", 1)
	r.AccumulateEdit("abc", 2)

	select {
	case res := <-results:
		if res.generation != 2 || len(res.candidates) != 1 || res.candidates[0].EndOffset != 3 {
			t.Errorf("result = %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result")
	}

	select {
	case res := <-results:
		t.Errorf("unexpected second result %+v", res)
	case <-time.After(150 * time.Millisecond):
	}
	if n := runs.Load(); n != 1 {
		t.Errorf("strategy ran %d times", n)
	}
}

func TestRefresherIdleWithoutStrategy(t *testing.T) {
	results := make(chan refreshResult, 1)
	r := NewHidingRefresher(10*time.Millisecond, func(res refreshResult) { results <- res })
	defer r.Shutdown()

	r.AccumulateEdit("ignored", 1)

	var runs atomic.Int32
	r.SetStrategy(func() (strategy.Strategy, error) { return lengthStrategy{&runs}, nil })
	r.AccumulateEdit("x", 2)
	r.SetStrategy(nil)

	select {
	case res := <-results:
		t.Errorf("refresh ran after the strategy was removed: %+v", res)
	case <-time.After(100 * time.Millisecond):
	}
}
