// Package strategy computes the ranges a hiding.Manager should hide.
package strategy

import (
	"context"
	"fmt"

	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/hiding"
	"github.com/bethropolis/veil/internal/logger"
)

// Strategy produces hiding candidates for a document.
type Strategy interface {
	Name() string
	// Candidates returns candidates sorted by start offset and the offset of
	// the first parse error, or -1.
	Candidates(ctx context.Context, doc *buffer.Document) ([]hiding.NewHiding, int, error)
}

// Apply runs s over doc and reconciles the result into m.
func Apply(ctx context.Context, m *hiding.Manager, doc *buffer.Document, s Strategy) error {
	if m == nil || doc == nil || s == nil {
		return fmt.Errorf("%w: nil manager, document or strategy", hiding.ErrInvalidArgument)
	}
	candidates, firstError, err := s.Candidates(ctx, doc)
	if err != nil {
		return fmt.Errorf("strategy %s: %w", s.Name(), err)
	}
	logger.DebugTagf("hiding", "Strategy %s produced %d candidates (first error at %d)", s.Name(), len(candidates), firstError)
	return m.UpdateHidings(candidates, firstError)
}

// Options configures the strategies built by New.
type Options struct {
	Line       int    // BelowLine starting line
	FirstLines int    // FirstLines line count
	FilePath   string // Picks the grammar for Definitions
}

// New builds the strategy called name.
func New(name string, opts Options) (Strategy, error) {
	switch name {
	case "below":
		return BelowLine(opts.Line), nil
	case "whole":
		return WholeDocument(), nil
	case "first":
		return FirstLines(opts.FirstLines), nil
	case "definitions":
		return NewDefinitions(opts.FilePath)
	}
	return nil, fmt.Errorf("unknown hiding strategy %q", name)
}

// Names lists the strategies New understands.
func Names() []string {
	return []string{"below", "whole", "first", "definitions"}
}
