package strategy

import (
	"context"
	"fmt"

	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/hiding"
)

type lineStrategy struct {
	name   string
	ranges func(doc *buffer.Document) (start, end int, ok bool)
}

func (s lineStrategy) Name() string { return s.name }

func (s lineStrategy) Candidates(_ context.Context, doc *buffer.Document) ([]hiding.NewHiding, int, error) {
	start, end, ok := s.ranges(doc)
	if !ok {
		return nil, -1, nil
	}
	h, err := hiding.NewHidingRange(start, end, false)
	if err != nil {
		return nil, -1, err
	}
	return []hiding.NewHiding{h}, -1, nil
}

// BelowLine hides everything from the start of line n to the end of the
// document. Documents with fewer than n lines get no candidate.
func BelowLine(n int) Strategy {
	return lineStrategy{
		name: fmt.Sprintf("below %d", n),
		ranges: func(doc *buffer.Document) (int, int, bool) {
			line, err := doc.LineByNumber(n)
			if err != nil {
				return 0, 0, false
			}
			return line.Offset, doc.Len(), true
		},
	}
}

// WholeDocument hides the whole text.
func WholeDocument() Strategy {
	return lineStrategy{
		name: "whole document",
		ranges: func(doc *buffer.Document) (int, int, bool) {
			return 0, doc.Len(), true
		},
	}
}

// FirstLines hides lines 1 through n when the document is longer than n lines.
func FirstLines(n int) Strategy {
	return lineStrategy{
		name: fmt.Sprintf("first %d", n),
		ranges: func(doc *buffer.Document) (int, int, bool) {
			if n < 1 || doc.LineCount() <= n {
				return 0, 0, false
			}
			last, err := doc.LineByNumber(n)
			if err != nil {
				return 0, 0, false
			}
			return 0, last.EndOffset(), true
		},
	}
}
