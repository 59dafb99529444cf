package hiding

import (
	"github.com/bethropolis/veil/internal/heighttree"
	"github.com/bethropolis/veil/internal/interval"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/view"
)

// Section is a tracked range of a document that can be hidden. While hidden
// it owns one collapse per attached view.
type Section struct {
	interval.Segment

	manager      *Manager
	hidden       bool
	isDefinition bool
	tag          interface{}

	// nil while nothing is collapsed; otherwise holds exactly one entry per
	// attached view (a nil entry means nothing collapsed in that view).
	collapsed map[view.ID]*heighttree.Collapse
}

// IsHidden reports whether the section's lines are collapsed.
func (s *Section) IsHidden() bool {
	return s.hidden
}

// SetHidden hides or shows the section in every attached view.
func (s *Section) SetHidden(hidden bool) {
	if s.hidden == hidden {
		return
	}
	s.hidden = hidden
	if s.manager == nil {
		return
	}
	s.resetCollapsed()
	s.manager.redrawSection(s)
}

// Tag returns the caller payload. Sections created by UpdateHidings carry
// the NewHiding they were created from.
func (s *Section) Tag() interface{} {
	return s.tag
}

// SetTag sets the caller payload.
func (s *Section) SetTag(tag interface{}) {
	s.tag = tag
}

// SetRange moves the section to [start, end), clamped to the document, and
// re-collapses its lines. Empty and inverted ranges are rejected.
func (s *Section) SetRange(start, end int) error {
	if s.manager == nil {
		return ErrUnknownSection
	}
	return s.manager.moveSection(s, start, end)
}

// SetEndOffset moves only the end of the section.
func (s *Section) SetEndOffset(end int) error {
	return s.SetRange(s.StartOffset(), end)
}

// IsDefinition reports whether the section was created from a definition candidate.
func (s *Section) IsDefinition() bool {
	return s.isDefinition
}

// CollapseFor returns the collapse the section holds in view id.
func (s *Section) CollapseFor(id view.ID) (*heighttree.Collapse, bool) {
	c, ok := s.collapsed[id]
	return c, ok && c != nil
}

// onRangeChanged runs after an edit or a reconciliation moved the section.
func (s *Section) onRangeChanged() {
	s.resetCollapsed()
	if s.IsConnected() {
		s.manager.redrawSection(s)
	}
}

// resetCollapsed brings the per-view collapses in line with the section's
// offsets and hidden flag.
func (s *Section) resetCollapsed() {
	if !s.hidden {
		s.releaseCollapsed()
		return
	}

	doc := s.manager.doc
	startLine, _ := doc.LineByOffset(coerce(s.StartOffset(), 0, doc.Len()))
	endLine, _ := doc.LineByOffset(coerce(s.EndOffset(), 0, doc.Len()))
	if startLine.Number > endLine.Number {
		s.releaseCollapsed()
		return
	}

	if s.collapsed == nil {
		s.collapsed = make(map[view.ID]*heighttree.Collapse, len(s.manager.views))
		for _, v := range s.manager.views {
			s.collapsed[v.ID()] = nil
		}
	}
	for _, v := range s.manager.views {
		c := s.collapsed[v.ID()]
		if c != nil {
			if first, last, ok := c.Lines(); ok && first == startLine.Number && last == endLine.Number {
				continue
			}
			logger.DebugTagf("hiding", "Recreating collapse of %v in view %d for lines %d-%d",
				s, v.ID(), startLine.Number, endLine.Number)
			c.Uncollapse()
		}
		s.collapsed[v.ID()] = v.HeightTree().CollapseLines(startLine.Number, endLine.Number, heighttree.Hiding)
	}
}

func (s *Section) releaseCollapsed() {
	for _, c := range s.collapsed {
		if c != nil {
			c.Uncollapse()
		}
	}
	s.collapsed = nil
}

func coerce(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
