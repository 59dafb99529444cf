package hiding

import (
	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/view"
)

// ElementGenerator connects a Manager to the views it is added to and tells
// their renderers where hidden text starts.
type ElementGenerator struct {
	manager *Manager
	views   []*view.View
}

var (
	_ view.Generator = (*ElementGenerator)(nil)
	_ view.Connector = (*ElementGenerator)(nil)
)

// NewElementGenerator creates a generator serving m. m may be nil.
func NewElementGenerator(m *Manager) *ElementGenerator {
	return &ElementGenerator{manager: m}
}

// Manager returns the manager the generator serves.
func (g *ElementGenerator) Manager() *Manager {
	return g.manager
}

// SetManager moves every view the generator is part of from the old
// manager to m.
func (g *ElementGenerator) SetManager(m *Manager) error {
	if g.manager == m {
		return nil
	}
	if g.manager != nil {
		for _, v := range g.views {
			if err := g.manager.DetachView(v); err != nil {
				logger.Warnf("hiding: detaching view %d: %v", v.ID(), err)
			}
		}
	}
	g.manager = m
	if m != nil {
		for _, v := range g.views {
			if err := m.AttachView(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddedTo attaches v to the manager.
func (g *ElementGenerator) AddedTo(v *view.View) error {
	if g.manager != nil {
		if err := g.manager.AttachView(v); err != nil {
			return err
		}
	}
	g.views = append(g.views, v)
	return nil
}

// RemovedFrom detaches v from the manager.
func (g *ElementGenerator) RemovedFrom(v *view.View) {
	for i, existing := range g.views {
		if existing == v {
			g.views = append(g.views[:i:i], g.views[i+1:]...)
			break
		}
	}
	if g.manager != nil {
		if err := g.manager.DetachView(v); err != nil {
			logger.Warnf("hiding: detaching view %d: %v", v.ID(), err)
		}
	}
}

// StartGeneration checks that v and doc belong to the manager.
func (g *ElementGenerator) StartGeneration(v *view.View, doc *buffer.Document) error {
	if g.manager == nil {
		return nil
	}
	if g.manager.viewIndex(v) < 0 {
		return ErrInvalidView
	}
	if doc != g.manager.doc {
		return ErrInvalidDocument
	}
	return nil
}

// FirstInterestedOffset returns the next hidden section start at or after
// offset, or -1.
func (g *ElementGenerator) FirstInterestedOffset(offset int) int {
	if g.manager == nil {
		return -1
	}
	return g.manager.NextHiddenStart(offset)
}
