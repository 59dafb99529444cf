// Package hiding hides ranges of a document in every view attached to it.
//
// A Manager tracks Sections over one buffer.Document. Sections follow edits
// to the document and, while hidden, collapse the lines they cover in each
// attached view's height tree. Strategies compute candidate ranges and hand
// them to Manager.UpdateHidings, which merges them into the tracked set
// while keeping each section's hidden flag.
//
// A Manager is not safe for concurrent use; all calls must come from the
// goroutine that owns the document and its views.
package hiding

import (
	"fmt"
	"math"

	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/event"
	"github.com/bethropolis/veil/internal/interval"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/view"
)

// Manager owns the hiding sections of one document.
type Manager struct {
	doc      *buffer.Document
	sections *interval.Collection[*Section]
	views    []*view.View
	events   *event.Manager
}

// NewManager creates a manager for doc.
func NewManager(doc *buffer.Document) (*Manager, error) {
	if doc == nil {
		return nil, ErrInvalidDocument
	}
	return &Manager{
		doc:      doc,
		sections: interval.New[*Section](),
	}, nil
}

// Document returns the managed document.
func (m *Manager) Document() *buffer.Document {
	return m.doc
}

// Observe makes the manager follow the document's edits through em and
// report TypeHidingsUpdated there. The returned func stops both.
func (m *Manager) Observe(em *event.Manager) (stop func()) {
	if em == nil {
		return func() {}
	}
	m.events = em
	id := em.Subscribe(event.TypeBufferModified, func(e event.Event) bool {
		data, ok := e.Data.(event.BufferModifiedData)
		if !ok || data.Source != m.doc {
			return false
		}
		m.ApplyEdit(data.Edit.Delta())
		return false
	})
	return func() {
		em.Unsubscribe(id)
		if m.events == em {
			m.events = nil
		}
	}
}

// --- Views ---

// Views returns the attached views in attach order.
func (m *Manager) Views() []*view.View {
	out := make([]*view.View, len(m.views))
	copy(out, m.views)
	return out
}

func (m *Manager) viewIndex(v *view.View) int {
	for i, existing := range m.views {
		if existing == v {
			return i
		}
	}
	return -1
}

// AttachView starts mirroring hidden sections into v.
func (m *Manager) AttachView(v *view.View) error {
	if v == nil {
		return ErrInvalidView
	}
	if m.viewIndex(v) >= 0 {
		return fmt.Errorf("%w: view %d", ErrViewAttached, v.ID())
	}
	if v.Document() != m.doc {
		return fmt.Errorf("%w: view %d shows another document", ErrInvalidDocument, v.ID())
	}
	m.views = append(m.views, v)
	for _, s := range m.sections.All() {
		if s.collapsed != nil {
			s.collapsed[v.ID()] = nil
			s.resetCollapsed()
		}
	}
	logger.DebugTagf("hiding", "Attached view %d (%d views)", v.ID(), len(m.views))
	return nil
}

// DetachView releases every collapse held in v and stops tracking it.
func (m *Manager) DetachView(v *view.View) error {
	if v == nil {
		return ErrInvalidView
	}
	i := m.viewIndex(v)
	if i < 0 {
		return fmt.Errorf("%w: view %d", ErrViewNotAttached, v.ID())
	}
	m.views = append(m.views[:i:i], m.views[i+1:]...)
	for _, s := range m.sections.All() {
		if s.collapsed == nil {
			continue
		}
		if c := s.collapsed[v.ID()]; c != nil {
			c.Uncollapse()
		}
		delete(s.collapsed, v.ID())
	}
	logger.DebugTagf("hiding", "Detached view %d (%d views)", v.ID(), len(m.views))
	return nil
}

func (m *Manager) redrawSection(s *Section) {
	for _, v := range m.views {
		v.RedrawRange(s.StartOffset(), s.EndOffset())
	}
}

func (m *Manager) redraw() {
	for _, v := range m.views {
		v.Redraw()
	}
}

func (m *Manager) notifyUpdated() {
	if m.events == nil {
		return
	}
	data := event.HidingsUpdatedData{Total: m.sections.Len()}
	for _, s := range m.sections.All() {
		if s.hidden {
			data.Hidden++
		}
	}
	m.events.Dispatch(event.TypeHidingsUpdated, data)
}

// --- Edits ---

// ApplyEdit moves every section for a document change at offset that
// removed removedLength bytes and inserted insertedLength bytes. Sections
// left empty are removed; other sections near the change re-collapse their
// lines.
func (m *Manager) ApplyEdit(offset, removedLength, insertedLength int) {
	m.sections.ApplyEdit(offset, removedLength, insertedLength)

	// Line collapses are whole-line, so look at everything up to the end of
	// the line the inserted text ends on.
	end := coerce(offset+insertedLength, 0, m.doc.Len())
	if line, err := m.doc.LineByOffset(end); err == nil {
		end = line.Offset + line.TotalLength
	}

	removed := 0
	for _, s := range m.sections.FindOverlapping(offset, end-offset) {
		if s.Length() == 0 {
			m.remove(s)
			removed++
		} else {
			s.onRangeChanged()
		}
	}
	if removed > 0 {
		logger.DebugTagf("hiding", "Edit at %d removed %d empty sections", offset, removed)
		m.notifyUpdated()
	}
}

// --- Create / Remove / Clear ---

// CreateHiding starts tracking [start, end). The new section is visible.
func (m *Manager) CreateHiding(start, end int) (*Section, error) {
	if start > end {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	if start < 0 || end > m.doc.Len() {
		return nil, fmt.Errorf("%w: [%d, %d) in document of length %d", ErrOutOfBounds, start, end, m.doc.Len())
	}
	if start == end {
		return nil, fmt.Errorf("%w: at %d", ErrEmptyRange, start)
	}
	s := &Section{manager: m}
	if err := m.sections.SetRange(s, start, end); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := m.sections.Add(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	m.redrawSection(s)
	return s, nil
}

// RemoveHiding shows s and stops tracking it.
func (m *Manager) RemoveHiding(s *Section) error {
	if s == nil || !m.sections.Contains(s) {
		return ErrUnknownSection
	}
	m.remove(s)
	m.notifyUpdated()
	return nil
}

// moveSection gives a tracked section new offsets, clamped to the document.
func (m *Manager) moveSection(s *Section, start, end int) error {
	if s.manager != m || !m.sections.Contains(s) {
		return ErrUnknownSection
	}
	if start > end {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	start = coerce(start, 0, m.doc.Len())
	end = coerce(end, 0, m.doc.Len())
	if start == end {
		return fmt.Errorf("%w: at %d", ErrEmptyRange, start)
	}
	m.redrawSection(s)
	if err := m.sections.SetRange(s, start, end); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	s.onRangeChanged()
	return nil
}

func (m *Manager) remove(s *Section) {
	s.SetHidden(false)
	m.sections.Remove(s)
	m.redrawSection(s)
	s.manager = nil
}

// Clear shows and drops every section.
func (m *Manager) Clear() {
	for _, s := range m.sections.All() {
		s.hidden = false
		s.releaseCollapsed()
		s.manager = nil
	}
	m.sections.Clear()
	m.redraw()
	m.notifyUpdated()
}

// --- Queries ---

// AllHidings returns every section ordered by start offset.
func (m *Manager) AllHidings() []*Section {
	return m.sections.All()
}

// Len returns the number of tracked sections.
func (m *Manager) Len() int {
	return m.sections.Len()
}

// NextHiddenStart returns the start of the first hidden section starting at
// or after offset, or -1.
func (m *Manager) NextHiddenStart(offset int) int {
	s, ok := m.sections.FindFirstStartingAfter(offset)
	for ok && !s.hidden {
		s, ok = m.sections.Next(s)
	}
	if !ok {
		return -1
	}
	return s.StartOffset()
}

// NextHiding returns the first section, hidden or not, starting at or after offset.
func (m *Manager) NextHiding(offset int) (*Section, bool) {
	return m.sections.FindFirstStartingAfter(offset)
}

// HidingsAt returns the sections starting exactly at offset.
func (m *Manager) HidingsAt(offset int) []*Section {
	var out []*Section
	s, ok := m.sections.FindFirstStartingAfter(offset)
	for ok && s.StartOffset() == offset {
		out = append(out, s)
		s, ok = m.sections.Next(s)
	}
	return out
}

// HidingsContaining returns the sections with start <= offset < end.
func (m *Manager) HidingsContaining(offset int) []*Section {
	out := m.sections.FindContaining(offset)
	for _, s := range out {
		if s.Length() == 0 {
			panic(fmt.Sprintf("hiding: empty section %v tracked", s))
		}
	}
	return out
}

// --- Reconciliation ---

// UpdateHidings merges candidates, sorted by start offset, into the tracked
// sections. A section whose start matches a candidate is kept with its
// hidden flag and tag, taking the candidate's end; other candidates become
// new hidden sections tagged with the candidate. Sections matched by no
// candidate are removed, except that removal stops at the first one
// starting at or after firstErrorOffset (negative means no limit).
//
// On error the sections stay as they were after the last processed candidate.
func (m *Manager) UpdateHidings(candidates []NewHiding, firstErrorOffset int) error {
	if firstErrorOffset < 0 {
		firstErrorOffset = math.MaxInt
	}

	old := m.sections.All()
	next := 0
	previousStart := math.MinInt
	created, reused := 0, 0
	length := m.doc.Len()

	for _, c := range candidates {
		if c.StartOffset < previousStart {
			return fmt.Errorf("%w: %d after %d", ErrUnsortedHidings, c.StartOffset, previousStart)
		}
		previousStart = c.StartOffset
		if c.StartOffset > c.EndOffset {
			return fmt.Errorf("%w: candidate [%d, %d)", ErrInvalidRange, c.StartOffset, c.EndOffset)
		}

		start := coerce(c.StartOffset, 0, length)
		end := coerce(c.EndOffset, 0, length)
		if start == end {
			continue
		}

		for next < len(old) && old[next].StartOffset() < start {
			m.remove(old[next])
			next++
		}

		if next < len(old) && old[next].StartOffset() == start {
			s := old[next]
			next++
			if err := m.sections.SetEndOffset(s, end); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
			}
			s.onRangeChanged()
			reused++
			continue
		}

		s, err := m.CreateHiding(start, end)
		if err != nil {
			return err
		}
		s.tag = c
		s.isDefinition = c.IsDefinition
		s.SetHidden(true)
		created++
	}

	removed := 0
	for ; next < len(old); next++ {
		if old[next].StartOffset() >= firstErrorOffset {
			break
		}
		m.remove(old[next])
		removed++
	}

	logger.DebugTagf("hiding", "UpdateHidings: %d candidates, %d created, %d reused, %d dropped, %d total",
		len(candidates), created, reused, removed, m.sections.Len())
	m.notifyUpdated()
	return nil
}

// --- Commands ---

// ShowDefinitionsOnly hides every section except the ones created from
// definition candidates.
func (m *Manager) ShowDefinitionsOnly() {
	for _, s := range m.sections.All() {
		s.SetHidden(!s.isDefinition)
	}
	m.notifyUpdated()
}

// ToggleAt flips the innermost section containing offset.
func (m *Manager) ToggleAt(offset int) (*Section, bool) {
	var inner *Section
	for _, s := range m.HidingsContaining(offset) {
		if inner == nil || s.StartOffset() > inner.StartOffset() ||
			(s.StartOffset() == inner.StartOffset() && s.Length() < inner.Length()) {
			inner = s
		}
	}
	if inner == nil {
		return nil, false
	}
	inner.SetHidden(!inner.hidden)
	m.notifyUpdated()
	return inner, true
}
