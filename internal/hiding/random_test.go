package hiding

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/bethropolis/veil/internal/view"
)

// TestRandomOperationsKeepInvariants interleaves edits, reconciliation,
// toggles and view changes and checks the manager after every step.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := newFixture(t, 40)
	m := f.manager
	second := view.New(f.doc, 1)
	secondGen := NewElementGenerator(m)
	attached := false

	randomText := func() string {
		const alphabet = "ab \n"
		b := make([]byte, rng.Intn(12))
		for i := range b {
			b[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(b)
	}

	for step := 0; step < 400; step++ {
		length := f.doc.Len()
		switch op := rng.Intn(10); {
		case op < 3:
			offset := rng.Intn(length + 1)
			removed := rng.Intn(length-offset+1) % 25
			if _, err := f.doc.Replace(offset, removed, randomText()); err != nil {
				t.Fatalf("step %d: Replace: %v", step, err)
			}
		case op < 5:
			var candidates []NewHiding
			for i := rng.Intn(6); i > 0; i-- {
				start := rng.Intn(length + 1)
				end := start + rng.Intn(60)
				candidates = append(candidates, NewHiding{StartOffset: start, EndOffset: end, IsDefinition: rng.Intn(2) == 0})
			}
			sort.Slice(candidates, func(i, j int) bool { return candidates[i].StartOffset < candidates[j].StartOffset })
			firstError := -1
			if rng.Intn(3) == 0 {
				firstError = rng.Intn(length + 1)
			}
			if err := m.UpdateHidings(candidates, firstError); err != nil {
				t.Fatalf("step %d: UpdateHidings: %v", step, err)
			}
		case op < 6 && length > 1:
			start := rng.Intn(length - 1)
			end := start + 1 + rng.Intn(length-start-1)
			s, err := m.CreateHiding(start, end)
			if err != nil {
				t.Fatalf("step %d: CreateHiding(%d, %d): %v", step, start, end, err)
			}
			s.SetHidden(rng.Intn(2) == 0)
		case op < 7:
			all := m.AllHidings()
			if len(all) == 0 {
				continue
			}
			s := all[rng.Intn(len(all))]
			if rng.Intn(2) == 0 {
				s.SetHidden(!s.IsHidden())
			} else if err := m.RemoveHiding(s); err != nil {
				t.Fatalf("step %d: RemoveHiding: %v", step, err)
			}
		case op < 8:
			if attached {
				second.RemoveGenerator(secondGen)
			} else if err := second.AddGenerator(secondGen); err != nil {
				t.Fatalf("step %d: AddGenerator: %v", step, err)
			}
			attached = !attached
		default:
			m.ShowDefinitionsOnly()
		}
		checkInvariants(t, m)
	}
}
