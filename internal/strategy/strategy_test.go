package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/hiding"
)

func numbered(n int) *buffer.Document {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return buffer.New(strings.Join(lines, "\n"))
}

func TestLineStrategies(t *testing.T) {
	doc := numbered(25)
	line20, _ := doc.LineByNumber(20)

	tests := []struct {
		name       string
		s          Strategy
		doc        *buffer.Document
		start, end int
		none       bool
	}{
		{name: "below 20", s: BelowLine(20), doc: doc, start: line20.Offset, end: doc.Len()},
		{name: "below past end", s: BelowLine(30), doc: doc, none: true},
		{name: "whole", s: WholeDocument(), doc: doc, start: 0, end: doc.Len()},
		{name: "first 20", s: FirstLines(20), doc: doc, start: 0, end: line20.EndOffset()},
		{name: "first 20 of short doc", s: FirstLines(20), doc: numbered(20), none: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, firstError, err := tt.s.Candidates(context.Background(), tt.doc)
			if err != nil {
				t.Fatal(err)
			}
			if firstError != -1 {
				t.Errorf("firstError = %d, want -1", firstError)
			}
			if tt.none {
				if len(got) != 0 {
					t.Errorf("expected no candidates, got %v", got)
				}
				return
			}
			if len(got) != 1 || got[0].StartOffset != tt.start || got[0].EndOffset != tt.end {
				t.Errorf("candidates = %v, want [%d, %d)", got, tt.start, tt.end)
			}
		})
	}
}

func TestApply(t *testing.T) {
	doc := numbered(25)
	m, err := hiding.NewManager(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(context.Background(), m, doc, FirstLines(20)); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 || !m.AllHidings()[0].IsHidden() {
		t.Fatalf("Apply did not create a hidden section: %v", m.AllHidings())
	}
	if err := Apply(context.Background(), nil, doc, FirstLines(20)); !errors.Is(err, hiding.ErrInvalidArgument) {
		t.Errorf("Apply(nil manager): %v", err)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"below", "whole", "first"} {
		if _, err := New(name, Options{Line: 5, FirstLines: 5}); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("bogus", Options{}); err == nil {
		t.Error("unknown strategy accepted")
	}
	if _, err := New("definitions", Options{FilePath: "notes.unknown"}); err == nil {
		t.Error("definitions without a grammar accepted")
	}
}
