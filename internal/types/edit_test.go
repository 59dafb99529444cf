package types

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func TestEditInfoDelta(t *testing.T) {
	tests := []struct {
		name                      string
		edit                      EditInfo
		offset, removed, inserted int
	}{
		{"insert", EditInfo{StartIndex: 4, OldEndIndex: 4, NewEndIndex: 9}, 4, 0, 5},
		{"delete", EditInfo{StartIndex: 2, OldEndIndex: 7, NewEndIndex: 2}, 2, 5, 0},
		{"replace", EditInfo{StartIndex: 10, OldEndIndex: 13, NewEndIndex: 11}, 10, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, r, i := tt.edit.Delta()
			if o != tt.offset || r != tt.removed || i != tt.inserted {
				t.Errorf("Delta() = (%d, %d, %d), want (%d, %d, %d)", o, r, i, tt.offset, tt.removed, tt.inserted)
			}
		})
	}
}

func TestEditInfoInputEdit(t *testing.T) {
	e := EditInfo{
		StartIndex:     3,
		OldEndIndex:    5,
		NewEndIndex:    8,
		StartPosition:  sitter.Point{Row: 0, Column: 3},
		OldEndPosition: sitter.Point{Row: 0, Column: 5},
		NewEndPosition: sitter.Point{Row: 1, Column: 2},
	}
	in := e.InputEdit()
	if in.StartIndex != 3 || in.OldEndIndex != 5 || in.NewEndIndex != 8 {
		t.Errorf("unexpected indices: %+v", in)
	}
	if in.NewEndPoint.Row != 1 || in.NewEndPoint.Column != 2 {
		t.Errorf("unexpected new end point: %+v", in.NewEndPoint)
	}
}
