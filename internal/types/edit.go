// internal/types/edit.go
package types

import sitter "github.com/smacker/go-tree-sitter"

// EditInfo describes a single buffer change in the shape tree-sitter's Edit function expects.
// Indices are byte offsets; positions are (row, byte column), both 0-based.
type EditInfo struct {
	StartIndex     uint32       // Start byte of the edit
	OldEndIndex    uint32       // End byte of the removed text
	NewEndIndex    uint32       // End byte of the inserted text
	StartPosition  sitter.Point // Start position (row, column)
	OldEndPosition sitter.Point // Old end position
	NewEndPosition sitter.Point // New end position
}

// Delta returns the change as (offset, removedLength, insertedLength).
func (e EditInfo) Delta() (offset, removed, inserted int) {
	offset = int(e.StartIndex)
	removed = int(e.OldEndIndex) - offset
	inserted = int(e.NewEndIndex) - offset
	return offset, removed, inserted
}

// InputEdit converts the edit for sitter.Tree.Edit.
func (e EditInfo) InputEdit() sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  e.StartIndex,
		OldEndIndex: e.OldEndIndex,
		NewEndIndex: e.NewEndIndex,
		StartPoint:  e.StartPosition,
		OldEndPoint: e.OldEndPosition,
		NewEndPoint: e.NewEndPosition,
	}
}
