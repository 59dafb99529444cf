package hiding

import "fmt"

// NewHiding is a candidate range produced by a hiding strategy for
// Manager.UpdateHidings.
type NewHiding struct {
	StartOffset  int
	EndOffset    int
	IsDefinition bool // Stays visible under Manager.ShowDefinitionsOnly
}

// NewHidingRange returns a candidate for [start, end).
func NewHidingRange(start, end int, isDefinition bool) (NewHiding, error) {
	if start > end {
		return NewHiding{}, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	return NewHiding{StartOffset: start, EndOffset: end, IsDefinition: isDefinition}, nil
}
