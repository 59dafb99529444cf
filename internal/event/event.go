// internal/event/event.go
package event

import "github.com/bethropolis/veil/internal/types"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Buffer events
	TypeBufferModified // Fired after every insert/delete/replace
	TypeBufferLoaded   // Fired after a buffer is loaded from disk
	TypeBufferSaved    // Fired after a buffer is written to disk

	// Hiding events
	TypeHidingsUpdated // Fired after a reconciliation pass or a clear

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

func (t Type) String() string {
	switch t {
	case TypeBufferModified:
		return "BufferModified"
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeBufferSaved:
		return "BufferSaved"
	case TypeHidingsUpdated:
		return "HidingsUpdated"
	case TypeAppReady:
		return "AppReady"
	case TypeAppQuit:
		return "AppQuit"
	}
	return "Unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// BufferModifiedData carries the edit delta of a buffer change.
type BufferModifiedData struct {
	Source interface{} // The buffer that changed
	Edit   types.EditInfo
}

// BufferLoadedData contains info about the loaded buffer.
type BufferLoadedData struct {
	FilePath string
}

// BufferSavedData contains info about the saved buffer.
type BufferSavedData struct {
	FilePath string
}

// HidingsUpdatedData summarizes the hiding state after an update.
type HidingsUpdatedData struct {
	Total  int // Tracked sections
	Hidden int // Sections currently hidden
}

// AppQuitData could carry an exit reason later.
type AppQuitData struct{}

// AppReadyData could carry initial state later.
type AppReadyData struct{}
