package app

import (
	"github.com/bethropolis/veil/internal/event"
	"github.com/bethropolis/veil/internal/logger"
)

// subscribe wires the app to document and hiding events.
func (a *App) subscribe() {
	a.eventManager.Subscribe(event.TypeBufferModified, a.handleBufferModified)
	a.eventManager.Subscribe(event.TypeBufferSaved, a.handleBufferSaved)
	a.eventManager.Subscribe(event.TypeBufferLoaded, a.handleBufferLoaded)
	a.eventManager.Subscribe(event.TypeHidingsUpdated, a.handleHidingsUpdated)
}

// handleBufferModified bumps the document generation and schedules a
// background refresh of the applied strategy.
func (a *App) handleBufferModified(e event.Event) bool {
	data, ok := e.Data.(event.BufferModifiedData)
	if !ok || data.Source != a.doc {
		logger.Warnf("App: Received BufferModified event with unexpected data: %T", e.Data)
		return false
	}
	a.generation++
	if a.strategyApplied {
		a.refresher.AccumulateEdit(a.doc.Text(), a.generation)
	}
	a.requestRedraw()
	return false // Allow other handlers for BufferModified to run
}

func (a *App) handleBufferSaved(e event.Event) bool {
	if data, ok := e.Data.(event.BufferSavedData); ok {
		a.statusBar.SetTemporaryMessage("Saved %s", data.FilePath)
	}
	a.requestRedraw()
	return false
}

func (a *App) handleBufferLoaded(e event.Event) bool {
	a.requestRedraw()
	return false
}

func (a *App) handleHidingsUpdated(e event.Event) bool {
	if data, ok := e.Data.(event.HidingsUpdatedData); ok {
		logger.DebugTagf("hiding", "App: %d sections, %d hidden", data.Total, data.Hidden)
	}
	a.requestRedraw()
	return false
}
