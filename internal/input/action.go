// internal/input/action.go
package input

// Action represents a command performed by the viewer.
type Action int

const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionSave

	// --- Scrolling ---
	ActionScrollUp
	ActionScrollDown
	ActionPageUp
	ActionPageDown
	ActionTop
	ActionBottom

	// --- Hiding ---
	ActionApplyStrategy   // Run the configured strategy
	ActionClearHidings    // Drop every section
	ActionToggleHiding    // Toggle the section at the top line
	ActionDefinitionsOnly // Hide every section that is not a definition

	// --- Views ---
	ActionToggleSplit // Attach or detach the second view
	ActionSwitchView  // Move focus to the other view

	// --- Text ---
	ActionYank       // Copy the visible text to the clipboard
	ActionDeleteLine // Delete the top visible line
)

var actionNames = map[Action]string{
	ActionUnknown:         "unknown",
	ActionQuit:            "quit",
	ActionSave:            "save",
	ActionScrollUp:        "scroll-up",
	ActionScrollDown:      "scroll-down",
	ActionPageUp:          "page-up",
	ActionPageDown:        "page-down",
	ActionTop:             "top",
	ActionBottom:          "bottom",
	ActionApplyStrategy:   "hide",
	ActionClearHidings:    "clear",
	ActionToggleHiding:    "toggle",
	ActionDefinitionsOnly: "definitions-only",
	ActionToggleSplit:     "split",
	ActionSwitchView:      "switch-view",
	ActionYank:            "yank",
	ActionDeleteLine:      "delete-line",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent is a decoded key press.
type ActionEvent struct {
	Action Action
	Rune   rune // The rune that triggered the action, if any
}
