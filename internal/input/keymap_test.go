package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"hide", tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone), ActionApplyStrategy},
		{"clear", tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), ActionClearHidings},
		{"toggle", tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone), ActionToggleHiding},
		{"enter toggles", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionToggleHiding},
		{"bottom", tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModShift), ActionBottom},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), ActionPageDown},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"ctrl+s", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), ActionSave},
		{"unbound rune", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), ActionUnknown},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModAlt), ActionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ProcessEvent(tt.ev).Action; got != tt.want {
				t.Errorf("ProcessEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}
