// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps special keys to actions.
type Keymap map[tcell.Key]Action
type RuneKeymap map[rune]Action         // For plain rune bindings
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionScrollUp
	p.keymap[tcell.KeyDown] = ActionScrollDown
	p.keymap[tcell.KeyPgUp] = ActionPageUp
	p.keymap[tcell.KeyPgDn] = ActionPageDown
	p.keymap[tcell.KeyHome] = ActionTop
	p.keymap[tcell.KeyEnd] = ActionBottom
	p.keymap[tcell.KeyEnter] = ActionToggleHiding
	p.keymap[tcell.KeyTab] = ActionSwitchView
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyCtrlC] = ActionQuit

	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Rune Mappings ---
	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap['k'] = ActionScrollUp
	p.runeKeymap['j'] = ActionScrollDown
	p.runeKeymap['g'] = ActionTop
	p.runeKeymap['G'] = ActionBottom
	p.runeKeymap['h'] = ActionApplyStrategy
	p.runeKeymap['c'] = ActionClearHidings
	p.runeKeymap['t'] = ActionToggleHiding
	p.runeKeymap['d'] = ActionDefinitionsOnly
	p.runeKeymap['s'] = ActionToggleSplit
	p.runeKeymap['y'] = ActionYank
	p.runeKeymap['x'] = ActionDeleteLine
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	// 1. Check Modifier + Key combinations
	if modKeyMap, ok := p.modKeymap[mod]; ok {
		if action, ok := modKeyMap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	// Ctrl+letter keys already carry the modifier in the key itself.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return ActionEvent{Action: action}
		}
		mod &^= tcell.ModCtrl
	}

	// 2. Check simple Key mappings
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 3. Check Rune mappings
	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if action, ok := p.runeKeymap[ev.Rune()]; ok {
			return ActionEvent{Action: action, Rune: ev.Rune()}
		}
	}

	return ActionEvent{Action: ActionUnknown}
}
