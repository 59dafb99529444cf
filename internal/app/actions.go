package app

import (
	"strings"

	"github.com/bethropolis/veil/internal/hiding"
	"github.com/bethropolis/veil/internal/input"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/view"
)

func (a *App) activeView() *view.View {
	return a.views[a.active]
}

// handleAction performs one action and reports whether to redraw.
func (a *App) handleAction(ev input.ActionEvent) bool {
	v := a.activeView()
	logger.DebugTagf("input", "Action %v on view %d", ev.Action, v.ID())

	switch ev.Action {
	case input.ActionQuit:
		a.Quit()
		return false
	case input.ActionSave:
		a.save()
	case input.ActionScrollUp:
		v.Scroll(-1)
	case input.ActionScrollDown:
		v.Scroll(1)
	case input.ActionPageUp:
		v.Scroll(-a.pageStep())
	case input.ActionPageDown:
		v.Scroll(a.pageStep())
	case input.ActionTop:
		v.ScrollTo(1)
	case input.ActionBottom:
		v.ScrollTo(a.doc.LineCount())
		v.Scroll(-(a.viewAreas()[a.active].Height - 1))
	case input.ActionApplyStrategy:
		a.applyStrategy()
		a.statusBar.SetTemporaryMessage("Applied %s", a.strategy.Name())
	case input.ActionClearHidings:
		a.clearHidings()
		a.statusBar.SetTemporaryMessage("Cleared hidings")
	case input.ActionToggleHiding:
		a.toggleAtTop()
	case input.ActionDefinitionsOnly:
		a.hidings.ShowDefinitionsOnly()
	case input.ActionToggleSplit:
		a.toggleSplit()
	case input.ActionSwitchView:
		a.active = (a.active + 1) % len(a.views)
	case input.ActionYank:
		a.yankVisible()
	case input.ActionDeleteLine:
		a.deleteTopLine()
	default:
		return false
	}
	return true
}

// pageStep is the scroll distance of a page, keeping ScrollOff lines of overlap.
func (a *App) pageStep() int {
	step := a.viewAreas()[a.active].Height - a.cfg.Viewer.ScrollOff
	if step < 1 {
		step = 1
	}
	return step
}

// toggleAtTop toggles the section holding the top line or, failing that,
// the hidden run right below it.
func (a *App) toggleAtTop() {
	v := a.activeView()
	top := v.TopLine()
	for _, n := range []int{top, top + 1} {
		line, err := a.doc.LineByNumber(n)
		if err != nil {
			break
		}
		if s, ok := a.hidings.ToggleAt(line.Offset); ok {
			state := "Showing"
			if s.IsHidden() {
				state = "Hiding"
			}
			a.statusBar.SetTemporaryMessage("%s %v", state, s)
			return
		}
	}
	a.statusBar.SetTemporaryMessage("No hiding at line %d", top)
}

// toggleSplit opens or closes the second view. The second view joins the
// manager installed on the first through its own element generator.
func (a *App) toggleSplit() {
	if len(a.views) > 1 {
		second := a.views[1]
		second.Close()
		a.views = a.views[:1]
		a.active = 0
		logger.Debugf("App: closed split view %d", second.ID())
		return
	}

	second := a.newView()
	second.ScrollTo(a.activeView().TopLine())
	if err := second.InsertGenerator(0, hiding.NewElementGenerator(a.hidings)); err != nil {
		logger.Warnf("App: split view: %v", err)
		second.Close()
		return
	}
	a.views = append(a.views, second)
	logger.Debugf("App: opened split view %d", second.ID())
}

// visibleText returns the lines of the active view that are not collapsed.
func (a *App) visibleText() (string, int) {
	heights := a.activeView().HeightTree()
	var b strings.Builder
	count := 0
	for n, ok := heights.NextVisibleLine(1); ok; n, ok = heights.NextVisibleLine(n + 1) {
		line, err := a.doc.LineByNumber(n)
		if err != nil {
			break
		}
		text, _ := a.doc.Slice(line.Offset, line.EndOffset())
		if count > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
		count++
	}
	return b.String(), count
}

// yankVisible copies the visible text to the clipboard.
func (a *App) yankVisible() {
	text, count := a.visibleText()
	if !a.cfg.Viewer.SystemClipboard {
		a.register = text
		a.statusBar.SetTemporaryMessage("Yanked %d visible lines", count)
		return
	}
	if err := a.writeClipboard(text); err != nil {
		logger.Warnf("App: clipboard: %v", err)
		a.register = text
		a.statusBar.SetTemporaryMessage("Clipboard unavailable, yanked %d lines internally", count)
		return
	}
	a.statusBar.SetTemporaryMessage("Yanked %d visible lines to clipboard", count)
}

// deleteTopLine removes the top visible line including its line break.
func (a *App) deleteTopLine() {
	line, err := a.doc.LineByNumber(a.activeView().TopLine())
	if err != nil {
		logger.Warnf("App: %v", err)
		return
	}
	offset, length := line.Offset, line.TotalLength
	if line.Length == line.TotalLength && line.Offset > 0 {
		// Last line: take the break before it instead.
		offset, length = line.Offset-1, line.Length+1
	}
	if length == 0 {
		return
	}
	if _, err := a.doc.Delete(offset, length); err != nil {
		logger.Warnf("App: deleting line %d: %v", line.Number, err)
	}
}

// save writes the document back to its file.
func (a *App) save() {
	if a.doc.FilePath() == "" {
		a.statusBar.SetTemporaryMessage("No file name")
		return
	}
	if err := a.doc.Save(a.doc.FilePath()); err != nil {
		a.statusBar.SetTemporaryMessage("Save failed: %v", err)
	}
}
