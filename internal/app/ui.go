package app

import (
	"fmt"

	"github.com/bethropolis/veil/internal/tui"
)

// layout splits the area above the status bar between the views. Two views
// are stacked with a separator row between them.
func (a *App) layout(width, height int) []tui.Rect {
	if len(a.views) < 2 {
		return []tui.Rect{{Width: width, Height: height}}
	}
	top := (height - 1) / 2
	return []tui.Rect{
		{Width: width, Height: top},
		{Y: top + 1, Width: width, Height: height - top - 1},
	}
}

func (a *App) viewAreas() []tui.Rect {
	width, height := a.tuiManager.Size()
	return a.layout(width, height-a.cfg.Viewer.StatusBarHeight)
}

// draw clears the screen and redraws all components.
func (a *App) draw() {
	a.activeTheme = a.themeManager.Current()

	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	areas := a.viewAreas()

	a.tuiManager.Clear()
	for i, v := range a.views {
		tui.DrawView(a.tuiManager, v, areas[i], a.activeTheme, tui.DrawOptions{
			TabWidth: a.cfg.Viewer.TabWidth,
			Focused:  i == a.active,
		})
	}
	if len(a.views) > 1 {
		tui.DrawSeparator(a.tuiManager, areas[0].Y+areas[0].Height, width,
			fmt.Sprintf("view %d", a.views[1].ID()), a.activeTheme)
	}
	a.updateStatusBarContent()
	a.statusBar.Draw(screen, width, height)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes current state to the status bar component.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.doc.FilePath(), a.doc.IsModified())

	hidden := 0
	sections := a.hidings.AllHidings()
	for _, s := range sections {
		if s.IsHidden() {
			hidden++
		}
	}
	a.statusBar.SetHidingInfo(a.strategy.Name(), len(sections), hidden)
	a.statusBar.SetViewInfo(a.active+1, len(a.views), a.activeView().TopLine())
}
