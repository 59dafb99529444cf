// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/veil/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Theme maps style names to tcell styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the style for name, falling back to the part before the
// first dot and then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		if style, ok := t.Styles[name[:dotIndex]]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.Debugf("Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// VeilDark is the built-in theme.
var VeilDark Theme

func init() {
	background := tcell.NewHexColor(0x2a2f38)
	foreground := tcell.NewHexColor(0xc5cdd9)
	muted := tcell.NewHexColor(0x5c6370)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(foreground)

	VeilDark = Theme{
		Name:   "Veil Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":           baseStyle,
			"LineNumber":        baseStyle.Foreground(muted),
			"LineNumber.Active": baseStyle.Foreground(yellow),
			"Separator":         baseStyle.Foreground(muted),

			// Marker drawn after the last visible line before hidden lines
			"Hidden":            baseStyle.Foreground(muted).Italic(true),
			"Hidden.Definition": baseStyle.Foreground(cyan).Italic(true),

			"StatusBar":         tcell.StyleDefault.Background(background).Foreground(foreground),
			"StatusBarModified": tcell.StyleDefault.Background(background).Foreground(yellow),
			"StatusBarMessage":  tcell.StyleDefault.Background(background).Foreground(foreground).Bold(true),
			"StatusBarStrategy": tcell.StyleDefault.Background(background).Foreground(green).Bold(true),
		},
	}
}
