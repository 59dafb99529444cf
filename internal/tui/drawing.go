// internal/tui/drawing.go
package tui

import (
	"fmt"
	"math"

	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/heighttree"
	"github.com/bethropolis/veil/internal/hiding"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/theme"
	"github.com/bethropolis/veil/internal/view"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Rect is a screen area.
type Rect struct {
	X, Y, Width, Height int
}

// DrawOptions controls how a view is painted.
type DrawOptions struct {
	TabWidth int
	Focused  bool // Highlights the top line number
}

// gutterWidth returns the width of the line number column including padding.
func gutterWidth(lineCount, width int) int {
	if lineCount < 1 {
		lineCount = 1
	}
	w := int(math.Log10(float64(lineCount))) + 2
	if w >= width {
		return 0 // Not enough space for gutter and text
	}
	return w
}

// DrawView paints the visible lines of v into area. Lines collapsed in the
// view's height tree are skipped; the last line before a collapsed run gets
// a marker with the number of hidden lines. It returns the drawn line numbers.
func DrawView(t *TUI, v *view.View, area Rect, activeTheme *theme.Theme, opts DrawOptions) []int {
	if area.Height <= 0 || area.Width <= 0 {
		return nil
	}
	if err := v.StartGeneration(); err != nil {
		logger.Warnf("DrawView: generation for view %d failed: %v", v.ID(), err)
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}

	defaultStyle := activeTheme.GetStyle("Default")
	lineNumberStyle := activeTheme.GetStyle("LineNumber")

	doc := v.Document()
	heights := v.HeightTree()
	gutter := gutterWidth(doc.LineCount(), area.Width)
	digits := gutter - 1

	// Lines hidden above the first visible line get a marker row of their own.
	leading := 0
	if first, ok := heights.NextVisibleLine(1); !ok || v.TopLine() == first {
		leading = hiddenAfter(heights, 0)
	}
	rows := area.Height
	if leading > 0 {
		rows--
	}
	lines := v.VisibleLines(rows)

	for row := 0; row < area.Height; row++ {
		y := area.Y + row
		for x := area.X; x < area.X+area.Width; x++ {
			t.screen.SetContent(x, y, ' ', nil, defaultStyle)
		}
		if leading > 0 {
			if row == 0 {
				drawMarker(t.screen, area.X+gutter, y, area.Width-gutter, leading, activeTheme.GetStyle(markerStyle(v, doc, 1)))
				continue
			}
		}
		i := row
		if leading > 0 {
			i--
		}
		if i >= len(lines) {
			continue
		}

		n := lines[i]
		if gutter > 0 {
			style := lineNumberStyle
			if opts.Focused && i == 0 {
				style = activeTheme.GetStyle("LineNumber.Active")
			}
			drawString(t.screen, area.X, y, digits, fmt.Sprintf("%*d", digits, n), style)
		}

		line, err := doc.LineByNumber(n)
		if err != nil {
			logger.Debugf("DrawView: %v", err)
			continue
		}
		text, _ := doc.Slice(line.Offset, line.EndOffset())
		x := drawText(t.screen, area.X+gutter, y, area.Width-gutter, text, opts.TabWidth, defaultStyle)

		if hidden := hiddenAfter(heights, n); hidden > 0 {
			drawMarker(t.screen, x, y, area.X+area.Width-x, hidden, activeTheme.GetStyle(markerStyle(v, doc, n+1)))
		}
	}
	return lines
}

// hiddenAfter returns how many collapsed lines directly follow line n.
func hiddenAfter(heights *heighttree.Tree, n int) int {
	if n >= heights.LineCount() || !heights.IsLineCollapsed(n+1) {
		return 0
	}
	if next, ok := heights.NextVisibleLine(n + 1); ok {
		return next - n - 1
	}
	return heights.LineCount() - n
}

func drawMarker(screen tcell.Screen, x, y, width, hidden int, style tcell.Style) {
	marker := fmt.Sprintf(" ⋯ %d hidden lines", hidden)
	if hidden == 1 {
		marker = " ⋯ 1 hidden line"
	}
	drawString(screen, x, y, width, marker, style)
}

// markerStyle picks the marker style for the hidden run starting at line n.
func markerStyle(v *view.View, doc *buffer.Document, n int) string {
	m, err := hiding.FromView(v)
	if err != nil {
		return "Hidden"
	}
	line, err := doc.LineByNumber(n)
	if err != nil {
		return "Hidden"
	}
	for _, s := range m.HidingsContaining(line.Offset) {
		if s.IsHidden() && s.IsDefinition() {
			return "Hidden.Definition"
		}
	}
	return "Hidden"
}

// drawText draws one line of text with tab expansion and returns the next free column.
func drawText(screen tcell.Screen, x0, y, width int, text string, tabWidth int, style tcell.Style) int {
	col := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		clusterWidth := gr.Width()
		if runes[0] == '\t' {
			clusterWidth = tabWidth - col%tabWidth
			if col+clusterWidth > width {
				clusterWidth = width - col
			}
			for i := 0; i < clusterWidth; i++ {
				screen.SetContent(x0+col+i, y, ' ', nil, style)
			}
		} else {
			if col+clusterWidth > width {
				break
			}
			screen.SetContent(x0+col, y, runes[0], runes[1:], style)
		}
		col += clusterWidth
		if col >= width {
			break
		}
	}
	return x0 + col
}

// drawString draws s at (x, y), clipped to width columns.
func drawString(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	col := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if col+w > width {
			return
		}
		runes := gr.Runes()
		screen.SetContent(x+col, y, runes[0], runes[1:], style)
		col += w
	}
}

// DrawSeparator draws a horizontal rule labelled with label on row y.
func DrawSeparator(t *TUI, y, width int, label string, activeTheme *theme.Theme) {
	style := activeTheme.GetStyle("Separator")
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, y, '─', nil, style)
	}
	if label != "" {
		drawString(t.screen, 2, y, width-2, " "+label+" ", style)
	}
}
