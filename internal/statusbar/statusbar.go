// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg" // For proper Unicode width calculation
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style // Default background/foreground
	StyleModified  tcell.Style // Style for the modified indicator
	StyleMessage   tcell.Style // Style for temporary messages
	StyleStrategy  tcell.Style // Style for the strategy name
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleModified:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlue).Bold(true),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		StyleStrategy:  tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlue).Bold(true),
		MessageTimeout: 4 * time.Second,
	}
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	filePath   string
	isModified bool

	strategy     string
	totalHidings int
	hiddenCount  int

	topLine    int
	activeView int // 1-based
	viewCount  int

	tempMessage     string
	tempMessageTime time.Time

	now func() time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config:    config,
		topLine:   1,
		viewCount: 1,
		now:       time.Now,
	}
}

// SetFileInfo updates the file path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetHidingInfo updates the strategy name and section counts.
func (sb *StatusBar) SetHidingInfo(strategy string, total, hidden int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.strategy = strategy
	sb.totalHidings = total
	sb.hiddenCount = hidden
}

// SetViewInfo updates the focused view and its top line.
func (sb *StatusBar) SetViewInfo(active, count, topLine int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.activeView = active
	sb.viewCount = count
	sb.topLine = topLine
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// segment is a piece of status text drawn with one style.
type segment struct {
	text  string
	style tcell.Style
}

// defaultSegments builds the default status line. Callers hold the lock.
func (sb *StatusBar) defaultSegments() []segment {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	segs := []segment{{fPath, sb.config.StyleDefault}}
	if sb.isModified {
		segs = append(segs, segment{" [Modified]", sb.config.StyleModified})
	}
	if sb.strategy != "" {
		segs = append(segs,
			segment{" -- ", sb.config.StyleDefault},
			segment{sb.strategy, sb.config.StyleStrategy})
	}
	segs = append(segs, segment{
		fmt.Sprintf(" -- %d/%d hidden -- Line: %d", sb.hiddenCount, sb.totalHidings, sb.topLine),
		sb.config.StyleDefault,
	})
	if sb.viewCount > 1 {
		segs = append(segs, segment{fmt.Sprintf(" -- View %d/%d", sb.activeView, sb.viewCount), sb.config.StyleDefault})
	}
	return segs
}

// Draw renders the status bar onto the last screen row.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	isTempMsgActive := !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	var segs []segment
	if isTempMsgActive {
		segs = []segment{{sb.tempMessage, sb.config.StyleMessage}}
	} else {
		segs = sb.defaultSegments()
	}
	fill := segs[0].style
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, fill)
	}

	currentX := 0
	for _, seg := range segs {
		gr := uniseg.NewGraphemes(seg.text)
		for gr.Next() {
			clusterWidth := gr.Width()
			if currentX+clusterWidth > width {
				return
			}
			runes := gr.Runes()
			if len(runes) > 0 {
				screen.SetContent(currentX, y, runes[0], runes[1:], seg.style)
			}
			currentX += clusterWidth
		}
	}
}
