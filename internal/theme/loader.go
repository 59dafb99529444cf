// internal/theme/loader.go
package theme

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// styleSpec is one [styles.<Name>] table of a theme file. Unset fields keep
// the value of the style it is layered on.
type styleSpec struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Dim       *bool   `toml:"dim"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
}

type themeFile struct {
	Name   string               `toml:"name"`
	IsDark bool                 `toml:"is_dark"`
	Styles map[string]styleSpec `toml:"styles"`
}

// viewerStyles lists the styles the viewer draws with, in dependency order.
// A theme file that leaves one out gets a variant of the style named in from.
var viewerStyles = []struct {
	name   string
	from   string
	derive func(tcell.Style) tcell.Style
}{
	{"LineNumber", "Default", func(s tcell.Style) tcell.Style { return s.Dim(true) }},
	{"LineNumber.Active", "LineNumber", func(s tcell.Style) tcell.Style { return s.Dim(false).Bold(true) }},
	{"Separator", "LineNumber", func(s tcell.Style) tcell.Style { return s }},
	{"Hidden", "Default", func(s tcell.Style) tcell.Style { return s.Dim(true).Italic(true) }},
	{"Hidden.Definition", "Hidden", func(s tcell.Style) tcell.Style { return s.Underline(true) }},
	{"StatusBar", "Default", func(s tcell.Style) tcell.Style { return s.Reverse(true) }},
	{"StatusBarModified", "StatusBar", func(s tcell.Style) tcell.Style { return s.Bold(true) }},
	{"StatusBarMessage", "StatusBar", func(s tcell.Style) tcell.Style { return s.Bold(true) }},
	{"StatusBarStrategy", "StatusBar", func(s tcell.Style) tcell.Style { return s }},
}

// LoadThemeFromFile reads a TOML theme. A file without a name is named
// after the file.
func LoadThemeFromFile(filePath string) (*Theme, error) {
	var file themeFile
	meta, err := toml.DecodeFile(filePath, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML theme file '%s': %w", filePath, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme file '%s': unrecognized keys %v", filePath, undecoded)
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	th := file.build()
	logger.Debugf("Loaded theme '%s' from '%s' (%d styles)", th.Name, filePath, len(th.Styles))
	return th, nil
}

// build converts the file into a Theme. Every style is layered on Default;
// bad styles are skipped and viewer styles the file lacks are derived.
func (f *themeFile) build() *Theme {
	th := &Theme{
		Name:   f.Name,
		IsDark: f.IsDark,
		Styles: make(map[string]tcell.Style, len(f.Styles)+len(viewerStyles)),
	}

	base := tcell.StyleDefault
	if spec, ok := f.Styles["Default"]; ok {
		style, err := spec.apply(tcell.StyleDefault)
		if err != nil {
			logger.Warnf("Theme '%s': style 'Default': %v", f.Name, err)
		} else {
			base = style
		}
	}
	th.Styles["Default"] = base

	for name, spec := range f.Styles {
		if name == "Default" {
			continue
		}
		style, err := spec.apply(base)
		if err != nil {
			logger.Warnf("Theme '%s': style '%s' skipped: %v", f.Name, name, err)
			continue
		}
		th.Styles[name] = style
	}

	var derived []string
	for _, vs := range viewerStyles {
		if _, ok := th.Styles[vs.name]; ok {
			continue
		}
		th.Styles[vs.name] = vs.derive(th.Styles[vs.from])
		derived = append(derived, vs.name)
	}
	if len(derived) > 0 {
		logger.DebugTagf("theme", "Theme '%s': derived %v", f.Name, derived)
	}
	return th
}

// apply layers the spec on top of style.
func (s styleSpec) apply(style tcell.Style) (tcell.Style, error) {
	if s.Fg != nil {
		color, err := parseColorString(*s.Fg)
		if err != nil {
			return style, fmt.Errorf("fg: %w", err)
		}
		style = style.Foreground(color)
	}
	if s.Bg != nil {
		color, err := parseColorString(*s.Bg)
		if err != nil {
			return style, fmt.Errorf("bg: %w", err)
		}
		style = style.Background(color)
	}

	for _, flag := range []struct {
		value *bool
		set   func(tcell.Style, bool) tcell.Style
	}{
		{s.Bold, tcell.Style.Bold},
		{s.Italic, tcell.Style.Italic},
		{s.Dim, tcell.Style.Dim},
		{s.Underline, func(st tcell.Style, on bool) tcell.Style { return st.Underline(on) }},
		{s.Reverse, tcell.Style.Reverse},
	} {
		if flag.value != nil {
			style = flag.set(style, *flag.value)
		}
	}
	return style, nil
}

// parseColorString accepts #RRGGBB, "reset", "default" and tcell color names.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "reset":
		return tcell.ColorReset, nil
	case s == "default":
		return tcell.ColorDefault, nil
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color '%s', want #RRGGBB", s)
		}
		val, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(val)), nil
	}
	if color, ok := tcell.ColorNames[s]; ok {
		return color, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color '%s'", s)
}
