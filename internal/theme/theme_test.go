package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

const solarized = `
name = "Solar"
is_dark = false

[styles.Default]
fg = "#112233"

[styles.Hidden]
italic = true

[styles.StatusBar]
bg = "navy"
reverse = true
`

func TestManagerLoadsThemesFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "solar.toml"), []byte(solarized), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir)
	if got := m.ListThemes(); len(got) != 2 || got[0] != "Solar" || got[1] != "Veil Dark" {
		t.Fatalf("ListThemes() = %v", got)
	}
	if m.Current() != &VeilDark {
		t.Errorf("built-in theme should start active")
	}
	if err := m.SetTheme("solar"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetTheme("missing"); err == nil {
		t.Error("SetTheme accepted an unknown theme")
	}

	th := m.Current()
	fg, _, _ := th.GetStyle("Hidden").Decompose()
	if fg != tcell.NewHexColor(0x112233) {
		t.Errorf("Hidden should inherit the Default foreground, got %v", fg)
	}
	_, bg, attrs := th.GetStyle("StatusBar").Decompose()
	if bg != tcell.ColorNavy || attrs&tcell.AttrReverse == 0 {
		t.Errorf("StatusBar = bg %v attrs %v", bg, attrs)
	}
}

func TestGetStyleFallbacks(t *testing.T) {
	if VeilDark.GetStyle("Hidden.Unknown") != VeilDark.Styles["Hidden"] {
		t.Error("dotted name should fall back to its base")
	}
	if VeilDark.GetStyle("nothing") != VeilDark.Styles["Default"] {
		t.Error("unknown name should fall back to Default")
	}
}

func TestParseColorString(t *testing.T) {
	for _, s := range []string{"#12345", "#zzzzzz", "ultraviolet"} {
		if _, err := parseColorString(s); err == nil {
			t.Errorf("parseColorString(%q) accepted", s)
		}
	}
	if c, err := parseColorString(" Reset "); err != nil || c != tcell.ColorReset {
		t.Errorf("reset = %v, %v", c, err)
	}
}

func TestLoadThemeDerivesViewerStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.toml")
	theme := "[styles.Default]\nfg = \"#445566\"\n\n[styles.Hidden]\nfg = \"red\"\n"
	if err := os.WriteFile(path, []byte(theme), 0644); err != nil {
		t.Fatal(err)
	}
	th, err := LoadThemeFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "plain" {
		t.Errorf("Name = %q, want the file name", th.Name)
	}
	for _, vs := range viewerStyles {
		if _, ok := th.Styles[vs.name]; !ok {
			t.Errorf("style %s missing", vs.name)
		}
	}

	fg, _, attrs := th.Styles["Hidden.Definition"].Decompose()
	if fg != tcell.ColorRed || attrs&tcell.AttrUnderline == 0 {
		t.Errorf("Hidden.Definition should underline the file's Hidden style, got fg %v attrs %v", fg, attrs)
	}
	fg, _, attrs = th.Styles["LineNumber"].Decompose()
	if fg != tcell.NewHexColor(0x445566) || attrs&tcell.AttrDim == 0 {
		t.Errorf("LineNumber = fg %v attrs %v", fg, attrs)
	}
	if _, _, attrs := th.Styles["StatusBar"].Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Errorf("StatusBar should be reversed, attrs %v", attrs)
	}
}
