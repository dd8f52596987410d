package screens

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyedit/internal/ui/styles"
)

func paletteEntries() []CommandEntry {
	return []CommandEntry{
		{ID: "new", Title: "New", Menu: "File", Key: "Ctrl+N", Enabled: true},
		{ID: "save", Title: "Save", Menu: "File", Key: "Ctrl+S", Enabled: true},
		{ID: "run", Title: "Run", Menu: "Code-Runner", Key: "F5", Enabled: true},
		{ID: "light_theme", Title: "Light Theme", Menu: "View", Enabled: false},
		{ID: "dark_theme", Title: "Dark Theme", Menu: "View", Enabled: true},
	}
}

func newPalette() *CommandPaletteScreen {
	ps := NewCommandPaletteScreen(styles.NewTheme(styles.Light), paletteEntries)
	ps.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	ps.OnEnter()
	return ps
}

func TestPaletteFilter(t *testing.T) {
	ps := newPalette()
	assert.Equal(t, "new", ps.SelectedID())

	for _, r := range "theme" {
		ps.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Len(t, ps.filtered, 2)
	assert.Equal(t, "light_theme", ps.SelectedID())

	ps.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "dark_theme", ps.SelectedID())
	ps.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "dark_theme", ps.SelectedID())
}

func TestPaletteExecutesEnabledOnly(t *testing.T) {
	ps := newPalette()
	for _, r := range "light" {
		ps.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := ps.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "disabled command does not run")

	ps.OnEnter()
	ps.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = ps.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandExecuteMsg{ID: "save"}, cmd())
}

func TestPaletteEscGoesBack(t *testing.T) {
	ps := newPalette()
	_, cmd := ps.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestPaletteViewGroupsByMenu(t *testing.T) {
	ps := newPalette()
	view := ps.View()
	assert.Contains(t, view, "File")
	assert.Contains(t, view, "Code-Runner")
	assert.Contains(t, view, "[F5]")

	for _, r := range "zzz" {
		ps.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Contains(t, ps.View(), "No commands match filter")
	assert.Equal(t, "", ps.SelectedID())
}

func TestHelpScreen(t *testing.T) {
	hs := NewHelpScreen(styles.NewTheme(styles.Dark), func() []string {
		return []string{"Commands", "  F5 Run"}
	})
	hs.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	hs.OnEnter()
	assert.Contains(t, hs.View(), "F5 Run")

	_, cmd := hs.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
