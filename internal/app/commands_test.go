package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyedit/internal/config"
)

func TestResolvePrefersScreenBinding(t *testing.T) {
	r := NewCommandRegistry()
	editor := EditorScreen
	r.Register(&Command{ID: "global", Key: "ctrl+k"})
	r.Register(&Command{ID: "local", Key: "Ctrl+K", Screen: &editor})

	assert.Equal(t, "local", r.Resolve("ctrl+k", EditorScreen).ID)
	assert.Equal(t, "global", r.Resolve("ctrl+k", HelpScreen).ID)
	assert.Nil(t, r.Resolve("ctrl+j", EditorScreen))
}

func TestResolveScreenOnlyCommand(t *testing.T) {
	r := NewCommandRegistry()
	editor := EditorScreen
	r.Register(&Command{ID: "save", Key: "ctrl+s", Screen: &editor})
	assert.Nil(t, r.Resolve("ctrl+s", OpenFileScreen))
}

func TestRegisterIgnoresEmpty(t *testing.T) {
	r := NewCommandRegistry()
	r.Register(nil)
	r.Register(&Command{})
	assert.Empty(t, r.All())
}

func TestRunRespectsEnabled(t *testing.T) {
	r := NewCommandRegistry()
	ran := false
	r.Register(&Command{
		ID:      "x",
		Enabled: func(*App) bool { return false },
		Run:     func(*App) tea.Cmd { ran = true; return nil },
	})
	assert.Nil(t, r.Run("x", nil))
	assert.False(t, ran)
	assert.Nil(t, r.Run("missing", nil))
}

func TestAllOrdersByMenu(t *testing.T) {
	a := New(context.Background(), config.DefaultConfig(), zerolog.Nop(), Options{})
	var ids []string
	for _, cmd := range a.commands.All() {
		ids = append(ids, cmd.ID)
	}
	assert.Equal(t, []string{
		"new", "open", "save", "save_as",
		"undo", "redo",
		"run", "about",
		"light_theme", "dark_theme", "toggle_theme",
		"command_palette", "help", "quit",
	}, ids)
}

func TestKeybindingsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings["run"] = "ctrl+r"
	cfg.Keybindings["light_theme"] = "alt+l"
	a := New(context.Background(), cfg, zerolog.Nop(), Options{})

	cmd := a.commands.Resolve("ctrl+r", EditorScreen)
	require.NotNil(t, cmd)
	assert.Equal(t, "run", cmd.ID)
	assert.Nil(t, a.commands.Resolve("f5", EditorScreen))

	theme := a.commands.Resolve("alt+l", HelpScreen)
	require.NotNil(t, theme)
	assert.Equal(t, "light_theme", theme.ID)
}

func TestEntriesForPalette(t *testing.T) {
	a := New(context.Background(), config.DefaultConfig(), zerolog.Nop(), Options{})
	entries := a.commands.Entries(a)
	require.Len(t, entries, 14)

	byID := map[string]bool{}
	keys := map[string]string{}
	for _, e := range entries {
		byID[e.ID] = e.Enabled
		keys[e.ID] = e.Key
	}
	assert.False(t, byID["light_theme"])
	assert.True(t, byID["dark_theme"])
	assert.True(t, byID["run"])
	assert.Equal(t, "Ctrl+S", keys["save"])
	assert.Equal(t, "F5", keys["run"])
	assert.Equal(t, "", keys["about"])
}
