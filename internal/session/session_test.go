package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyedit/internal/apperr"
	"pyedit/internal/history"
	"pyedit/internal/runner"
)

func newSession() *Session {
	return New(Options{Logger: zerolog.Nop()})
}

func typeText(t *testing.T, s *Session, text string) {
	t.Helper()
	for _, r := range text {
		offset := len(s.Document().Text())
		require.NoError(t, s.Edit(history.Edit{Offset: offset, New: string(r)}))
	}
}

func TestInitialState(t *testing.T) {
	s := newSession()
	assert.Equal(t, State{Bound: false, Dirty: false}, s.State())
	assert.Equal(t, "Untitled/Clean", s.State().String())
	assert.Equal(t, AppTitle, s.Title())
	assert.Equal(t, ThemeLight, s.Theme())
}

func TestEditMakesDirty(t *testing.T) {
	s := newSession()
	typeText(t, s, "x")
	assert.Equal(t, "Untitled/Dirty", s.State().String())
	assert.Equal(t, "*"+AppTitle, s.Title())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := newSession()
	typeText(t, s, "print(1)")
	final := s.Document().Text()

	for range final {
		require.True(t, s.Undo())
	}
	assert.Equal(t, "", s.Document().Text())
	assert.False(t, s.Undo())

	undo, redo := s.History().Len()
	assert.Equal(t, 0, undo)
	assert.Equal(t, len(final), redo)

	for range final {
		require.True(t, s.Redo())
	}
	assert.Equal(t, final, s.Document().Text())
	assert.False(t, s.Redo())

	// сами undo/redo в историю не попадают
	undo, redo = s.History().Len()
	assert.Equal(t, len(final), undo)
	assert.Equal(t, 0, redo)
}

func TestEditAfterUndoClearsRedo(t *testing.T) {
	s := newSession()
	typeText(t, s, "ab")
	require.True(t, s.Undo())
	assert.True(t, s.History().CanRedo())

	typeText(t, s, "c")
	assert.False(t, s.History().CanRedo())
	assert.Equal(t, "ac", s.Document().Text())
}

func TestUndoMarksDirty(t *testing.T) {
	dir := t.TempDir()
	s := newSession()
	typeText(t, s, "x")
	require.NoError(t, s.SaveAs(filepath.Join(dir, "a.py")))
	assert.False(t, s.State().Dirty)

	require.True(t, s.Undo())
	assert.True(t, s.State().Dirty)
}

func TestSaveUntitledNeedsPath(t *testing.T) {
	s := newSession()
	typeText(t, s, "x")
	assert.ErrorIs(t, s.Save(), ErrNoPath)
	assert.ErrorIs(t, s.SaveAs(""), ErrNoPath)
	assert.Equal(t, "Untitled/Dirty", s.State().String())
}

func TestSaveAsBindsAndSaveRewrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.py")
	s := newSession()
	typeText(t, s, "print('hi')")

	require.NoError(t, s.SaveAs(path))
	assert.Equal(t, "Bound/Clean", s.State().String())
	assert.Equal(t, AppTitle+" - "+path, s.Title())

	typeText(t, s, "\n")
	assert.Equal(t, "Bound/Dirty", s.State().String())
	require.NoError(t, s.Save())
	assert.Equal(t, "Bound/Clean", s.State().String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(data))
}

func TestOpenReplacesBufferAndClearsHistory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	s := newSession()
	typeText(t, s, "unsaved")
	require.NoError(t, s.Open(path))

	assert.Equal(t, "x = 1\n", s.Document().Text())
	assert.Equal(t, "Bound/Clean", s.State().String())
	assert.False(t, s.History().CanUndo())
	assert.False(t, s.Undo())
}

func TestOpenFailureKeepsDocument(t *testing.T) {
	s := newSession()
	typeText(t, s, "keep me")

	err := s.Open(filepath.Join(t.TempDir(), "missing.py"))
	require.Error(t, err)
	assert.Equal(t, apperr.FileRead, apperr.KindOf(err))
	assert.Equal(t, "keep me", s.Document().Text())
	assert.True(t, s.History().CanUndo())
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	s := newSession()
	typeText(t, s, "x")

	err := s.SaveAs(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, apperr.FileWrite, apperr.KindOf(err))
	assert.Equal(t, "Untitled/Dirty", s.State().String())
}

func TestNewDocumentResets(t *testing.T) {
	dir := t.TempDir()
	s := newSession()
	typeText(t, s, "x")
	require.NoError(t, s.SaveAs(filepath.Join(dir, "a.py")))
	typeText(t, s, "y")

	s.NewDocument()
	assert.Equal(t, "Untitled/Clean", s.State().String())
	assert.Equal(t, "", s.Document().Text())
	assert.False(t, s.History().CanUndo())
	assert.False(t, s.History().CanRedo())
}

func TestThemeSwitching(t *testing.T) {
	s := New(Options{Theme: ThemeDark, Logger: zerolog.Nop()})
	assert.Equal(t, ThemeDark, s.Theme())

	assert.False(t, s.SetTheme(ThemeDark))
	assert.False(t, s.SetTheme("solarized"))
	assert.True(t, s.SetTheme(ThemeLight))
	assert.Equal(t, ThemeLight, s.Theme())

	assert.Equal(t, ThemeDark, s.ToggleTheme())
	assert.Equal(t, ThemeLight, s.ToggleTheme())
}

func TestLastRun(t *testing.T) {
	s := newSession()
	assert.Nil(t, s.LastRun())
	res := &runner.Result{Kind: runner.Errors, Text: "boom\n"}
	s.SetLastRun(res)
	assert.Same(t, res, s.LastRun())
}

func TestMaxHistory(t *testing.T) {
	s := New(Options{MaxHistory: 3, Logger: zerolog.Nop()})
	typeText(t, s, "abcdef")
	for s.Undo() {
	}
	assert.Equal(t, "abc", s.Document().Text())
}
